package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/fetch"
)

// Level is the severity of a Notice.
type Level int

const (
	LevelNone Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// String returns the string representation of the Level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "none"
	}
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Notice is the user-facing description of a dashboard failure.
// CanRetry tells the view to offer a manual retry action.
type Notice struct {
	Level    Level  `json:"level"`
	Title    string `json:"title"`
	Detail   string `json:"detail,omitempty"`
	CanRetry bool   `json:"can_retry"`
}

// Notifier receives notices about dashboard refreshes. The consuming view
// passes one to the Loader; nothing here reaches for ambient UI state.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

// Notify calls f(ctx, n).
func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Describe maps err to the notice shown to the user. Access denial gets its
// own title so the view can tell it apart from a generic failure. A nil or
// superseded error yields a LevelNone notice, which views ignore.
func Describe(err error) Notice {
	if err == nil || errors.Is(err, ErrSuperseded) {
		return Notice{}
	}

	var statusErr *fetch.StatusError
	switch {
	case errors.Is(err, fetch.ErrAccessDenied):
		return Notice{
			Level:    LevelError,
			Title:    "Access denied",
			Detail:   "Your account is not allowed to view analytics. Sign in again or ask an administrator for access.",
			CanRetry: true,
		}
	case errors.Is(err, ErrNoBaseURL):
		return Notice{
			Level:  LevelError,
			Title:  "Analytics API not configured",
			Detail: "Set the API URL with 'tourviz config set api-url <url>' or TOURVIZ_API_URL.",
		}
	case errors.Is(err, ErrCircuitOpen):
		return Notice{
			Level:    LevelWarning,
			Title:    "Analytics temporarily unavailable",
			Detail:   "Requests are paused after repeated failures. Try again in a moment.",
			CanRetry: true,
		}
	case errors.Is(err, fetch.ErrRetriesExhausted),
		errors.Is(err, fetch.ErrTimeout),
		errors.Is(err, fetch.ErrNetwork):
		return Notice{
			Level:    LevelError,
			Title:    "Analytics service unreachable",
			Detail:   "The analytics service did not respond. Check your connection and retry.",
			CanRetry: true,
		}
	case errors.Is(err, fetch.ErrInvalidResponseFormat):
		return Notice{
			Level:    LevelError,
			Title:    "Unexpected response from analytics service",
			Detail:   "The server returned data in an unexpected format.",
			CanRetry: true,
		}
	case errors.As(err, &statusErr):
		return Notice{
			Level:    LevelError,
			Title:    "Analytics service error",
			Detail:   fmt.Sprintf("The server answered with HTTP %d.", statusErr.StatusCode),
			CanRetry: true,
		}
	case errors.Is(err, context.Canceled):
		return Notice{
			Level:    LevelWarning,
			Title:    "Refresh cancelled",
			CanRetry: true,
		}
	default:
		return Notice{
			Level:    LevelError,
			Title:    "Failed to load analytics",
			Detail:   err.Error(),
			CanRetry: true,
		}
	}
}
