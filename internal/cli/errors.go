package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIURLMissing indicates no analytics API base URL is configured.
	ErrAPIURLMissing = errors.New("analytics API URL not configured")

	// ErrInvalidSeries indicates a series file that is not a list of records.
	ErrInvalidSeries = errors.New("invalid series file")

	// ErrUnsupportedFormat indicates a series file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported series format")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")
)
