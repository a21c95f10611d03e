package chart

import "errors"

// ErrUnknownKind indicates an invalid chart kind name was specified.
// Renderers themselves never fail; only parsing user input does.
var ErrUnknownKind = errors.New("unknown chart kind")
