package fetch

// Export internal functions for testing.

// ClassifyTransport exports classifyTransport for testing.
var ClassifyTransport = classifyTransport

// IsJSONMediaType exports isJSONMediaType for testing.
var IsJSONMediaType = isJSONMediaType

// IsIdempotent exports isIdempotent for testing.
var IsIdempotent = isIdempotent

// CanTransition exports canTransition for testing.
var CanTransition = canTransition

// MaxErrorBody exports maxErrorBody for testing.
const MaxErrorBody = maxErrorBody
