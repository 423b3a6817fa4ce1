// Package errs provides standardized error types for the marketplace backend.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Each error type follows the same shape:
//   - a sentinel error variable (e.g. ErrObjectNotFound)
//   - a struct type carrying the error details
//   - constructor functions with and without an underlying cause
//   - Error() for formatting and Unwrap() pointing at the sentinel
//
// The sentinels drive classification at the transport edge: not-found errors
// become 404 responses, invalid/required/out-of-range errors become 400
// responses, and anything else is treated as a server-side failure.
package errs
