// Package errs provides the error taxonomy of the pricing engine.
//
// Errors fall into two families that callers must be able to tell apart:
//   - Input errors (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError):
//     the caller supplied bad coordinates, a negative distance, an unknown package
//     size and so on. They are raised before any I/O and are not retryable.
//   - UpstreamQueryError: the courier directory or the demand query store failed.
//     These are transient and safe to retry.
//
// ObjectNotFoundError is used by repositories for absent rows.
//
// Each error type has a sentinel (ErrValueIsInvalid, ErrUpstreamQuery, ...), a
// struct with the details, constructors with and without cause, and Unwrap
// support. IsInputError and IsRetryable classify an arbitrary wrapped error.
package errs
