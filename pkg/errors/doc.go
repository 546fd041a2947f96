// Package errors provides structured error types for better observability
// and programmatic error handling across docxref.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInvalidRequest,
//	    "failed to parse fragment",
//	    cause,
//	    map[string]any{
//	        "source": src.Name(),
//	        "path":   item.Path(),
//	    },
//	)
//
// Callers that need an HTTP status use HTTPStatus(CodeOf(err)).
package errors
