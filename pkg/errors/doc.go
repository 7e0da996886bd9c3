// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Every failure in the bundle pipeline is fatal; the code tells the caller
// which stage failed:
//
//   - INVALID_CONFIG: missing or malformed user configuration
//   - RESOLUTION_FAILED: dependency resolution or unsupported extensions
//   - INSPECTION_FAILED: unreadable artifact metadata (OSGi manifest)
//   - IO: filesystem operations (delete, copy, archive)
//   - REMOTE: deploy or publish requests
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInspection,
//	    "failed to read OSGi bundle headers",
//	    cause,
//	    map[string]any{
//	        "path": artifactPath,
//	    },
//	)
package errors
