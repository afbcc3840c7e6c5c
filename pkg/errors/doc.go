// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Every error carries a classification code and a severity. Fatal errors
// abort the deployment pipeline at the failing stage; warnings are logged
// and the run continues.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeApplyFailed,
//	    "applying lms deployment",
//	    cause,
//	    map[string]interface{}{
//	        "namespace": ns,
//	        "name": name,
//	    },
//	)
package errors
