// Copyright (c) 2025, EduForge Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodePreconditionFailed indicates an environment requirement was not met
	// before the pipeline started mutating cluster state.
	ErrCodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	// ErrCodeClusterUnreachable indicates the Kubernetes API server did not
	// answer the liveness query.
	ErrCodeClusterUnreachable ErrorCode = "CLUSTER_UNREACHABLE"
	// ErrCodePermissionDenied indicates the authenticated identity lacks a
	// permission the pipeline requires.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeManifestInvalid indicates a resource document could not be read,
	// decoded, or carries an unsupported kind.
	ErrCodeManifestInvalid ErrorCode = "MANIFEST_INVALID"
	// ErrCodeApplyFailed indicates a create-or-update call was rejected by the
	// API server.
	ErrCodeApplyFailed ErrorCode = "APPLY_FAILED"
	// ErrCodeDeleteFailed indicates a teardown deletion was rejected by the
	// API server.
	ErrCodeDeleteFailed ErrorCode = "DELETE_FAILED"
	// ErrCodeProbeInconclusive indicates the external health probe could not
	// produce a definitive answer.
	ErrCodeProbeInconclusive ErrorCode = "PROBE_INCONCLUSIVE"
	// ErrCodeConfigInvalid indicates malformed or inconsistent run configuration.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Severity splits errors into the two classes the pipeline distinguishes:
// fatal errors abort the run, warnings are logged and the run continues.
type Severity string

const (
	// SeverityFatal aborts the pipeline at the failing stage.
	SeverityFatal Severity = "fatal"
	// SeverityWarning is recorded and surfaced but never stops the pipeline.
	SeverityWarning Severity = "warning"
)

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a severity that decides
// whether the pipeline aborts, a human-readable message, the underlying cause,
// and optional context for debugging.
type StructuredError struct {
	Code     ErrorCode
	Severity Severity
	Message  string
	Cause    error
	Context  map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new fatal StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:     code,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// Newf creates a new fatal StructuredError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *StructuredError {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithContext creates a new fatal StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:     code,
		Severity: SeverityFatal,
		Message:  message,
		Context:  context,
	}
}

// Wrap wraps an existing error as a fatal StructuredError.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:     code,
		Severity: SeverityFatal,
		Message:  message,
		Cause:    cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:     code,
		Severity: SeverityFatal,
		Message:  message,
		Cause:    cause,
		Context:  context,
	}
}

// Warn creates a new warning-severity StructuredError.
func Warn(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:     code,
		Severity: SeverityWarning,
		Message:  message,
	}
}

// Warnf creates a new warning-severity StructuredError with a formatted message.
func Warnf(code ErrorCode, format string, args ...any) *StructuredError {
	return Warn(code, fmt.Sprintf(format, args...))
}

// WrapWarning wraps an existing error as a warning-severity StructuredError.
func WrapWarning(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:     code,
		Severity: SeverityWarning,
		Message:  message,
		Cause:    cause,
	}
}

// IsWarning reports whether err carries warning severity. Only an explicit
// warning-severity StructuredError qualifies.
func IsWarning(err error) bool {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Severity == SeverityWarning
	}
	return false
}

// IsFatal reports whether err should abort the pipeline. Any non-nil error
// that is not an explicit warning counts as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !IsWarning(err)
}

// CodeOf extracts the ErrorCode from err, or ErrCodeInternal when err carries
// no structured classification.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
