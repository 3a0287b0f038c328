// Package errors provides custom error types for reckon.
// Service-layer errors use AppError so the CLI can print one diagnostic line
// and pick an exit code without inspecting driver or parser internals.
package errors

// Exit codes returned by the CLI for each error class.
const (
	ExitInternal     = 1
	ExitPrecondition = 2
)

// AppError represents a structured application error with an error code,
// human-readable message, process exit code, and optional internal error.
type AppError struct {
	Code     string
	Message  string
	ExitCode int
	Internal error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so wrapped
// copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/exit code but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  sentinel.Message,
		ExitCode: sentinel.ExitCode,
		Internal: internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  message,
		ExitCode: sentinel.ExitCode,
		Internal: sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", ExitCode: ExitPrecondition}
	ErrStorage      = &AppError{Code: "STORAGE_ERROR", Message: "Storage operation failed", ExitCode: ExitInternal}
	ErrInternal     = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", ExitCode: ExitInternal}
)

// Account errors.
var (
	ErrAccountNotFound  = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", ExitCode: ExitPrecondition}
	ErrDuplicateAccount = &AppError{Code: "DUPLICATE_ACCOUNT", Message: "An account with this identifier already exists", ExitCode: ExitPrecondition}
)

// Format and classification errors.
var (
	ErrFormatNotFound = &AppError{Code: "FORMAT_NOT_FOUND", Message: "Unknown parse format", ExitCode: ExitPrecondition}
	ErrEmptyCategory  = &AppError{Code: "EMPTY_CATEGORY", Message: "Category name is required", ExitCode: ExitPrecondition}
)

// Import file errors.
var (
	ErrFileUnreadable = &AppError{Code: "FILE_UNREADABLE", Message: "Import file cannot be read", ExitCode: ExitPrecondition}
	ErrFileMalformed  = &AppError{Code: "FILE_MALFORMED", Message: "Import file is malformed", ExitCode: ExitPrecondition}
)
