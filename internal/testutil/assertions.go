package testutil

import (
	"errors"
	"testing"

	apperrors "reckon/internal/errors"
)

// asAppError fails the test unless err is, or wraps, an *AppError.
func asAppError(t *testing.T, err error) *apperrors.AppError {
	t.Helper()

	if err == nil {
		t.Fatal("expected an AppError, got nil")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr
}

// AssertAppError checks that err carries the expected AppError code.
func AssertAppError(t *testing.T, err error, code string) {
	t.Helper()

	if appErr := asAppError(t, err); appErr.Code != code {
		t.Errorf("error code = %q, want %q (%v)", appErr.Code, code, err)
	}
}

// AssertExitCode checks the process exit code an error maps to.
func AssertExitCode(t *testing.T, err error, exitCode int) {
	t.Helper()

	if appErr := asAppError(t, err); appErr.ExitCode != exitCode {
		t.Errorf("exit code = %d, want %d (%v)", appErr.ExitCode, exitCode, err)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
