// Command reckon imports institution CSV exports into per-account ledgers
// and manages the description classification tables.
package main

import (
	"errors"
	"fmt"
	"os"

	apperrors "reckon/internal/errors"
	"reckon/internal/logger"
)

func main() {
	err := newRootCmd().Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "reckon: "+err.Error())
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status. Errors that are not
// AppErrors come from flag and argument parsing and count as bad input.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return apperrors.ExitPrecondition
}
