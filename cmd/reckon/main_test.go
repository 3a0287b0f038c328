package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "reckon/internal/errors"
	"reckon/internal/testutil"
)

// execute runs one CLI invocation against the database at RECKON_DB_PATH.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RECKON_DB_DRIVER", "sqlite")
	t.Setenv("RECKON_DB_PATH", filepath.Join(dir, "reckon.db"))
	t.Setenv("RECKON_AUTO_MIGRATE", "true")
	return dir
}

func TestCLI_ImportWorkflow(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "accounts", "create", "--identifier", "ally", "--name", "Ally Checking")
	require.NoError(t, err)
	assert.Contains(t, out, "created account ally")

	file := filepath.Join(dir, "ally.csv")
	require.NoError(t, os.WriteFile(file, []byte(
		"Date, Time, Amount, Type, Description\n"+
			"2025-01-03,10:00:00,-4.00,Withdrawal,GITHUB SUBSCRIPTION\n"+
			"2025-01-05,09:00:00,3500.00,Deposit,ACME PAYROLL\n",
	), 0o600))

	out, err = execute(t, "import", "--format=ally_bank", "--account=ally", file)
	require.NoError(t, err)
	assert.Contains(t, out, "rows inserted:           2")
	assert.Contains(t, out, "file:                    ally.csv")

	out, err = execute(t, "import", "--format=ally_bank", "--account=ally", file)
	require.NoError(t, err, "re-importing is not an error")
	assert.Contains(t, out, "rows inserted:           0")

	_, err = execute(t, "classify", "map", "--format=ally_bank", "--normalized=acme payroll", "--category=income")
	require.NoError(t, err)

	out, err = execute(t, "classify", "unmapped", "--format=ally_bank")
	require.NoError(t, err)
	assert.Contains(t, out, "github subscription")
	assert.NotContains(t, out, "acme payroll")

	out, err = execute(t, "transactions", "list", "--account=ally", "--from=2025-01-04")
	require.NoError(t, err)
	assert.Contains(t, out, "3500.00")
	assert.NotContains(t, out, "GITHUB")

	out, err = execute(t, "renormalize")
	require.NoError(t, err)
	assert.Contains(t, out, "scanned 2 raw values, 0 changed")

	out, err = execute(t, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ally Checking")
}

func TestCLI_ImportPreconditions(t *testing.T) {
	dir := setupEnv(t)

	file := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(file, []byte("Date,Memo,Amount\n"), 0o600))

	_, err := execute(t, "accounts", "create", "--identifier", "visa", "--type", "credit_card")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"unknown_account", []string{"import", "--format=ally_bank", "--account=nobody", file}, "ACCOUNT_NOT_FOUND"},
		{"unknown_format", []string{"import", "--format=chase", "--account=visa", file}, "FORMAT_NOT_FOUND"},
		{"malformed_file", []string{"import", "--format=ally_bank", "--account=visa", file}, "FILE_MALFORMED"},
		{"missing_file", []string{"import", "--format=ally_bank", "--account=visa", filepath.Join(dir, "absent.csv")}, "FILE_UNREADABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			testutil.AssertAppError(t, err, tt.code)
			testutil.AssertExitCode(t, err, apperrors.ExitPrecondition)
			assert.Equal(t, apperrors.ExitPrecondition, exitCode(err))
		})
	}

	_, err = execute(t, "import", "--format=ally_bank", file)
	require.Error(t, err, "--account is required")
	assert.Equal(t, apperrors.ExitPrecondition, exitCode(err))
}

func TestCLI_Migrate(t *testing.T) {
	setupEnv(t)
	t.Setenv("RECKON_AUTO_MIGRATE", "false")

	out, err := execute(t, "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version: none")

	_, err = execute(t, "migrate", "up")
	require.NoError(t, err)

	out, err = execute(t, "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1, dirty: false")

	_, err = execute(t, "migrate", "sideways")
	assert.Equal(t, apperrors.ExitPrecondition, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(apperrors.Wrap(apperrors.ErrStorage, errors.New("disk full"))))
	assert.Equal(t, 2, exitCode(apperrors.ErrAccountNotFound))
	assert.Equal(t, 2, exitCode(errors.New(`unknown flag: --bogus`)))
}
