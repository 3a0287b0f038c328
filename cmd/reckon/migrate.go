package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"reckon/internal/database"
	apperrors "reckon/internal/errors"
	"reckon/internal/logger"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "migrate <up|down|version> [N]",
		Short:       "Apply or roll back schema migrations",
		Args:        cobra.RangeArgs(1, 2),
		Annotations: map[string]string{skipDB: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, a.dbCfg, args)
		},
	}
}

func runMigrate(cmd *cobra.Command, cfg *database.Config, args []string) error {
	log := logger.Get()

	m, err := database.NewMigrator(cfg)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			log.Warnf("migrate database close error: %v", dbErr)
		}
	}()

	out := cmd.OutOrStdout()
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return apperrors.Wrap(apperrors.ErrStorage, fmt.Errorf("migration up failed: %w", err))
		}
		log.Info("Migrations applied successfully")

	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid step count: "+args[1])
			}
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return apperrors.Wrap(apperrors.ErrStorage, fmt.Errorf("migration down failed: %w", err))
		}
		log.Infof("Rolled back %d migration(s)", steps)

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(out, "version: none")
			return nil
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, fmt.Errorf("failed to get version: %w", err))
		}
		fmt.Fprintf(out, "version: %d, dirty: %v\n", version, dirty)

	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("unknown migrate command: %s (use up, down, or version)", args[0]))
	}

	return nil
}
