package main

import (
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"reckon/internal/config"
	"reckon/internal/database"
	apperrors "reckon/internal/errors"
	"reckon/internal/logger"
	"reckon/internal/services"
)

// skipDB marks commands that manage the database themselves.
const skipDB = "reckon/skip-db"

// app holds what every subcommand shares once the root pre-run is done.
type app struct {
	started time.Time
	cfg     *config.Config
	dbCfg   *database.Config
	manager *database.Manager
}

func (a *app) db() *gorm.DB { return a.manager.DB() }

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "reckon",
		Short: "Reconcile bank and card CSV exports into local ledgers",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			logger.Get().Debugw("command",
				"command", cmd.CommandPath(),
				"latency_ms", time.Since(a.started).Milliseconds(),
			)
			return a.close()
		},
	}

	root.AddCommand(
		newImportCmd(a),
		newAccountsCmd(a),
		newClassifyCmd(a),
		newRenormalizeCmd(a),
		newTransactionsCmd(a),
		newMigrateCmd(a),
	)
	return root
}

// setup loads configuration, opens the database, applies migrations when
// enabled and seeds the parse formats.
func (a *app) setup(cmd *cobra.Command) error {
	a.started = time.Now()
	cfg, err := config.Load()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	logger.Init(cfg.Env)
	a.cfg = cfg

	dbCfg, err := database.NewConfig(cfg)
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	a.dbCfg = dbCfg

	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipDB] == "true" {
			return nil
		}
	}

	manager, err := database.NewManager(dbCfg)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	a.manager = manager

	if cfg.AutoMigrate {
		if err := manager.RunMigrations(); err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
	}

	return services.NewClassificationService(manager.DB()).SeedParseFormats()
}

func (a *app) close() error {
	if a.manager == nil {
		return nil
	}
	err := a.manager.Close()
	a.manager = nil
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}
