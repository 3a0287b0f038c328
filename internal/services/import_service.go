package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"reckon/internal/csvformat"
	"reckon/internal/database"
	apperrors "reckon/internal/errors"
	"reckon/internal/lock"
	"reckon/internal/logger"
	"reckon/internal/models"
	"reckon/internal/reconcile"
	"reckon/internal/runid"
	"reckon/internal/validator"
)

// importService runs imports. A run holds the account lock for its whole
// duration and does all of its writes in one database transaction.
type importService struct {
	db     *gorm.DB
	locker *lock.AccountLocker
}

// NewImportService creates a new ImportServicer. Services sharing a locker
// never reconcile the same account concurrently.
func NewImportService(db *gorm.DB, locker *lock.AccountLocker) ImportServicer {
	if locker == nil {
		locker = &lock.AccountLocker{}
	}
	return &importService{db: db, locker: locker}
}

// ImportFile opens req.FileName and imports it.
func (s *importService) ImportFile(ctx context.Context, req ImportRequest) (*ImportSummary, error) {
	f, err := os.Open(req.FileName)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFileUnreadable, err)
	}
	defer f.Close()
	return s.Import(ctx, req, f)
}

// Import reads a CSV export from r and merges it into the account's ledger.
// All precondition checks and the full file parse happen before the first
// write.
func (s *importService) Import(ctx context.Context, req ImportRequest, r io.Reader) (*ImportSummary, error) {
	log := logger.Get()

	if !req.Format.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrFormatNotFound, "unknown format: "+string(req.Format))
	}
	format, err := NewClassificationService(s.db).GetFormat(req.Format)
	if err != nil {
		return nil, err
	}
	account, err := NewAccountService(s.db).ResolveAccount(req.AccountRef)
	if err != nil {
		return nil, err
	}

	parsed, err := csvformat.Parse(r, req.Format)
	if err != nil {
		if errors.Is(err, csvformat.ErrMalformed) {
			return nil, apperrors.Wrap(apperrors.ErrFileMalformed, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrFileUnreadable, err)
	}

	unlock, err := s.locker.Lock(ctx, account.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	defer unlock()

	fileName := "-"
	if req.FileName != "" {
		fileName = filepath.Base(req.FileName)
	}
	summary := &ImportSummary{
		RunID:       runid.New(),
		Account:     account.Identifier,
		Format:      req.Format,
		FileName:    fileName,
		RowsRead:    parsed.RowsRead,
		RowsSkipped: parsed.RowsSkipped,
	}
	log.Infow("import started",
		"run_id", summary.RunID,
		"account", account.Identifier,
		"format", req.Format,
		"file", summary.FileName,
		"rows_read", parsed.RowsRead,
		"rows_skipped", parsed.RowsSkipped,
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.LockAccount(tx, account.ID); err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		return s.run(tx, account, format, parsed, summary)
	})
	if err != nil {
		log.Errorw("import rolled back", "run_id", summary.RunID, "account", account.Identifier, "error", err)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	log.Infow("import committed",
		"run_id", summary.RunID,
		"account", account.Identifier,
		"descriptions_classified", summary.DescriptionsClassified,
		"rows_inserted", summary.RowsInserted,
		"rows_dropped", summary.RowsDropped,
		"import_gap", summary.ImportGap,
		"gap_days", summary.GapDays,
		"transition_days", summary.TransitionDays,
	)
	return summary, nil
}

// run performs the classification pass and the reconciliation inside tx.
func (s *importService) run(tx *gorm.DB, account *models.Account, format *models.ParseFormat, parsed *csvformat.Result, summary *ImportSummary) error {
	classifier := NewClassificationService(tx)
	ledger := NewTransactionService(tx)

	// Classification covers every description in the file and never depends
	// on what the merge below decides.
	classified, err := classifier.ClassifyDescriptions(format, parsed.Descriptions)
	if err != nil {
		return err
	}
	summary.DescriptionsClassified = len(classified)

	rows := make([]reconcile.Row, len(parsed.Rows))
	incoming := make([]reconcile.Day, len(parsed.Rows))
	for i, pr := range parsed.Rows {
		day := reconcile.DayOf(pr.Date)
		incoming[i] = day
		rows[i] = reconcile.Row{
			Day: day,
			Key: reconcile.Key{Description: pr.Description, Amount: pr.Cents()},
			Ref: i,
		}
	}

	existing, err := ledger.ExistingDays(account.ID)
	if err != nil {
		return err
	}
	plan := reconcile.NewPlan(incoming, existing)
	summary.ImportGap = plan.ImportGap
	summary.GapDays = plan.GapDays
	summary.TransitionDays = plan.TransitionDays
	summary.NewDays = len(plan.Days(reconcile.InsertAll))
	summary.MergedDays = len(plan.Days(reconcile.Merge))
	summary.SkippedDays = len(plan.Days(reconcile.Skip))

	counts, err := ledger.CountsOn(account.ID, plan.Days(reconcile.Merge))
	if err != nil {
		return err
	}

	type category struct {
		id     *uint
		source models.CategorySource
	}
	categories := make(map[string]category)

	for _, sel := range plan.Select(rows, counts) {
		pr := parsed.Rows[sel.Ref]
		txn := &models.Transaction{
			AccountID:   account.ID,
			Date:        sel.Day.String(),
			Description: pr.Description,
			Amount:      sel.Key.Amount,
		}
		if err := validator.Struct(txn); err != nil {
			logger.Get().Debugw("row dropped",
				"run_id", summary.RunID,
				"line", pr.Line,
				"error", err,
			)
			summary.RowsDropped++
			continue
		}

		if cv, ok := classified[pr.Description]; ok {
			c, seen := categories[pr.Description]
			if !seen {
				cat, source, err := classifier.Classify(format.ID, cv.RawValueID, cv.Normalized)
				if err != nil {
					return err
				}
				c = category{source: source}
				if cat != nil {
					c.id = &cat.ID
				}
				categories[pr.Description] = c
			}
			rawID := cv.RawValueID
			txn.RawValueID = &rawID
			txn.CategoryID = c.id
			txn.CategorySource = c.source
		}

		if err := ledger.InsertTransaction(txn); err != nil {
			return err
		}
		summary.RowsInserted++
	}

	run := &models.ImportRun{
		RunID:                  summary.RunID,
		AccountID:              account.ID,
		Format:                 summary.Format,
		FileName:               summary.FileName,
		RowsRead:               summary.RowsRead,
		RowsSkipped:            summary.RowsSkipped,
		DescriptionsClassified: summary.DescriptionsClassified,
		RowsInserted:           summary.RowsInserted,
		RowsDropped:            summary.RowsDropped,
		ImportGap:              summary.ImportGap,
		GapDays:                summary.GapDays,
		TransitionDays:         summary.TransitionDays,
	}
	if err := tx.Create(run).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, fmt.Errorf("recording import run: %w", err))
	}
	return nil
}
