package services

import (
	"gorm.io/gorm"

	apperrors "reckon/internal/errors"
	"reckon/internal/models"
	"reckon/internal/pagination"
	"reckon/internal/reconcile"
)

// countsChunkSize bounds the number of dates per IN clause.
const countsChunkSize = 500

// transactionService handles the ledger. Rows are append-only: nothing here
// updates or deletes a transaction.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// ExistingDays returns the distinct days with at least one transaction for
// the account, sorted.
func (s *transactionService) ExistingDays(accountID uint) ([]reconcile.Day, error) {
	var dates []string
	if err := s.db.Model(&models.Transaction{}).
		Where("account_id = ?", accountID).
		Distinct("date").
		Order("date").
		Pluck("date", &dates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	days := make([]reconcile.Day, 0, len(dates))
	for _, d := range dates {
		day, err := reconcile.ParseDay(d)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		days = append(days, day)
	}
	return days, nil
}

// CountsOn returns existing row counts per (description, amount) for the
// given days.
func (s *transactionService) CountsOn(accountID uint, days []reconcile.Day) (reconcile.Counts, error) {
	counts := make(reconcile.Counts)
	for start := 0; start < len(days); start += countsChunkSize {
		end := min(start+countsChunkSize, len(days))
		dates := make([]string, 0, end-start)
		for _, d := range days[start:end] {
			dates = append(dates, d.String())
		}

		var groups []struct {
			Date        string
			Description string
			Amount      int64
			N           int
		}
		if err := s.db.Model(&models.Transaction{}).
			Select("date, description, amount, COUNT(*) AS n").
			Where("account_id = ? AND date IN ?", accountID, dates).
			Group("date, description, amount").
			Scan(&groups).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}

		for _, g := range groups {
			day, err := reconcile.ParseDay(g.Date)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternal, err)
			}
			if counts[day] == nil {
				counts[day] = make(map[reconcile.Key]int)
			}
			counts[day][reconcile.Key{Description: g.Description, Amount: g.Amount}] += g.N
		}
	}
	return counts, nil
}

// InsertTransaction writes one ledger row.
func (s *transactionService) InsertTransaction(transaction *models.Transaction) error {
	if err := s.db.Create(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// GetAccountTransactions retrieves a paginated, filtered list of an
// account's transactions, newest first.
func (s *transactionService) GetAccountTransactions(accountID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("account_id = ?", accountID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Category").
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	return q
}
