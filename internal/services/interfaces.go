package services

import (
	"context"
	"io"

	"reckon/internal/models"
	"reckon/internal/pagination"
	"reckon/internal/reconcile"
)

// AccountServicer defines the contract for account administration.
type AccountServicer interface {
	CreateAccount(identifier, name string, accountType models.AccountType) (*models.Account, error)
	GetAccountByID(accountID uint) (*models.Account, error)
	GetAccountByIdentifier(identifier string) (*models.Account, error)
	ResolveAccount(ref string) (*models.Account, error)
	ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
}

// ClassifiedValue is the classification state of one raw description after
// the classification pass of an import.
type ClassifiedValue struct {
	RawValueID uint
	Normalized string
}

// UnmappedValue is a normalized value with no category mapping.
type UnmappedValue struct {
	Value    string `json:"value"`
	RawCount int64  `json:"raw_count"`
}

// RecomputeResult reports a normalized-cache rebuild.
type RecomputeResult struct {
	Scanned int
	Changed int
}

// ClassificationServicer defines the contract for the classification store.
type ClassificationServicer interface {
	SeedParseFormats() error
	GetFormat(format models.FormatIdentifier) (*models.ParseFormat, error)

	UpsertRawValue(formatID uint, raw string) (uint, error)
	CacheNormalized(rawValueID uint, normalized string) (bool, error)
	LookupCategory(formatID uint, normalized string) (*models.Category, error)
	LookupOverride(rawValueID uint) (*models.Category, error)
	Classify(formatID, rawValueID uint, normalized string) (*models.Category, models.CategorySource, error)
	ClassifyDescriptions(format *models.ParseFormat, descriptions []string) (map[string]ClassifiedValue, error)

	SetMapping(format models.FormatIdentifier, normalized, categoryName string) (*models.CategoryMapping, error)
	SetOverride(format models.FormatIdentifier, raw, categoryName string) (*models.Override, error)
	ListUnmapped(format models.FormatIdentifier, page pagination.PageRequest) (*pagination.PageResponse[UnmappedValue], error)
	Recompute(format *models.FormatIdentifier) (*RecomputeResult, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *string
	ToDate   *string
}

// TransactionServicer defines the contract for the ledger store.
type TransactionServicer interface {
	ExistingDays(accountID uint) ([]reconcile.Day, error)
	CountsOn(accountID uint, days []reconcile.Day) (reconcile.Counts, error)
	InsertTransaction(transaction *models.Transaction) error
	GetAccountTransactions(accountID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// ImportRequest names the inputs of one import run.
type ImportRequest struct {
	Format     models.FormatIdentifier
	AccountRef string
	FileName   string
}

// ImportSummary reports the outcome of one import run.
type ImportSummary struct {
	RunID                  string
	Account                string
	Format                 models.FormatIdentifier
	FileName               string
	RowsRead               int
	RowsSkipped            int
	DescriptionsClassified int
	RowsInserted           int
	RowsDropped            int
	ImportGap              int
	GapDays                int
	TransitionDays         int
	NewDays                int
	MergedDays             int
	SkippedDays            int
}

// ImportServicer defines the contract for import runs.
type ImportServicer interface {
	ImportFile(ctx context.Context, req ImportRequest) (*ImportSummary, error)
	Import(ctx context.Context, req ImportRequest, r io.Reader) (*ImportSummary, error)
}
