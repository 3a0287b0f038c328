package models

// ImportRun records the summary of one committed import.
type ImportRun struct {
	Base
	RunID                  string           `gorm:"size:36;not null;uniqueIndex" json:"run_id"`
	AccountID              uint             `gorm:"not null;index" json:"account_id"`
	Format                 FormatIdentifier `gorm:"size:64;not null" json:"format"`
	FileName               string           `gorm:"not null" json:"file_name"`
	RowsRead               int              `gorm:"not null" json:"rows_read"`
	RowsSkipped            int              `gorm:"not null" json:"rows_skipped"`
	DescriptionsClassified int              `gorm:"not null" json:"descriptions_classified"`
	RowsInserted           int              `gorm:"not null" json:"rows_inserted"`
	RowsDropped            int              `gorm:"not null" json:"rows_dropped"`
	ImportGap              int              `gorm:"not null" json:"import_gap"`
	GapDays                int              `gorm:"not null" json:"gap_days"`
	TransitionDays         int              `gorm:"not null" json:"transition_days"`
}
