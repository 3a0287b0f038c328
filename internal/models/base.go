package models

// Base contains common columns for all tables. Timestamps are epoch seconds
// so the schema stays portable between SQLite and PostgreSQL.
type Base struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	CreatedAt int64 `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime;not null" json:"updated_at"`
}
