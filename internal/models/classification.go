package models

// CategorySource records which classification rule produced a category.
type CategorySource string

const (
	CategorySourceNone     CategorySource = ""
	CategorySourceMapping  CategorySource = "mapping"
	CategorySourceOverride CategorySource = "override"
)

// Category is a classification target such as "groceries".
type Category struct {
	Base
	Name string `gorm:"size:128;not null;uniqueIndex" json:"name"`
}

// TableName overrides the default table name.
func (Category) TableName() string { return "classification_categories" }

// RawValue is a verbatim description string seen in a given format.
type RawValue struct {
	Base
	FormatID uint   `gorm:"not null;uniqueIndex:idx_raw_values_format_value,priority:1" json:"format_id"`
	Value    string `gorm:"not null;uniqueIndex:idx_raw_values_format_value,priority:2" json:"value"`

	Format     ParseFormat      `gorm:"foreignKey:FormatID" json:"-"`
	Normalized *NormalizedValue `gorm:"foreignKey:RawValueID" json:"normalized,omitempty"`
}

// TableName overrides the default table name.
func (RawValue) TableName() string { return "classification_raw_values" }

// NormalizedValue caches the normalizer output for one raw value. It is
// overwritten whenever the normalization algorithm changes; the raw value's
// identity never does.
type NormalizedValue struct {
	Base
	RawValueID uint   `gorm:"not null;uniqueIndex" json:"raw_value_id"`
	Value      string `gorm:"not null;index" json:"value"`
}

// TableName overrides the default table name.
func (NormalizedValue) TableName() string { return "classification_normalized" }

// CategoryMapping maps a normalized value within a format to a category.
type CategoryMapping struct {
	Base
	FormatID        uint   `gorm:"not null;uniqueIndex:idx_mappings_format_value,priority:1" json:"format_id"`
	NormalizedValue string `gorm:"not null;uniqueIndex:idx_mappings_format_value,priority:2" json:"normalized_value"`
	CategoryID      uint   `gorm:"not null;index" json:"category_id"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}

// TableName overrides the default table name.
func (CategoryMapping) TableName() string { return "classification_mappings" }

// Override pins the category of one exact raw value, taking precedence over
// any mapping of its normalized form.
type Override struct {
	Base
	RawValueID uint `gorm:"not null;uniqueIndex" json:"raw_value_id"`
	CategoryID uint `gorm:"not null;index" json:"category_id"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}

// TableName overrides the default table name.
func (Override) TableName() string { return "classification_overrides" }
