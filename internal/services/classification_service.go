package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "reckon/internal/errors"
	"reckon/internal/models"
	"reckon/internal/normalizer"
	"reckon/internal/pagination"
)

// recomputeBatchSize bounds how many raw values Recompute holds at once.
const recomputeBatchSize = 500

// classificationService handles the classification store. Its side effects
// are confined to the parse_formats and classification_* tables.
type classificationService struct {
	db *gorm.DB
}

// NewClassificationService creates a new ClassificationServicer.
func NewClassificationService(db *gorm.DB) ClassificationServicer {
	return &classificationService{db: db}
}

// SeedParseFormats inserts any missing rows of the fixed format set.
func (s *classificationService) SeedParseFormats() error {
	for _, f := range models.AllFormats {
		var pf models.ParseFormat
		if err := s.db.Where(models.ParseFormat{Identifier: f}).FirstOrCreate(&pf).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
	}
	return nil
}

// GetFormat retrieves the persisted row for a format identifier.
func (s *classificationService) GetFormat(format models.FormatIdentifier) (*models.ParseFormat, error) {
	if !format.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrFormatNotFound, "unknown format: "+string(format))
	}
	var pf models.ParseFormat
	if err := s.db.Where("identifier = ?", format).First(&pf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrFormatNotFound, "format not seeded: "+string(format))
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &pf, nil
}

// UpsertRawValue finds or inserts a raw value and returns its stable id.
func (s *classificationService) UpsertRawValue(formatID uint, raw string) (uint, error) {
	if raw == "" {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "raw value is required")
	}
	rv := models.RawValue{FormatID: formatID, Value: raw}
	if err := s.db.Where("format_id = ? AND value = ?", formatID, raw).FirstOrCreate(&rv).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return rv.ID, nil
}

// CacheNormalized stores the normalized form of a raw value, overwriting a
// stale one. It reports whether anything was written.
func (s *classificationService) CacheNormalized(rawValueID uint, normalized string) (bool, error) {
	var nv models.NormalizedValue
	err := s.db.Where("raw_value_id = ?", rawValueID).First(&nv).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		nv = models.NormalizedValue{RawValueID: rawValueID, Value: normalized}
		if err := s.db.Create(&nv).Error; err != nil {
			return false, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		return true, nil
	case err != nil:
		return false, apperrors.Wrap(apperrors.ErrStorage, err)
	case nv.Value == normalized:
		return false, nil
	}

	if err := s.db.Model(&nv).Update("value", normalized).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return true, nil
}

// LookupCategory returns the category mapped to a normalized value, or nil.
func (s *classificationService) LookupCategory(formatID uint, normalized string) (*models.Category, error) {
	var m models.CategoryMapping
	err := s.db.Preload("Category").
		Where("format_id = ? AND normalized_value = ?", formatID, normalized).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &m.Category, nil
}

// LookupOverride returns the category pinned to a raw value, or nil.
func (s *classificationService) LookupOverride(rawValueID uint) (*models.Category, error) {
	var o models.Override
	err := s.db.Preload("Category").Where("raw_value_id = ?", rawValueID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &o.Category, nil
}

// Classify resolves the category of a raw value. An override wins over a
// mapping of its normalized form.
func (s *classificationService) Classify(formatID, rawValueID uint, normalized string) (*models.Category, models.CategorySource, error) {
	cat, err := s.LookupOverride(rawValueID)
	if err != nil {
		return nil, models.CategorySourceNone, err
	}
	if cat != nil {
		return cat, models.CategorySourceOverride, nil
	}

	cat, err = s.LookupCategory(formatID, normalized)
	if err != nil {
		return nil, models.CategorySourceNone, err
	}
	if cat != nil {
		return cat, models.CategorySourceMapping, nil
	}
	return nil, models.CategorySourceNone, nil
}

// ClassifyDescriptions runs every description through the format's
// normalizer and records the raw and normalized values. Keys of the result
// are the raw descriptions.
func (s *classificationService) ClassifyDescriptions(format *models.ParseFormat, descriptions []string) (map[string]ClassifiedValue, error) {
	norm, ok := normalizer.For(format.Identifier)
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrFormatNotFound, "no normalizer for format: "+string(format.Identifier))
	}

	out := make(map[string]ClassifiedValue, len(descriptions))
	for _, raw := range descriptions {
		if raw == "" {
			continue
		}
		if _, done := out[raw]; done {
			continue
		}
		id, err := s.UpsertRawValue(format.ID, raw)
		if err != nil {
			return nil, err
		}
		normalized := norm.Normalize(raw)
		if _, err := s.CacheNormalized(id, normalized); err != nil {
			return nil, err
		}
		out[raw] = ClassifiedValue{RawValueID: id, Normalized: normalized}
	}
	return out, nil
}

// SetMapping maps a normalized value to a category, creating the category if
// needed and replacing any previous mapping.
func (s *classificationService) SetMapping(format models.FormatIdentifier, normalized, categoryName string) (*models.CategoryMapping, error) {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "normalized value is required")
	}

	var mapping models.CategoryMapping
	err := s.db.Transaction(func(tx *gorm.DB) error {
		svc := &classificationService{db: tx}
		pf, err := svc.GetFormat(format)
		if err != nil {
			return err
		}
		cat, err := svc.ensureCategory(categoryName)
		if err != nil {
			return err
		}

		err = tx.Where("format_id = ? AND normalized_value = ?", pf.ID, normalized).First(&mapping).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			mapping = models.CategoryMapping{FormatID: pf.ID, NormalizedValue: normalized, CategoryID: cat.ID}
			if err := tx.Create(&mapping).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrStorage, err)
			}
		case err != nil:
			return apperrors.Wrap(apperrors.ErrStorage, err)
		default:
			if err := tx.Model(&mapping).Update("category_id", cat.ID).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrStorage, err)
			}
		}
		mapping.Category = *cat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// SetOverride pins the category of one exact raw value. The raw value and
// its normalized cache are created if this is the first time it is seen.
func (s *classificationService) SetOverride(format models.FormatIdentifier, raw, categoryName string) (*models.Override, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "raw value is required")
	}

	var override models.Override
	err := s.db.Transaction(func(tx *gorm.DB) error {
		svc := &classificationService{db: tx}
		pf, err := svc.GetFormat(format)
		if err != nil {
			return err
		}
		values, err := svc.ClassifyDescriptions(pf, []string{raw})
		if err != nil {
			return err
		}
		rawID := values[raw].RawValueID

		cat, err := svc.ensureCategory(categoryName)
		if err != nil {
			return err
		}

		err = tx.Where("raw_value_id = ?", rawID).First(&override).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			override = models.Override{RawValueID: rawID, CategoryID: cat.ID}
			if err := tx.Create(&override).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrStorage, err)
			}
		case err != nil:
			return apperrors.Wrap(apperrors.ErrStorage, err)
		default:
			if err := tx.Model(&override).Update("category_id", cat.ID).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrStorage, err)
			}
		}
		override.Category = *cat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// ListUnmapped lists the normalized values of a format that have no
// mapping, most frequent first.
func (s *classificationService) ListUnmapped(format models.FormatIdentifier, page pagination.PageRequest) (*pagination.PageResponse[UnmappedValue], error) {
	pf, err := s.GetFormat(format)
	if err != nil {
		return nil, err
	}
	page.Defaults()

	unmapped := s.db.Table("classification_normalized AS n").
		Select("n.value AS value, COUNT(*) AS raw_count").
		Joins("JOIN classification_raw_values AS r ON r.id = n.raw_value_id").
		Joins("LEFT JOIN classification_mappings AS m ON m.format_id = r.format_id AND m.normalized_value = n.value").
		Where("r.format_id = ? AND m.id IS NULL", pf.ID).
		Group("n.value")

	var totalItems int64
	if err := s.db.Table("(?) AS u", unmapped).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	var values []UnmappedValue
	if err := s.db.Table("(?) AS u", unmapped).
		Order("raw_count DESC, value").
		Scopes(pagination.Paginate(page)).
		Scan(&values).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	result := pagination.NewPageResponse(values, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Recompute re-derives every cached normalized value with the current
// normalizers. It is a maintenance operation for after a normalizer change;
// raw value identities and mappings are untouched. A nil format means all.
func (s *classificationService) Recompute(format *models.FormatIdentifier) (*RecomputeResult, error) {
	result := &RecomputeResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var formats []models.ParseFormat
		q := tx.Model(&models.ParseFormat{})
		if format != nil {
			if !format.Valid() {
				return apperrors.WithMessage(apperrors.ErrFormatNotFound, "unknown format: "+string(*format))
			}
			q = q.Where("identifier = ?", *format)
		}
		if err := q.Find(&formats).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}

		svc := &classificationService{db: tx}
		for _, pf := range formats {
			norm, ok := normalizer.For(pf.Identifier)
			if !ok {
				continue
			}

			var batch []models.RawValue
			res := tx.Where("format_id = ?", pf.ID).
				FindInBatches(&batch, recomputeBatchSize, func(_ *gorm.DB, _ int) error {
					for _, rv := range batch {
						changed, err := svc.CacheNormalized(rv.ID, norm.Normalize(rv.Value))
						if err != nil {
							return err
						}
						result.Scanned++
						if changed {
							result.Changed++
						}
					}
					return nil
				})
			if res.Error != nil {
				var appErr *apperrors.AppError
				if errors.As(res.Error, &appErr) {
					return res.Error
				}
				return apperrors.Wrap(apperrors.ErrStorage, res.Error)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *classificationService) ensureCategory(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrEmptyCategory
	}
	cat := models.Category{Name: name}
	if err := s.db.Where("name = ?", name).FirstOrCreate(&cat).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &cat, nil
}
