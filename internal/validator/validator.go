// Package validator wraps a shared go-playground validator with the custom
// tags used by reckon's models.
package validator

import (
	"regexp"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"reckon/internal/models"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Calendar-date sanity bounds for ledger rows.
var (
	minDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(2199, time.December, 31, 0, 0, 0, 0, time.UTC)
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Get returns the shared validator with all custom tags registered.
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("slug", validateSlug)
		_ = v.RegisterValidation("account_type", validateAccountType)
		_ = v.RegisterValidation("format_identifier", validateFormatIdentifier)
		_ = v.RegisterValidation("calendar_date", validateCalendarDate)
		instance = v
	})
	return instance
}

// Struct validates s using its `validate` tags.
func Struct(s any) error {
	return Get().Struct(s)
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}

func validateAccountType(fl validator.FieldLevel) bool {
	return models.AccountType(fl.Field().String()).Valid()
}

func validateFormatIdentifier(fl validator.FieldLevel) bool {
	return models.FormatIdentifier(fl.Field().String()).Valid()
}

// validateCalendarDate accepts a YYYY-MM-DD string naming a real day inside
// the supported range.
func validateCalendarDate(fl validator.FieldLevel) bool {
	t, err := time.Parse(models.DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return !t.Before(minDate) && !t.After(maxDate)
}
