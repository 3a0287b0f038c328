package services

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	apperrors "reckon/internal/errors"
	"reckon/internal/models"
	"reckon/internal/pagination"
	"reckon/internal/validator"
)

// accountService handles account administration.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account. The identifier is immutable afterwards.
func (s *accountService) CreateAccount(identifier, name string, accountType models.AccountType) (*models.Account, error) {
	account := &models.Account{
		Identifier: strings.ToLower(strings.TrimSpace(identifier)),
		Name:       strings.TrimSpace(name),
		Type:       accountType,
	}
	if err := validator.Struct(account); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account: "+err.Error())
	}

	var existing int64
	if err := s.db.Model(&models.Account{}).Where("identifier = ?", account.Identifier).Count(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if existing > 0 {
		return nil, apperrors.ErrDuplicateAccount
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return account, nil
}

// GetAccountByID retrieves an account by its surrogate key.
func (s *accountService) GetAccountByID(accountID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &account, nil
}

// GetAccountByIdentifier retrieves an account by its slug.
func (s *accountService) GetAccountByIdentifier(identifier string) (*models.Account, error) {
	var account models.Account
	err := s.db.Where("identifier = ?", strings.ToLower(strings.TrimSpace(identifier))).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &account, nil
}

// ResolveAccount accepts either an identifier or a numeric id. Identifiers
// win, so an account whose slug is all digits is still reachable by slug.
func (s *accountService) ResolveAccount(ref string) (*models.Account, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account is required")
	}

	account, err := s.GetAccountByIdentifier(ref)
	if err == nil || !errors.Is(err, apperrors.ErrAccountNotFound) {
		return account, err
	}

	id, convErr := strconv.ParseUint(ref, 10, 64)
	if convErr != nil {
		return nil, apperrors.WithMessage(apperrors.ErrAccountNotFound, "account not found: "+ref)
	}
	account, err = s.GetAccountByID(uint(id))
	if errors.Is(err, apperrors.ErrAccountNotFound) {
		return nil, apperrors.WithMessage(apperrors.ErrAccountNotFound, "account not found: "+ref)
	}
	return account, err
}

// ListAccounts retrieves a paginated list of accounts ordered by identifier.
func (s *accountService) ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Order("identifier").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}
