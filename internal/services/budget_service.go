package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "cashew/internal/errors"
	"cashew/internal/ledger"
	"cashew/internal/models"
	"cashew/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates an expense budget for a category. The month is
// stamped with the creation month; it is informational only and does not
// scope evaluation.
func (s *budgetService) CreateBudget(ownerID, category string, limit decimal.Decimal, currency models.Currency) (*models.Budget, error) {
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if !limit.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be greater than zero")
	}
	if !currency.IsSupported() {
		return nil, apperrors.ErrUnsupportedCurrency
	}

	budget := &models.Budget{
		OwnerID:  ownerID,
		Category: category,
		Limit:    limit,
		Currency: currency,
		Type:     models.TransactionTypeExpense,
		Month:    time.Now().Format("2006-01"),
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of the owner's budgets.
func (s *budgetService) GetUserBudgets(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("owner_id = ?", ownerID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the owner.
func (s *budgetService) GetBudgetByID(ownerID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND owner_id = ?", budgetID, ownerID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's category or limit.
func (s *budgetService) UpdateBudget(ownerID, budgetID string, category *string, limit *decimal.Decimal) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(ownerID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if category != nil {
		if *category == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
		}
		updates["category"] = *category
	}
	if limit != nil {
		if !limit.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be greater than zero")
		}
		updates["limit_amount"] = *limit
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(ownerID, budgetID string) error {
	budget, err := s.GetBudgetByID(ownerID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress evaluates all of the owner's budgets against their
// own transactions. Budgets stay personal even when balances are shared,
// so collaborators' spending never counts against them.
func (s *budgetService) GetBudgetProgress(ownerID string) ([]ledger.BudgetProgress, error) {
	var budgets []models.Budget
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}

	var transactions []models.Transaction
	if err := s.db.Where("owner_id = ?", ownerID).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}

	return ledger.EvaluateBudgets(budgets, transactions), nil
}
