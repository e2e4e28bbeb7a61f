package services

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "cashew/internal/errors"
	"cashew/internal/ledger"
	"cashew/internal/logger"
	"cashew/internal/models"
	"cashew/internal/pagination"
)

// transactionService handles ledger writes and merged reads.
type transactionService struct {
	db      *gorm.DB
	sharing SharingServicer
	alerts  AlertServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, sharing SharingServicer, alerts AlertServicer) TransactionServicer {
	return &transactionService{
		db:      db,
		sharing: sharing,
		alerts:  alerts,
	}
}

// CreateTransaction validates and records a new ledger entry. An expense
// is rejected if it would drive the paying method's balance negative —
// the balance checked is the merged visible-owner balance the user sees.
// The check-then-write is not atomic across concurrent writers; a stale
// snapshot can let a balance go negative, which the reducer tolerates.
func (s *transactionService) CreateTransaction(
	ownerID string,
	txType models.TransactionType,
	method models.PaymentMethod,
	direction models.TransferDirection,
	category string,
	amount decimal.Decimal,
	currency models.Currency,
	description string,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !currency.IsSupported() {
		return nil, apperrors.ErrUnsupportedCurrency
	}

	switch txType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		if method != models.PaymentMethodCash && method != models.PaymentMethodCard {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "method must be cash or card")
		}
		if category == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
		}
		direction = ""
	case models.TransactionTypeTransfer:
		if direction != models.TransferToCash && direction != models.TransferToCard {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "direction must be to_cash or to_card")
		}
		method = ""
		category = ""
	default:
		return nil, apperrors.ErrInvalidTransactionType
	}

	if txType == models.TransactionTypeExpense {
		balances, err := s.GetBalances(ownerID, currency)
		if err != nil {
			return nil, err
		}
		available := balances.Cash
		if method == models.PaymentMethodCard {
			available = balances.Card
		}
		if available.LessThan(amount) {
			return nil, apperrors.ErrInsufficientBalance
		}
	}

	transaction := &models.Transaction{
		OwnerID:     ownerID,
		Type:        txType,
		Method:      method,
		Direction:   direction,
		Category:    category,
		Amount:      amount,
		Currency:    currency,
		Description: description,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if txType == models.TransactionTypeExpense {
		// Overrun detection is best-effort; the write already landed.
		if _, err := s.alerts.SyncOverruns(ownerID); err != nil {
			logger.Get().Warnw("budget overrun sync failed",
				"owner_id", ownerID,
				"error", err.Error(),
			)
		}
	}

	return transaction, nil
}

// GetVisibleTransactions returns a paginated, filtered list of
// transactions merged across every owner visible to the user, newest
// first.
func (s *transactionService) GetVisibleTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	owners, err := s.sharing.VisibleOwners(userID)
	if err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("owner_id IN ?", owners)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Currency != nil {
		q = q.Where("currency = ?", *f.Currency)
	}
	if f.FromDate != nil {
		q = q.Where("created_at >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("created_at <= ?", *f.ToDate)
	}
	return q
}

// GetTransactionByID retrieves one of the owner's own transactions.
// Shared collaborators can see merged lists but not address individual
// records they do not own.
func (s *transactionService) GetTransactionByID(ownerID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND owner_id = ?", transactionID, ownerID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction updates the mutable fields of an owned transaction.
// Type, method, and direction are fixed at creation.
func (s *transactionService) UpdateTransaction(ownerID, transactionID string, category, description *string, amount *decimal.Decimal) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(ownerID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if category != nil {
		if transaction.Type == models.TransactionTypeTransfer {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transfers have no category")
		}
		updates["category"] = *category
	}
	if description != nil {
		updates["description"] = *description
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *amount
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return transaction, nil
}

// DeleteTransaction soft-deletes an owned transaction.
func (s *transactionService) DeleteTransaction(ownerID, transactionID string) error {
	transaction, err := s.GetTransactionByID(ownerID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBalances reduces the merged visible-owner ledger to cash and card
// balances in the target currency. Per-owner reads run concurrently;
// any failed read surfaces as DataUnavailable for the whole snapshot.
func (s *transactionService) GetBalances(userID string, currency models.Currency) (ledger.Balances, error) {
	owners, err := s.sharing.VisibleOwners(userID)
	if err != nil {
		return ledger.Balances{}, err
	}

	var (
		mu     sync.Mutex
		merged []models.Transaction
	)

	var g errgroup.Group
	for _, owner := range owners {
		owner := owner
		g.Go(func() error {
			var transactions []models.Transaction
			err := s.db.
				Where("owner_id = ? AND currency = ?", owner, currency).
				Find(&transactions).Error
			if err != nil {
				return apperrors.Wrap(apperrors.ErrDataUnavailable, err)
			}

			mu.Lock()
			merged = append(merged, transactions...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ledger.Balances{}, err
	}

	return ledger.ComputeBalances(merged, currency), nil
}
