package services

import (
	"time"

	"github.com/shopspring/decimal"

	"cashew/internal/ledger"
	"cashew/internal/models"
	"cashew/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Type     *models.TransactionType
	Category *string
	Currency *models.Currency
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionServicer defines the contract for ledger writes and reads.
// Creation validates the write-time rules (positive amount, method and
// direction presence per type, expense balance check); reads merge the
// visible-owner set where noted.
type TransactionServicer interface {
	CreateTransaction(ownerID string, txType models.TransactionType, method models.PaymentMethod, direction models.TransferDirection, category string, amount decimal.Decimal, currency models.Currency, description string) (*models.Transaction, error)
	GetVisibleTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ownerID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ownerID, transactionID string, category, description *string, amount *decimal.Decimal) (*models.Transaction, error)
	DeleteTransaction(ownerID, transactionID string) error
	GetBalances(userID string, currency models.Currency) (ledger.Balances, error)
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ownerID, category string, limit decimal.Decimal, currency models.Currency) (*models.Budget, error)
	GetUserBudgets(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(ownerID, budgetID string) (*models.Budget, error)
	UpdateBudget(ownerID, budgetID string, category *string, limit *decimal.Decimal) (*models.Budget, error)
	DeleteBudget(ownerID, budgetID string) error
	GetBudgetProgress(ownerID string) ([]ledger.BudgetProgress, error)
}

// SharingServicer defines the contract for the share handshake and the
// visible-owner resolution built on top of it.
type SharingServicer interface {
	InviteByEmail(fromUserID, email string) (*models.ShareInvite, error)
	ListPendingInvites(userID string) ([]models.ShareInvite, error)
	AcceptInvite(userID, inviteID string) (*models.ShareInvite, error)
	DeclineInvite(userID, inviteID string) (*models.ShareInvite, error)
	ListCollaborators(userID string) ([]models.User, error)
	RevokeSharing(userID, collaboratorID string) error
	VisibleOwners(userID string) ([]string, error)
}

// AlertServicer defines the contract for budget overrun notifications.
type AlertServicer interface {
	SyncOverruns(ownerID string) ([]models.BudgetAlert, error)
	ListActiveAlerts(ownerID string) ([]models.BudgetAlert, error)
	DismissAlert(ownerID, alertID string) error
}
