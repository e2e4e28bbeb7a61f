package models

import "github.com/shopspring/decimal"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// PaymentMethod says which balance an income or expense touches.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

// TransferDirection says which way a transfer moves money between the
// cash and card balances. A transfer never changes net worth.
type TransferDirection string

const (
	TransferToCash TransferDirection = "to_cash"
	TransferToCard TransferDirection = "to_card"
)

// Transaction represents a single ledger record. Method and Category are
// set for income/expense records, Direction for transfers. Amount is
// always positive; the type decides the sign during reduction.
//
// CreatedAt doubles as the server-assigned timestamp: monotonic per owner
// for ordering, with no ordering guarantee across owners.
type Transaction struct {
	Base
	OwnerID     string            `gorm:"type:uuid;not null;index" json:"owner_id"`
	Type        TransactionType   `gorm:"not null" json:"type"`
	Method      PaymentMethod     `json:"method,omitempty"`
	Direction   TransferDirection `json:"direction,omitempty"`
	Category    string            `json:"category,omitempty"`
	Amount      decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"amount"`
	Currency    Currency          `gorm:"not null" json:"currency"`
	Description string            `json:"description,omitempty"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}
