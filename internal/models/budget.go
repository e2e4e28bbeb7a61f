package models

import "github.com/shopspring/decimal"

// Budget is a per-category spending limit. Type is currently always
// expense. Month records the creation month ("2006-01"); it is
// informational only — evaluation sums all-time matching transactions,
// not just that month's (preserved behavior, see DESIGN.md).
//
// The application intends at most one budget per (owner, category) but
// the store does not enforce it; duplicates are evaluated independently.
type Budget struct {
	Base
	OwnerID  string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	Category string          `gorm:"not null" json:"category"`
	Limit    decimal.Decimal `gorm:"column:limit_amount;type:decimal(20,2);not null" json:"limit"`
	Currency Currency        `gorm:"not null" json:"currency"`
	Type     TransactionType `gorm:"not null;default:'expense'" json:"type"`
	Month    string          `gorm:"size:7;not null" json:"month"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}
