package models

// BudgetAlert tracks the overrun notification state for one category in
// one calendar month. An alert is emitted once per (owner, category,
// month) when a budget first goes over its limit, and stays visible until
// the user dismisses it.
type BudgetAlert struct {
	Base
	OwnerID   string `gorm:"type:uuid;not null;uniqueIndex:idx_alert_owner_category_month" json:"owner_id"`
	Category  string `gorm:"not null;uniqueIndex:idx_alert_owner_category_month" json:"category"`
	Month     string `gorm:"size:7;not null;uniqueIndex:idx_alert_owner_category_month" json:"month"`
	Dismissed bool   `gorm:"default:false" json:"dismissed"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}
