package models

// User represents an account in the system. SharedWith is the set of
// collaborator accounts whose ledgers are merged into this user's balance
// view. The accept handshake writes both sides, so the relation is
// intended to be symmetric, but readers must not rely on that.
type User struct {
	Base
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	SharedWith   []*User       `gorm:"many2many:user_shared_with;joinForeignKey:UserID;joinReferences:SharedWithID" json:"shared_with,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:OwnerID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:OwnerID" json:"budgets,omitempty"`
}
