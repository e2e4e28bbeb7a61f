package models

// InviteStatus represents the state of a share invite.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
)

// ShareInvite is the invite/accept/decline handshake that mutates the
// sharedWith sets. Accepting adds each user to the other's set; declining
// leaves both untouched.
type ShareInvite struct {
	Base
	FromUserID string       `gorm:"type:uuid;not null;index" json:"from_user_id"`
	ToUserID   string       `gorm:"type:uuid;not null;index" json:"to_user_id"`
	Status     InviteStatus `gorm:"not null;default:'pending'" json:"status"`

	FromUser User `gorm:"foreignKey:FromUserID" json:"-"`
	ToUser   User `gorm:"foreignKey:ToUserID" json:"-"`
}
