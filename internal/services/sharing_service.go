package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "cashew/internal/errors"
	"cashew/internal/ledger"
	"cashew/internal/models"
)

// sharingService handles the invite/accept/decline handshake and resolves
// the visible-owner set for merged balance views.
type sharingService struct {
	db *gorm.DB
}

// NewSharingService creates a new SharingServicer.
func NewSharingService(db *gorm.DB) SharingServicer {
	return &sharingService{db: db}
}

// sharedWithRow mirrors the many2many join table between users.
type sharedWithRow struct {
	UserID       string
	SharedWithID string
}

// InviteByEmail creates a pending invite to the user with the given email.
func (s *sharingService) InviteByEmail(fromUserID, email string) (*models.ShareInvite, error) {
	var target models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if target.ID == fromUserID {
		return nil, apperrors.ErrSelfShare
	}

	linked, err := s.hasLink(fromUserID, target.ID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, apperrors.ErrAlreadySharing
	}

	var pending int64
	err = s.db.Model(&models.ShareInvite{}).
		Where("status = ? AND ((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?))",
			models.InviteStatusPending, fromUserID, target.ID, target.ID, fromUserID).
		Count(&pending).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if pending > 0 {
		return nil, apperrors.ErrDuplicateInvite
	}

	invite := &models.ShareInvite{
		FromUserID: fromUserID,
		ToUserID:   target.ID,
		Status:     models.InviteStatusPending,
	}
	if err := s.db.Create(invite).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return invite, nil
}

// ListPendingInvites returns invites awaiting the user's decision.
func (s *sharingService) ListPendingInvites(userID string) ([]models.ShareInvite, error) {
	var invites []models.ShareInvite
	err := s.db.Preload("FromUser").
		Where("to_user_id = ? AND status = ?", userID, models.InviteStatusPending).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invites, nil
}

// AcceptInvite resolves a pending invite addressed to the user and writes
// both sides of the sharing relation, so the link is symmetric as long as
// both writes land.
func (s *sharingService) AcceptInvite(userID, inviteID string) (*models.ShareInvite, error) {
	invite, err := s.pendingInvite(userID, inviteID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(invite).Update("status", models.InviteStatusAccepted).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		from := models.User{Base: models.Base{ID: invite.FromUserID}}
		to := models.User{Base: models.Base{ID: invite.ToUserID}}
		if err := tx.Model(&from).Association("SharedWith").Append(&to); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&to).Association("SharedWith").Append(&from); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invite.Status = models.InviteStatusAccepted
	return invite, nil
}

// DeclineInvite resolves a pending invite without touching any sharedWith set.
func (s *sharingService) DeclineInvite(userID, inviteID string) (*models.ShareInvite, error) {
	invite, err := s.pendingInvite(userID, inviteID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(invite).Update("status", models.InviteStatusDeclined).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	invite.Status = models.InviteStatusDeclined
	return invite, nil
}

// ListCollaborators returns every user linked to userID from either
// direction. Like the resolver, it does not assume the relation is intact
// on both sides.
func (s *sharingService) ListCollaborators(userID string) ([]models.User, error) {
	ownerIDs, err := s.VisibleOwners(userID)
	if err != nil {
		return nil, err
	}

	collaboratorIDs := make([]string, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		if id != userID {
			collaboratorIDs = append(collaboratorIDs, id)
		}
	}
	if len(collaboratorIDs) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := s.db.Where("id IN ?", collaboratorIDs).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}

// RevokeSharing removes the link with a collaborator from both sides.
func (s *sharingService) RevokeSharing(userID, collaboratorID string) error {
	linked, err := s.hasLink(userID, collaboratorID)
	if err != nil {
		return err
	}
	if !linked {
		return apperrors.ErrCollaboratorAbsent
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			"DELETE FROM user_shared_with WHERE (user_id = ? AND shared_with_id = ?) OR (user_id = ? AND shared_with_id = ?)",
			userID, collaboratorID, collaboratorID, userID,
		).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// VisibleOwners scans the sharing relation and expands userID into the
// set of owner ids whose transactions are merged for their balance view.
// A failed scan surfaces as DataUnavailable rather than silently
// degrading to the user's own ledger; callers decide fallback behavior.
func (s *sharingService) VisibleOwners(userID string) ([]string, error) {
	var rows []sharedWithRow
	if err := s.db.Table("user_shared_with").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}

	byUser := make(map[string][]string)
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], r.SharedWithID)
	}

	accounts := make([]ledger.Account, 0, len(byUser))
	for id, shared := range byUser {
		accounts = append(accounts, ledger.Account{ID: id, SharedWith: shared})
	}

	return ledger.ResolveVisibleOwners(userID, accounts), nil
}

// hasLink reports whether a sharing row exists in either direction.
func (s *sharingService) hasLink(a, b string) (bool, error) {
	var count int64
	err := s.db.Table("user_shared_with").
		Where("(user_id = ? AND shared_with_id = ?) OR (user_id = ? AND shared_with_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// pendingInvite loads a pending invite addressed to userID.
func (s *sharingService) pendingInvite(userID, inviteID string) (*models.ShareInvite, error) {
	var invite models.ShareInvite
	if err := s.db.Where("id = ? AND to_user_id = ?", inviteID, userID).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInviteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if invite.Status != models.InviteStatusPending {
		return nil, apperrors.ErrInviteNotPending
	}
	return &invite, nil
}
