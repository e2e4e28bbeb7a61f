package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "cashew/internal/errors"
	"cashew/internal/ledger"
	"cashew/internal/logger"
	"cashew/internal/models"
	"cashew/internal/notify"
)

// alertService tracks budget overrun notifications. An alert is created
// once per (owner, category, month) when a budget first evaluates to
// over, and an event is published alongside. Dismissing keeps the row so
// the same overrun is never announced twice in a month.
type alertService struct {
	db       *gorm.DB
	budgets  BudgetServicer
	notifier notify.Notifier
}

// NewAlertService creates a new AlertServicer.
func NewAlertService(db *gorm.DB, budgets BudgetServicer, notifier notify.Notifier) AlertServicer {
	return &alertService{db: db, budgets: budgets, notifier: notifier}
}

// SyncOverruns evaluates the owner's budgets and records an alert for
// every category currently over its limit that has no alert row for the
// current calendar month yet. Returns the newly created alerts.
func (s *alertService) SyncOverruns(ownerID string) ([]models.BudgetAlert, error) {
	progress, err := s.budgets.GetBudgetProgress(ownerID)
	if err != nil {
		return nil, err
	}

	month := time.Now().Format("2006-01")
	var created []models.BudgetAlert

	for _, p := range progress {
		if p.Level != ledger.WarningOver {
			continue
		}

		var count int64
		err := s.db.Model(&models.BudgetAlert{}).
			Where("owner_id = ? AND category = ? AND month = ?", ownerID, p.Category, month).
			Count(&count).Error
		if err != nil {
			return created, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			continue
		}

		alert := models.BudgetAlert{
			OwnerID:  ownerID,
			Category: p.Category,
			Month:    month,
		}
		if err := s.db.Create(&alert).Error; err != nil {
			return created, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = append(created, alert)

		event := notify.BudgetOverrunEvent{
			OwnerID:  ownerID,
			Category: p.Category,
			Month:    month,
			Percent:  p.Percent,
		}
		if err := s.notifier.PublishBudgetOverrun(context.Background(), event); err != nil {
			// The alert row is the source of truth; a lost event only
			// costs the push notification.
			logger.Get().Warnw("overrun event publish failed",
				"owner_id", ownerID,
				"category", p.Category,
				"error", err.Error(),
			)
		}
	}

	return created, nil
}

// ListActiveAlerts returns the owner's undismissed alerts, newest first.
func (s *alertService) ListActiveAlerts(ownerID string) ([]models.BudgetAlert, error) {
	var alerts []models.BudgetAlert
	err := s.db.
		Where("owner_id = ? AND dismissed = ?", ownerID, false).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return alerts, nil
}

// DismissAlert marks an alert as dismissed. The row is kept so the same
// (category, month) overrun is not re-announced.
func (s *alertService) DismissAlert(ownerID, alertID string) error {
	var alert models.BudgetAlert
	if err := s.db.Where("id = ? AND owner_id = ?", alertID, ownerID).First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAlertNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&alert).Update("dismissed", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
