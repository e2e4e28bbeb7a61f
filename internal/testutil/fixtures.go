package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"cashew/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestIncome creates an income transaction in MKD.
func CreateTestIncome(t *testing.T, db *gorm.DB, ownerID string, method models.PaymentMethod, amount string) *models.Transaction {
	t.Helper()
	return createTestTransaction(t, db, &models.Transaction{
		OwnerID:  ownerID,
		Type:     models.TransactionTypeIncome,
		Method:   method,
		Category: "salary",
		Amount:   decimal.RequireFromString(amount),
		Currency: models.CurrencyMKD,
	})
}

// CreateTestExpense creates an expense transaction in MKD for the given category.
func CreateTestExpense(t *testing.T, db *gorm.DB, ownerID string, method models.PaymentMethod, category, amount string) *models.Transaction {
	t.Helper()
	return createTestTransaction(t, db, &models.Transaction{
		OwnerID:  ownerID,
		Type:     models.TransactionTypeExpense,
		Method:   method,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Currency: models.CurrencyMKD,
	})
}

// CreateTestTransfer creates a transfer transaction in MKD.
func CreateTestTransfer(t *testing.T, db *gorm.DB, ownerID string, direction models.TransferDirection, amount string) *models.Transaction {
	t.Helper()
	return createTestTransaction(t, db, &models.Transaction{
		OwnerID:   ownerID,
		Type:      models.TransactionTypeTransfer,
		Direction: direction,
		Amount:    decimal.RequireFromString(amount),
		Currency:  models.CurrencyMKD,
	})
}

func createTestTransaction(t *testing.T, db *gorm.DB, tx *models.Transaction) *models.Transaction {
	t.Helper()

	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an expense budget in MKD for the given category.
func CreateTestBudget(t *testing.T, db *gorm.DB, ownerID, category, limit string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		OwnerID:  ownerID,
		Category: category,
		Limit:    decimal.RequireFromString(limit),
		Currency: models.CurrencyMKD,
		Type:     models.TransactionTypeExpense,
		Month:    time.Now().Format("2006-01"),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestInvite creates a share invite with the given status.
func CreateTestInvite(t *testing.T, db *gorm.DB, fromUserID, toUserID string, status models.InviteStatus) *models.ShareInvite {
	t.Helper()

	invite := &models.ShareInvite{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     status,
	}
	if err := db.Create(invite).Error; err != nil {
		t.Fatalf("failed to create test invite: %v", err)
	}
	return invite
}

// LinkUsers writes the sharing link between two users in both directions,
// as the accept handshake would.
func LinkUsers(t *testing.T, db *gorm.DB, a, b *models.User) {
	t.Helper()

	if err := db.Model(a).Association("SharedWith").Append(b); err != nil {
		t.Fatalf("failed to link users: %v", err)
	}
	if err := db.Model(b).Association("SharedWith").Append(a); err != nil {
		t.Fatalf("failed to link users: %v", err)
	}
}
