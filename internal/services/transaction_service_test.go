package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cashew/internal/models"
	"cashew/internal/notify"
	"cashew/internal/pagination"
	"cashew/internal/testutil"
)

func newTestTransactionService(db *gorm.DB) TransactionServicer {
	sharing := NewSharingService(db)
	alerts := NewAlertService(db, NewBudgetService(db), notify.NopNotifier{})
	return NewTransactionService(db, sharing, alerts)
}

func TestCreateTransaction(t *testing.T) {
	t.Run("income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, models.TransactionTypeIncome, models.PaymentMethodCash, "", "salary", decimal.RequireFromString("1000"), models.CurrencyMKD, "august pay")
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected non-empty transaction ID")
		}
		if tx.Method != models.PaymentMethodCash {
			t.Errorf("expected cash method, got %s", tx.Method)
		}
	})

	t.Run("expense_with_funds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCard, "500")

		tx, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, models.PaymentMethodCard, "", "groceries", decimal.RequireFromString("200"), models.CurrencyMKD, "")
		testutil.AssertNoError(t, err)
		if tx.Category != "groceries" {
			t.Errorf("expected category groceries, got %s", tx.Category)
		}
	})

	t.Run("expense_insufficient_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "100")

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, models.PaymentMethodCash, "", "groceries", decimal.RequireFromString("100.01"), models.CurrencyMKD, "")
		testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")
	})

	t.Run("expense_checks_method_balance_not_total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "500")

		// Card balance is zero even though total net worth covers the amount.
		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, models.PaymentMethodCard, "", "groceries", decimal.RequireFromString("50"), models.CurrencyMKD, "")
		testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")
	})

	t.Run("expense_draws_on_shared_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		partner := testutil.CreateTestUser(t, db)
		testutil.LinkUsers(t, db, user, partner)
		testutil.CreateTestIncome(t, db, partner.ID, models.PaymentMethodCash, "300")

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, models.PaymentMethodCash, "", "groceries", decimal.RequireFromString("200"), models.CurrencyMKD, "")
		testutil.AssertNoError(t, err)
	})

	t.Run("transfer_clears_method_and_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, models.TransactionTypeTransfer, models.PaymentMethodCash, models.TransferToCard, "ignored", decimal.RequireFromString("100"), models.CurrencyMKD, "")
		testutil.AssertNoError(t, err)
		if tx.Method != "" || tx.Category != "" {
			t.Errorf("expected method and category cleared, got %q/%q", tx.Method, tx.Category)
		}
		if tx.Direction != models.TransferToCard {
			t.Errorf("expected direction to_card, got %s", tx.Direction)
		}
	})

	t.Run("transfer_requires_direction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeTransfer, "", "", "", decimal.RequireFromString("100"), models.CurrencyMKD, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("income_requires_method_and_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeIncome, "", "", "salary", decimal.RequireFromString("100"), models.CurrencyMKD, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateTransaction(user.ID, models.TransactionTypeIncome, models.PaymentMethodCash, "", "", decimal.RequireFromString("100"), models.CurrencyMKD, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_nonpositive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeIncome, models.PaymentMethodCash, "", "salary", decimal.Zero, models.CurrencyMKD, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_unsupported_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeIncome, models.PaymentMethodCash, "", "salary", decimal.RequireFromString("100"), models.Currency("JPY"), "")
		testutil.AssertAppError(t, err, "UNSUPPORTED_CURRENCY")
	})

	t.Run("rejects_unknown_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, models.TransactionType("loan"), models.PaymentMethodCash, "", "misc", decimal.RequireFromString("100"), models.CurrencyMKD, "")
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})
}

func TestGetVisibleTransactions(t *testing.T) {
	t.Run("own_only_without_sharing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "100")
		testutil.CreateTestIncome(t, db, other.ID, models.PaymentMethodCash, "200")

		result, err := svc.GetVisibleTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction, got %d", result.TotalItems)
		}
	})

	t.Run("merges_collaborator_ledgers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		partner := testutil.CreateTestUser(t, db)
		testutil.LinkUsers(t, db, user, partner)
		testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "100")
		testutil.CreateTestIncome(t, db, partner.ID, models.PaymentMethodCash, "200")

		result, err := svc.GetVisibleTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 transactions, got %d", result.TotalItems)
		}
	})

	t.Run("filters_by_type_and_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "500")
		testutil.CreateTestExpense(t, db, user.ID, models.PaymentMethodCash, "groceries", "100")
		testutil.CreateTestExpense(t, db, user.ID, models.PaymentMethodCash, "transport", "50")

		expense := models.TransactionTypeExpense
		groceries := "groceries"
		result, err := svc.GetVisibleTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Type: &expense, Category: &groceries})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Fatalf("expected 1 transaction, got %d", result.TotalItems)
		}
		if result.Data[0].Category != "groceries" {
			t.Errorf("expected groceries, got %s", result.Data[0].Category)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		for i := 0; i < 5; i++ {
			testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "10")
		}

		result, err := svc.GetVisibleTransactions(user.ID, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 2 {
			t.Errorf("expected 2 items on page 2, got %d", len(result.Data))
		}
		if result.TotalItems != 5 {
			t.Errorf("expected 5 total items, got %d", result.TotalItems)
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 total pages, got %d", result.TotalPages)
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	t.Run("own_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "100")

		tx, err := svc.GetTransactionByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "100", tx.Amount)
	})

	t.Run("collaborator_record_not_addressable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		partner := testutil.CreateTestUser(t, db)
		testutil.LinkUsers(t, db, user, partner)
		created := testutil.CreateTestIncome(t, db, partner.ID, models.PaymentMethodCash, "100")

		_, err := svc.GetTransactionByID(user.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("updates_mutable_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestExpense(t, db, user.ID, models.PaymentMethodCash, "groceries", "100")

		category := "restaurants"
		amount := decimal.RequireFromString("120")
		_, err := svc.UpdateTransaction(user.ID, created.ID, &category, nil, &amount)
		testutil.AssertNoError(t, err)

		var stored models.Transaction
		if err := db.First(&stored, "id = ?", created.ID).Error; err != nil {
			t.Fatalf("failed to reload transaction: %v", err)
		}
		if stored.Category != "restaurants" {
			t.Errorf("expected category restaurants, got %s", stored.Category)
		}
		testutil.AssertDecimalEqual(t, "120", stored.Amount)
	})

	t.Run("transfer_has_no_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransfer(t, db, user.ID, models.TransferToCash, "100")

		category := "misc"
		_, err := svc.UpdateTransaction(user.ID, created.ID, &category, nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_nonpositive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "100")

		amount := decimal.Zero
		_, err := svc.UpdateTransaction(user.ID, created.ID, nil, nil, &amount)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	created := testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "100")

	err := svc.DeleteTransaction(user.ID, created.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.GetTransactionByID(user.ID, created.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestGetBalances(t *testing.T) {
	t.Run("merges_collaborator_ledgers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		partner := testutil.CreateTestUser(t, db)
		testutil.LinkUsers(t, db, user, partner)

		testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "100")
		testutil.CreateTestIncome(t, db, partner.ID, models.PaymentMethodCard, "250")
		testutil.CreateTestExpense(t, db, partner.ID, models.PaymentMethodCard, "groceries", "50")

		balances, err := svc.GetBalances(user.ID, models.CurrencyMKD)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "100", balances.Cash)
		testutil.AssertDecimalEqual(t, "200", balances.Card)
		testutil.AssertDecimalEqual(t, "300", balances.Total())
	})

	t.Run("filters_by_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestIncome(t, db, user.ID, models.PaymentMethodCash, "100")
		eur := &models.Transaction{
			OwnerID:  user.ID,
			Type:     models.TransactionTypeIncome,
			Method:   models.PaymentMethodCash,
			Category: "salary",
			Amount:   decimal.RequireFromString("40"),
			Currency: models.CurrencyEUR,
		}
		if err := db.Create(eur).Error; err != nil {
			t.Fatalf("failed to create EUR transaction: %v", err)
		}

		balances, err := svc.GetBalances(user.ID, models.CurrencyEUR)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "40", balances.Cash)
	})
}
