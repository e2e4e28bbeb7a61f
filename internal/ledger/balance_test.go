package ledger

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"cashew/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func income(method models.PaymentMethod, amount string) models.Transaction {
	return models.Transaction{
		Type:     models.TransactionTypeIncome,
		Method:   method,
		Amount:   dec(amount),
		Currency: models.CurrencyEUR,
	}
}

func expense(method models.PaymentMethod, amount string) models.Transaction {
	return models.Transaction{
		Type:     models.TransactionTypeExpense,
		Method:   method,
		Amount:   dec(amount),
		Currency: models.CurrencyEUR,
	}
}

func transfer(direction models.TransferDirection, amount string) models.Transaction {
	return models.Transaction{
		Type:      models.TransactionTypeTransfer,
		Direction: direction,
		Amount:    dec(amount),
		Currency:  models.CurrencyEUR,
	}
}

func TestComputeBalances(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		b := ComputeBalances(nil, models.CurrencyEUR)
		if !b.Cash.IsZero() || !b.Card.IsZero() {
			t.Errorf("expected zero balances, got cash=%s card=%s", b.Cash, b.Card)
		}
	})

	t.Run("income_and_expense_split_by_method", func(t *testing.T) {
		txs := []models.Transaction{
			income(models.PaymentMethodCash, "100"),
			income(models.PaymentMethodCard, "250"),
			expense(models.PaymentMethodCash, "40"),
			expense(models.PaymentMethodCard, "10.50"),
		}

		b := ComputeBalances(txs, models.CurrencyEUR)
		if !b.Cash.Equal(dec("60")) {
			t.Errorf("expected cash 60, got %s", b.Cash)
		}
		if !b.Card.Equal(dec("239.50")) {
			t.Errorf("expected card 239.50, got %s", b.Card)
		}
	})

	t.Run("end_to_end_with_transfer", func(t *testing.T) {
		txs := []models.Transaction{
			income(models.PaymentMethodCash, "100"),
			expense(models.PaymentMethodCash, "30"),
			transfer(models.TransferToCard, "20"),
		}

		b := ComputeBalances(txs, models.CurrencyEUR)
		if !b.Cash.Equal(dec("50")) {
			t.Errorf("expected cash 50, got %s", b.Cash)
		}
		if !b.Card.Equal(dec("20")) {
			t.Errorf("expected card 20, got %s", b.Card)
		}
	})

	t.Run("transfer_preserves_net_worth", func(t *testing.T) {
		base := []models.Transaction{
			income(models.PaymentMethodCash, "500"),
			income(models.PaymentMethodCard, "120.75"),
		}
		before := ComputeBalances(base, models.CurrencyEUR)

		withTransfers := append(append([]models.Transaction{}, base...),
			transfer(models.TransferToCard, "42.42"),
			transfer(models.TransferToCash, "17"),
			transfer(models.TransferToCard, "0.01"),
		)
		after := ComputeBalances(withTransfers, models.CurrencyEUR)

		if !before.Total().Equal(after.Total()) {
			t.Errorf("net worth changed across transfers: before=%s after=%s", before.Total(), after.Total())
		}
	})

	t.Run("other_currencies_excluded", func(t *testing.T) {
		usd := income(models.PaymentMethodCash, "999")
		usd.Currency = models.CurrencyUSD

		txs := []models.Transaction{
			income(models.PaymentMethodCash, "10"),
			usd,
		}

		b := ComputeBalances(txs, models.CurrencyEUR)
		if !b.Cash.Equal(dec("10")) {
			t.Errorf("expected USD record to be skipped, got cash %s", b.Cash)
		}
	})

	t.Run("negative_balance_not_clamped", func(t *testing.T) {
		txs := []models.Transaction{
			expense(models.PaymentMethodCard, "75"),
		}

		b := ComputeBalances(txs, models.CurrencyEUR)
		if !b.Card.Equal(dec("-75")) {
			t.Errorf("expected card -75, got %s", b.Card)
		}
	})

	t.Run("order_invariance", func(t *testing.T) {
		txs := []models.Transaction{
			income(models.PaymentMethodCash, "100"),
			expense(models.PaymentMethodCash, "33.33"),
			transfer(models.TransferToCard, "25"),
			income(models.PaymentMethodCard, "12.01"),
			expense(models.PaymentMethodCard, "7"),
		}
		want := ComputeBalances(txs, models.CurrencyEUR)

		r := rand.New(rand.NewSource(1))
		for i := 0; i < 20; i++ {
			shuffled := append([]models.Transaction{}, txs...)
			r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

			got := ComputeBalances(shuffled, models.CurrencyEUR)
			if !got.Cash.Equal(want.Cash) || !got.Card.Equal(want.Card) {
				t.Fatalf("permutation %d changed result: got cash=%s card=%s, want cash=%s card=%s",
					i, got.Cash, got.Card, want.Cash, want.Card)
			}
		}
	})

	t.Run("no_floating_point_drift", func(t *testing.T) {
		// 0.10 added a thousand times must be exactly 100.
		txs := make([]models.Transaction, 0, 1000)
		for i := 0; i < 1000; i++ {
			txs = append(txs, income(models.PaymentMethodCash, "0.10"))
		}

		b := ComputeBalances(txs, models.CurrencyEUR)
		if !b.Cash.Equal(dec("100")) {
			t.Errorf("expected exactly 100, got %s", b.Cash)
		}
	})
}
