// Package ledger holds the pure computations the tracker is built
// around: reducing a transaction set to cash/card balances, evaluating
// budget consumption, and resolving which owners' ledgers are visible to
// a user. Every function here is synchronous, side-effect free, and total
// for well-typed input; fetching the inputs (and any failure handling for
// that) belongs to the service layer.
package ledger

import (
	"github.com/shopspring/decimal"

	"cashew/internal/models"
)

// Balances is the result of reducing a transaction set: the current cash
// and card balance in a single currency. Values are signed and never
// clamped — inconsistent historical writes can legitimately leave a
// balance negative.
type Balances struct {
	Cash decimal.Decimal `json:"cash"`
	Card decimal.Decimal `json:"card"`
}

// Total returns net worth, cash plus card.
func (b Balances) Total() decimal.Decimal {
	return b.Cash.Add(b.Card)
}

// ComputeBalances reduces transactions to cash and card balances in the
// target currency. Transactions in any other currency are skipped;
// cross-currency conversion is a display concern, never done here.
//
// The reduction is commutative and associative, so input order does not
// matter. Amounts accumulate in decimal form; rounding to two places
// happens only at presentation time.
func ComputeBalances(transactions []models.Transaction, currency models.Currency) Balances {
	cash := decimal.Zero
	card := decimal.Zero

	for _, t := range transactions {
		if t.Currency != currency {
			continue
		}

		switch t.Type {
		case models.TransactionTypeIncome:
			if t.Method == models.PaymentMethodCash {
				cash = cash.Add(t.Amount)
			} else {
				card = card.Add(t.Amount)
			}
		case models.TransactionTypeExpense:
			if t.Method == models.PaymentMethodCash {
				cash = cash.Sub(t.Amount)
			} else {
				card = card.Sub(t.Amount)
			}
		case models.TransactionTypeTransfer:
			// A transfer only moves the cash/card split, never net worth.
			if t.Direction == models.TransferToCash {
				card = card.Sub(t.Amount)
				cash = cash.Add(t.Amount)
			} else {
				cash = cash.Sub(t.Amount)
				card = card.Add(t.Amount)
			}
		}
	}

	return Balances{Cash: cash, Card: card}
}
