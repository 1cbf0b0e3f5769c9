package models

import (
	"strconv"
	"strings"

	"gambling-ledger/internal/store"

	"github.com/shopspring/decimal"
)

// Transaction types, compared case-insensitively.
const (
	TxDeposit    = "deposit"
	TxWithdrawal = "withdrawal"
)

// BankTransaction represents one deposit or withdrawal row. Amount is stored
// as a non-negative magnitude; the sign comes from Type at aggregation time.
type BankTransaction struct {
	ID     int             `json:"id"`
	Date   string          `json:"date"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Site   string          `json:"site"`
	User   string          `json:"user"`
}

// Signed returns the amount with its sign applied: deposits count positive,
// withdrawals negative, anything else zero.
func (t BankTransaction) Signed() decimal.Decimal {
	switch strings.ToLower(t.Type) {
	case TxDeposit:
		return t.Amount
	case TxWithdrawal:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// BankFromRow converts a store row into a transaction.
func BankFromRow(row store.Row) BankTransaction {
	return BankTransaction{
		ID:     IntCell(row["id"]),
		Date:   row["date"],
		Type:   row["type"],
		Amount: DecimalCell(row["amount"]),
		Site:   row["site"],
		User:   row["user"],
	}
}

// Row converts the transaction back into storage form.
func (t BankTransaction) Row() store.Row {
	return store.Row{
		"id":     strconv.Itoa(t.ID),
		"date":   t.Date,
		"type":   t.Type,
		"amount": t.Amount.String(),
		"site":   t.Site,
		"user":   t.User,
	}
}
