package models

import (
	"strconv"
	"strings"

	"gambling-ledger/internal/store"

	"github.com/shopspring/decimal"
)

// GamblingEntry represents one gambling session row.
// Profit is derived: it is always win + free_win, recomputed on every load
// and every write, never trusted from storage.
type GamblingEntry struct {
	ID          int              `json:"id"`
	Date        string           `json:"date"`
	Website     string           `json:"website"`
	Machine     string           `json:"machine"`
	Win         decimal.Decimal  `json:"win"`
	FreeWin     decimal.Decimal  `json:"free_win"`
	FreeWinM    string           `json:"free_win_m"`
	Note        string           `json:"note"`
	StartAmount *decimal.Decimal `json:"start_amount"`
	EndAmount   *decimal.Decimal `json:"end_amount"`
	Profit      decimal.Decimal  `json:"profit"`
	User        string           `json:"user"`
}

// ComputeProfit recomputes the derived profit field.
func (e *GamblingEntry) ComputeProfit() {
	e.Profit = e.Win.Add(e.FreeWin)
}

// GambleFromRow converts a store row into an entry. Cells have already been
// numeric-coerced by the store; anything still unparseable counts as zero.
func GambleFromRow(row store.Row) GamblingEntry {
	e := GamblingEntry{
		ID:          IntCell(row["id"]),
		Date:        row["date"],
		Website:     row["website"],
		Machine:     row["machine"],
		Win:         DecimalCell(row["win"]),
		FreeWin:     DecimalCell(row["free_win"]),
		FreeWinM:    row["free_win_m"],
		Note:        row["note"],
		StartAmount: OptionalDecimalCell(row["start_amount"]),
		EndAmount:   OptionalDecimalCell(row["end_amount"]),
		User:        row["user"],
	}
	e.ComputeProfit()
	return e
}

// Row converts the entry back into storage form.
func (e GamblingEntry) Row() store.Row {
	return store.Row{
		"id":           strconv.Itoa(e.ID),
		"date":         e.Date,
		"website":      e.Website,
		"machine":      e.Machine,
		"win":          e.Win.String(),
		"free_win":     e.FreeWin.String(),
		"free_win_m":   e.FreeWinM,
		"note":         e.Note,
		"start_amount": optionalDecimalString(e.StartAmount),
		"end_amount":   optionalDecimalString(e.EndAmount),
		"profit":       e.Profit.String(),
		"user":         e.User,
	}
}

// IntCell parses an integer cell, zero on failure.
func IntCell(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// DecimalCell parses a decimal cell, zero on failure or when empty.
func DecimalCell(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// OptionalDecimalCell parses a decimal cell, nil when empty or unparseable.
func OptionalDecimalCell(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func optionalDecimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
