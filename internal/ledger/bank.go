package ledger

import (
	"fmt"
	"log"
	"slices"
	"strconv"

	"gambling-ledger/internal/models"
	"gambling-ledger/internal/store"
	"gambling-ledger/internal/util"
)

// BankSchema declares the bank transaction table.
var BankSchema = store.Schema{
	Name:    "bank",
	Columns: []string{"id", "date", "type", "amount", "site", "user"},
	Numeric: []string{"id", "amount"},
}

// BankForm carries a new transaction submission from the boundary.
type BankForm struct {
	Date   string `form:"date" json:"date"`
	Type   string `form:"type" json:"type" binding:"required"`
	Amount string `form:"amount" json:"amount"`
	Site   string `form:"site" json:"site"`
}

// BankLedger is CRUD over deposit/withdrawal records scoped to a user.
type BankLedger struct {
	store *store.Store
}

func NewBankLedger(st *store.Store) *BankLedger {
	return &BankLedger{store: st}
}

func (l *BankLedger) loadAll() *store.Table {
	t, err := l.store.Load(BankSchema)
	if err != nil {
		log.Printf("load bank table: %v", err)
		return store.Empty(BankSchema)
	}
	return t
}

// List returns the user's transactions.
func (l *BankLedger) List(user string) []models.BankTransaction {
	t := l.loadAll()
	txs := make([]models.BankTransaction, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row["user"] == user {
			txs = append(txs, models.BankFromRow(row))
		}
	}
	return txs
}

// Create appends a transaction under a freshly allocated global id. The
// amount is parsed as a non-negative magnitude, zero on parse failure.
func (l *BankLedger) Create(user string, form BankForm) (models.BankTransaction, error) {
	t := l.loadAll()
	tx := models.BankTransaction{
		ID:     store.NextID(t),
		Date:   util.FormatDateForStorage(form.Date),
		Type:   form.Type,
		Amount: models.DecimalCell(form.Amount).Abs(),
		Site:   form.Site,
		User:   user,
	}
	t.Append(tx.Row())
	if err := l.store.Save(BankSchema, t); err != nil {
		return models.BankTransaction{}, storageErr("save bank table", err)
	}
	return tx, nil
}

// ReplaceAll removes every row the user owns and inserts the provided set
// verbatim, stamping the user on each. Rows of other users are preserved.
func (l *BankLedger) ReplaceAll(user string, txs []models.BankTransaction) error {
	t := l.loadAll()
	kept := make([]store.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row["user"] != user {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
	for _, tx := range txs {
		tx.User = user
		tx.Amount = tx.Amount.Abs()
		t.Append(tx.Row())
	}
	if err := l.store.Save(BankSchema, t); err != nil {
		return storageErr("save bank table", err)
	}
	return nil
}

// Delete removes the row matching both id and user; NotFound otherwise.
func (l *BankLedger) Delete(id int, user string) error {
	t := l.loadAll()
	for i, row := range t.Rows {
		if models.IntCell(row["id"]) == id && row["user"] == user {
			t.Rows = slices.Delete(t.Rows, i, i+1)
			if err := l.store.Save(BankSchema, t); err != nil {
				return storageErr("save bank table", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: transaction %s", ErrNotFound, strconv.Itoa(id))
}
