package ledger

import (
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"

	"gambling-ledger/internal/models"
	"gambling-ledger/internal/store"
	"gambling-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// GamblingSchema declares the gambling table. The store back-fills any of
// these columns missing from the file and coerces the numeric ones.
var GamblingSchema = store.Schema{
	Name: "gambling",
	Columns: []string{
		"id", "date", "website", "machine", "win", "free_win",
		"free_win_m", "note", "start_amount", "end_amount", "user", "profit",
	},
	Numeric: []string{"id", "win", "free_win", "start_amount", "end_amount", "profit"},
}

// GambleForm carries a whole-record submission from the boundary. All fields
// arrive as strings; numeric fields get per-field parse-or-default handling.
type GambleForm struct {
	ID          string `form:"id" json:"id"`
	Date        string `form:"date" json:"date"`
	Website     string `form:"website" json:"website"`
	Machine     string `form:"machine" json:"machine"`
	Win         string `form:"win" json:"win"`
	FreeWin     string `form:"free_win" json:"free_win"`
	FreeWinM    string `form:"free_win_m" json:"free_win_m"`
	Note        string `form:"note" json:"note"`
	StartAmount string `form:"start_amount" json:"start_amount"`
	EndAmount   string `form:"end_amount" json:"end_amount"`
}

// GamblingLedger is CRUD over gambling-session records scoped to a user.
// Every operation is read-whole-table, mutate-in-memory, write-whole-table.
type GamblingLedger struct {
	store    *store.Store
	websites *ReferenceList
	machines *ReferenceList
}

func NewGamblingLedger(st *store.Store, websites, machines *ReferenceList) *GamblingLedger {
	return &GamblingLedger{store: st, websites: websites, machines: machines}
}

// loadAll returns the unfiltered table snapshot with profit freshly derived
// on every row. Read failures degrade to an empty table.
func (l *GamblingLedger) loadAll() *store.Table {
	t, err := l.store.Load(GamblingSchema)
	if err != nil {
		log.Printf("load gambling table: %v", err)
		return store.Empty(GamblingSchema)
	}
	for _, row := range t.Rows {
		recomputeRowProfit(row)
	}
	return t
}

// List returns the user's entries with derived fields recomputed.
func (l *GamblingLedger) List(user string) []models.GamblingEntry {
	t := l.loadAll()
	entries := make([]models.GamblingEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row["user"] == user {
			entries = append(entries, models.GambleFromRow(row))
		}
	}
	return entries
}

// Get looks an entry up by id in the unfiltered table. Ownership checks are
// the caller's responsibility.
func (l *GamblingLedger) Get(id int) (models.GamblingEntry, error) {
	t := l.loadAll()
	row, _, ok := findByID(t, id)
	if !ok {
		return models.GamblingEntry{}, fmt.Errorf("%w: gamble %d", ErrNotFound, id)
	}
	return models.GambleFromRow(row), nil
}

// Upsert edits an existing record in place when the form carries the id of
// one, otherwise appends a new record under a freshly allocated global id.
// Edits require ownership. New website/machine values grow the reference
// lists.
func (l *GamblingLedger) Upsert(user string, form GambleForm) (models.GamblingEntry, error) {
	t := l.loadAll()

	fields := store.Row{
		"date":         util.FormatDateForStorage(form.Date),
		"website":      form.Website,
		"machine":      form.Machine,
		"win":          models.DecimalCell(form.Win).String(),
		"free_win":     models.DecimalCell(form.FreeWin).String(),
		"free_win_m":   form.FreeWinM,
		"note":         form.Note,
		"start_amount": optionalCell(form.StartAmount),
		"end_amount":   optionalCell(form.EndAmount),
	}

	var row store.Row
	if id, err := strconv.Atoi(strings.TrimSpace(form.ID)); err == nil && id > 0 {
		if existing, _, ok := findByID(t, id); ok {
			if existing["user"] != user {
				return models.GamblingEntry{}, fmt.Errorf("%w: gamble %d", ErrPermissionDenied, id)
			}
			for col, v := range fields {
				existing[col] = v
			}
			row = existing
		}
	}
	if row == nil {
		row = fields
		row["id"] = strconv.Itoa(store.NextID(t))
		row["user"] = user
		t.Append(row)
	}
	recomputeRowProfit(row)

	if err := l.store.Save(GamblingSchema, t); err != nil {
		return models.GamblingEntry{}, storageErr("save gambling table", err)
	}
	l.growReferenceLists(form.Website, form.Machine)
	return models.GambleFromRow(row), nil
}

// Patch applies a field-by-field partial update. The id and profit fields of
// the payload are ignored; profit is re-derived after the update.
func (l *GamblingLedger) Patch(id int, user string, fields map[string]any) (models.GamblingEntry, error) {
	t := l.loadAll()
	row, _, ok := findByID(t, id)
	if !ok {
		return models.GamblingEntry{}, fmt.Errorf("%w: gamble %d", ErrNotFound, id)
	}
	if row["user"] != user {
		return models.GamblingEntry{}, fmt.Errorf("%w: gamble %d", ErrPermissionDenied, id)
	}

	applyGambleFields(row, fields)
	recomputeRowProfit(row)

	if err := l.store.Save(GamblingSchema, t); err != nil {
		return models.GamblingEntry{}, storageErr("save gambling table", err)
	}
	return models.GambleFromRow(row), nil
}

// PatchMany applies a partial update per item, silently skipping items with
// a missing or zero id, an unknown id, or an owner other than user. The
// table is saved once at the end.
func (l *GamblingLedger) PatchMany(user string, items []map[string]any) error {
	t := l.loadAll()
	for _, item := range items {
		id := idFromPayload(item["id"])
		if id == 0 {
			continue
		}
		row, _, ok := findByID(t, id)
		if !ok || row["user"] != user {
			continue
		}
		applyGambleFields(row, item)
		recomputeRowProfit(row)
	}
	if err := l.store.Save(GamblingSchema, t); err != nil {
		return storageErr("save gambling table", err)
	}
	return nil
}

// Delete removes the user's record by id.
func (l *GamblingLedger) Delete(id int, user string) error {
	t := l.loadAll()
	row, idx, ok := findByID(t, id)
	if !ok {
		return fmt.Errorf("%w: gamble %d", ErrNotFound, id)
	}
	if row["user"] != user {
		return fmt.Errorf("%w: gamble %d", ErrPermissionDenied, id)
	}
	t.Rows = slices.Delete(t.Rows, idx, idx+1)
	if err := l.store.Save(GamblingSchema, t); err != nil {
		return storageErr("save gambling table", err)
	}
	return nil
}

// RestoreUser replaces all of the user's entries with the given snapshot.
// Rows owned by other users are untouched; restored rows get fresh global
// ids so uniqueness holds across the whole table.
func (l *GamblingLedger) RestoreUser(user string, entries []models.GamblingEntry) error {
	t := l.loadAll()
	kept := make([]store.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row["user"] != user {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
	for _, e := range entries {
		e.User = user
		e.ID = store.NextID(t)
		e.ComputeProfit()
		t.Append(e.Row())
	}
	if err := l.store.Save(GamblingSchema, t); err != nil {
		return storageErr("save gambling table", err)
	}
	return nil
}

func (l *GamblingLedger) growReferenceLists(website, machine string) {
	if website != "" {
		if err := l.websites.AddIfAbsent(website); err != nil {
			log.Printf("grow websites list: %v", err)
		}
	}
	if machine != "" {
		if err := l.machines.AddIfAbsent(machine); err != nil {
			log.Printf("grow machines list: %v", err)
		}
	}
}

// applyGambleFields copies writable payload fields onto the row. Numeric
// fields get independent parse-or-default handling; id, profit and user are
// never taken from the payload.
func applyGambleFields(row store.Row, fields map[string]any) {
	for field, v := range fields {
		switch field {
		case "date":
			row["date"] = util.FormatDateForStorage(stringValue(v))
		case "website", "machine", "free_win_m", "note":
			row[field] = stringValue(v)
		case "win", "free_win":
			row[field] = decimalValue(v).String()
		case "start_amount", "end_amount":
			row[field] = optionalValue(v)
		}
	}
}

func recomputeRowProfit(row store.Row) {
	profit := models.DecimalCell(row["win"]).Add(models.DecimalCell(row["free_win"]))
	row["profit"] = profit.String()
}

func findByID(t *store.Table, id int) (store.Row, int, bool) {
	for i, row := range t.Rows {
		if models.IntCell(row["id"]) == id {
			return row, i, true
		}
	}
	return nil, 0, false
}

func idFromPayload(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return id
	default:
		return 0
	}
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return decimal.NewFromFloat(s).String()
	default:
		return fmt.Sprint(s)
	}
}

func decimalValue(v any) decimal.Decimal {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case string:
		return models.DecimalCell(n)
	default:
		return decimal.Zero
	}
}

func optionalValue(v any) string {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n).String()
	case string:
		return optionalCell(n)
	default:
		return ""
	}
}

func optionalCell(s string) string {
	if d := models.OptionalDecimalCell(s); d != nil {
		return d.String()
	}
	return ""
}
