package ledger

import (
	"errors"
	"slices"
	"testing"

	"gambling-ledger/internal/store"

	"github.com/shopspring/decimal"
)

func newTestGambling(t *testing.T) (*GamblingLedger, *store.Store) {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return NewGamblingLedger(st, NewWebsiteList(st), NewMachineList(st)), st
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestUpsertCreatesEntryWithDerivedProfit(t *testing.T) {
	l, _ := newTestGambling(t)

	entry, err := l.Upsert("user1", GambleForm{
		Date:    "2026-08-30",
		Website: "CasinoX",
		Machine: "Lucky7",
		Win:     "100",
		FreeWin: "20",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if entry.ID != 1 {
		t.Fatalf("expected id 1, got %d", entry.ID)
	}
	if !entry.Profit.Equal(mustDecimal(t, "120")) {
		t.Fatalf("expected profit 120, got %s", entry.Profit)
	}
	if got := l.List("user1"); len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if ws := l.websites.Values(); !slices.Contains(ws, "CasinoX") {
		t.Fatalf("websites list missing CasinoX: %v", ws)
	}
	if ms := l.machines.Values(); !slices.Contains(ms, "Lucky7") {
		t.Fatalf("machines list missing Lucky7: %v", ms)
	}
}

func TestUpsertAllocatesGlobalIDsAcrossUsers(t *testing.T) {
	l, _ := newTestGambling(t)

	first, err := l.Upsert("user1", GambleForm{Win: "1"})
	if err != nil {
		t.Fatalf("upsert user1: %v", err)
	}
	second, err := l.Upsert("user2", GambleForm{Win: "2"})
	if err != nil {
		t.Fatalf("upsert user2: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected global ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if got := l.List("user1"); len(got) != 1 {
		t.Fatalf("user1 sees %d entries, expected 1", len(got))
	}
}

func TestUpsertEditsInPlace(t *testing.T) {
	l, _ := newTestGambling(t)

	created, err := l.Upsert("user1", GambleForm{Website: "CasinoX", Win: "100", FreeWin: "20"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := l.Upsert("user1", GambleForm{ID: "1", Website: "CasinoY", Win: "50", FreeWin: "5"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("edit changed id: %d -> %d", created.ID, updated.ID)
	}
	if updated.Website != "CasinoY" {
		t.Fatalf("expected website CasinoY, got %q", updated.Website)
	}
	if !updated.Profit.Equal(mustDecimal(t, "55")) {
		t.Fatalf("expected profit 55, got %s", updated.Profit)
	}
	if got := l.List("user1"); len(got) != 1 {
		t.Fatalf("edit duplicated the entry: %d rows", len(got))
	}
}

func TestUpsertEditRequiresOwnership(t *testing.T) {
	l, _ := newTestGambling(t)

	if _, err := l.Upsert("user1", GambleForm{Website: "CasinoX", Win: "100"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := l.Upsert("user2", GambleForm{ID: "1", Win: "999"})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	entry, err := l.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !entry.Win.Equal(mustDecimal(t, "100")) {
		t.Fatalf("entry was modified by denied edit: win %s", entry.Win)
	}
}

func TestUpsertBadNumericFieldsDefaultIndependently(t *testing.T) {
	l, _ := newTestGambling(t)

	entry, err := l.Upsert("user1", GambleForm{
		Win:         "not-a-number",
		FreeWin:     "5",
		StartAmount: "garbage",
		EndAmount:   "80",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !entry.Win.IsZero() {
		t.Fatalf("expected win 0, got %s", entry.Win)
	}
	if !entry.FreeWin.Equal(mustDecimal(t, "5")) {
		t.Fatalf("expected free_win 5, got %s", entry.FreeWin)
	}
	if entry.StartAmount != nil {
		t.Fatalf("expected absent start_amount, got %s", entry.StartAmount)
	}
	if entry.EndAmount == nil || !entry.EndAmount.Equal(mustDecimal(t, "80")) {
		t.Fatalf("expected end_amount 80, got %v", entry.EndAmount)
	}
}

func TestUpsertNormalizesDisplayDates(t *testing.T) {
	l, _ := newTestGambling(t)

	entry, err := l.Upsert("user1", GambleForm{Date: "30-08-2026", Win: "1"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if entry.Date != "2026-08-30" {
		t.Fatalf("expected stored date 2026-08-30, got %q", entry.Date)
	}
}

func TestListRederivesProfitFromStorage(t *testing.T) {
	l, st := newTestGambling(t)

	tab := store.Empty(GamblingSchema)
	tab.Append(store.Row{
		"id": "1", "date": "2026-08-30", "website": "CasinoX",
		"win": "10", "free_win": "2", "profit": "999", "user": "user1",
	})
	if err := st.Save(GamblingSchema, tab); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	got := l.List("user1")
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if !got[0].Profit.Equal(mustDecimal(t, "12")) {
		t.Fatalf("expected stale profit rederived to 12, got %s", got[0].Profit)
	}
}

func TestPatchRecomputesProfitAndIgnoresProtectedFields(t *testing.T) {
	l, _ := newTestGambling(t)

	if _, err := l.Upsert("user1", GambleForm{Win: "100", FreeWin: "20"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	entry, err := l.Patch(1, "user1", map[string]any{
		"win":    "10",
		"profit": "999",
		"id":     float64(42),
		"user":   "user2",
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if entry.ID != 1 || entry.User != "user1" {
		t.Fatalf("protected fields changed: id=%d user=%q", entry.ID, entry.User)
	}
	if !entry.Profit.Equal(mustDecimal(t, "30")) {
		t.Fatalf("expected profit 30, got %s", entry.Profit)
	}
}

func TestPatchBadNumericDefaultsToZero(t *testing.T) {
	l, _ := newTestGambling(t)

	if _, err := l.Upsert("user1", GambleForm{Win: "100", FreeWin: "20"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	entry, err := l.Patch(1, "user1", map[string]any{"win": "oops"})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if !entry.Win.IsZero() {
		t.Fatalf("expected win 0, got %s", entry.Win)
	}
	if !entry.Profit.Equal(mustDecimal(t, "20")) {
		t.Fatalf("expected profit 20, got %s", entry.Profit)
	}
}

func TestPatchUnknownIDNotFound(t *testing.T) {
	l, _ := newTestGambling(t)

	_, err := l.Patch(99, "user1", map[string]any{"win": "1"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPatchForeignOwnerDenied(t *testing.T) {
	l, _ := newTestGambling(t)

	if _, err := l.Upsert("user1", GambleForm{Win: "100"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := l.Patch(1, "user2", map[string]any{"win": "1"})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	entry, _ := l.Get(1)
	if !entry.Win.Equal(mustDecimal(t, "100")) {
		t.Fatalf("denied patch modified the entry: win %s", entry.Win)
	}
}

func TestPatchManySkipsForeignAndUnidentifiedItems(t *testing.T) {
	l, _ := newTestGambling(t)

	if _, err := l.Upsert("user1", GambleForm{Win: "1"}); err != nil {
		t.Fatalf("create user1: %v", err)
	}
	if _, err := l.Upsert("user2", GambleForm{Win: "2"}); err != nil {
		t.Fatalf("create user2: %v", err)
	}

	err := l.PatchMany("user1", []map[string]any{
		{"id": float64(1), "win": "10"},
		{"id": float64(2), "win": "999"}, // owned by user2
		{"id": float64(0), "win": "999"},
		{"win": "999"}, // no id at all
		{"id": float64(77), "win": "999"},
	})
	if err != nil {
		t.Fatalf("patch many: %v", err)
	}

	mine, _ := l.Get(1)
	if !mine.Win.Equal(mustDecimal(t, "10")) {
		t.Fatalf("own entry not updated: win %s", mine.Win)
	}
	other, _ := l.Get(2)
	if !other.Win.Equal(mustDecimal(t, "2")) {
		t.Fatalf("foreign entry was updated: win %s", other.Win)
	}
}

func TestDeleteUnknownIDKeepsTable(t *testing.T) {
	l, _ := newTestGambling(t)

	if _, err := l.Upsert("user1", GambleForm{Win: "1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := l.Delete(99, "user1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := l.List("user1"); len(got) != 1 {
		t.Fatalf("failed delete changed the table: %d rows", len(got))
	}
}

func TestDeleteForeignOwnerDenied(t *testing.T) {
	l, _ := newTestGambling(t)

	if _, err := l.Upsert("user1", GambleForm{Win: "1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := l.Delete(1, "user2"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if got := l.List("user1"); len(got) != 1 {
		t.Fatalf("denied delete removed the row: %d rows", len(got))
	}
}

func TestDeleteOwnEntry(t *testing.T) {
	l, _ := newTestGambling(t)

	if _, err := l.Upsert("user1", GambleForm{Win: "1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := l.Delete(1, "user1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := l.List("user1"); len(got) != 0 {
		t.Fatalf("expected empty ledger, got %d rows", len(got))
	}
}

func TestRestoreUserKeepsOtherUsersAndReassignsIDs(t *testing.T) {
	l, _ := newTestGambling(t)

	if _, err := l.Upsert("user1", GambleForm{Website: "Old", Win: "1"}); err != nil {
		t.Fatalf("create user1: %v", err)
	}
	if _, err := l.Upsert("user2", GambleForm{Website: "Theirs", Win: "2"}); err != nil {
		t.Fatalf("create user2: %v", err)
	}

	snapshot := l.List("user1")
	snapshot[0].Website = "Restored"

	if err := l.RestoreUser("user1", snapshot); err != nil {
		t.Fatalf("restore: %v", err)
	}

	mine := l.List("user1")
	if len(mine) != 1 || mine[0].Website != "Restored" {
		t.Fatalf("restore lost data: %+v", mine)
	}
	if mine[0].ID != 3 {
		t.Fatalf("expected restored row to take a fresh global id 3, got %d", mine[0].ID)
	}
	theirs := l.List("user2")
	if len(theirs) != 1 || theirs[0].Website != "Theirs" {
		t.Fatalf("restore touched another user's rows: %+v", theirs)
	}
}
