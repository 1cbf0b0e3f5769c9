package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Row is a single record keyed by column name.
type Row map[string]string

// Table is an in-memory snapshot of one CSV file. Mutations happen on the
// snapshot; Save rewrites the whole file.
type Table struct {
	Columns []string
	Rows    []Row
}

// Schema declares the required column set of a table. Columns missing from
// the file are back-filled with the empty string on load; Numeric columns
// that hold an unparseable value are coerced to "0".
type Schema struct {
	Name    string
	Columns []string
	Numeric []string
}

// Store reads and writes flat CSV tables under a single data directory.
// Single-writer by design: every save is a full-table overwrite.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory the store operates on.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(sc Schema) string {
	return filepath.Join(s.dir, sc.Name+".csv")
}

// Empty returns a zero-row table carrying the schema's column set.
func Empty(sc Schema) *Table {
	cols := make([]string, len(sc.Columns))
	copy(cols, sc.Columns)
	return &Table{Columns: cols, Rows: []Row{}}
}

// Load reads the whole table. A missing file loads as an empty table; any
// other failure is returned and callers are expected to degrade to an empty
// snapshot on reads.
func (s *Store) Load(sc Schema) (*Table, error) {
	f, err := os.Open(s.path(sc))
	if errors.Is(err, os.ErrNotExist) {
		return Empty(sc), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", sc.Name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table %s: %w", sc.Name, err)
	}
	if len(records) == 0 {
		return Empty(sc), nil
	}

	header := records[0]
	t := &Table{Columns: slices.Clone(header)}
	for _, col := range sc.Columns {
		if !slices.Contains(t.Columns, col) {
			t.Columns = append(t.Columns, col)
		}
	}

	for _, rec := range records[1:] {
		row := make(Row, len(t.Columns))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		for _, col := range t.Columns {
			if _, ok := row[col]; !ok {
				row[col] = ""
			}
		}
		coerceNumeric(row, sc.Numeric)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// LoadFiltered is a pure post-filter over Load.
func (s *Store) LoadFiltered(sc Schema, keep func(Row) bool) (*Table, error) {
	t, err := s.Load(sc)
	if err != nil {
		return nil, err
	}
	kept := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
	return t, nil
}

// Save rewrites the table file. The write goes to a temp file first and is
// renamed into place, which is enough protection for the single-writer model.
func (s *Store) Save(sc Schema, t *Table) error {
	cols := t.Columns
	if len(cols) == 0 {
		cols = sc.Columns
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return fmt.Errorf("encode table %s: %w", sc.Name, err)
	}
	rec := make([]string, len(cols))
	for _, row := range t.Rows {
		for i, col := range cols {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("encode table %s: %w", sc.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode table %s: %w", sc.Name, err)
	}

	tmp := s.path(sc) + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write table %s: %w", sc.Name, err)
	}
	if err := os.Rename(tmp, s.path(sc)); err != nil {
		return fmt.Errorf("replace table %s: %w", sc.Name, err)
	}
	return nil
}

// Append adds a row to the snapshot.
func (t *Table) Append(row Row) {
	for _, col := range t.Columns {
		if _, ok := row[col]; !ok {
			row[col] = ""
		}
	}
	t.Rows = append(t.Rows, row)
}

// NextID assigns the next unique integer id for a table: max(id)+1 over
// every row, 1 when the table is empty. Must be called on the unfiltered
// table since ids are unique across users, not per user.
func NextID(t *Table) int {
	max := 0
	for _, row := range t.Rows {
		id, err := strconv.Atoi(strings.TrimSpace(row["id"]))
		if err == nil && id > max {
			max = id
		}
	}
	return max + 1
}

// coerceNumeric forces declared numeric cells to hold a parseable number.
// Empty cells stay empty so optional columns keep their absent state;
// garbage becomes "0" instead of failing the whole load.
func coerceNumeric(row Row, numeric []string) {
	for _, col := range numeric {
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			row[col] = ""
			continue
		}
		if _, err := decimal.NewFromString(cell); err != nil {
			row[col] = "0"
		} else {
			row[col] = cell
		}
	}
}
