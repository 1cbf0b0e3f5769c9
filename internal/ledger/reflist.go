package ledger

import (
	"log"
	"slices"

	"gambling-ledger/internal/store"
)

// ReferenceList is an append-only, deduplicated catalog of known values
// (websites, machines). It grows opportunistically when a gambling entry
// introduces an unseen value; values are never updated or removed.
type ReferenceList struct {
	store  *store.Store
	schema store.Schema
}

func NewWebsiteList(st *store.Store) *ReferenceList {
	return &ReferenceList{
		store:  st,
		schema: store.Schema{Name: "websites", Columns: []string{"website"}},
	}
}

func NewMachineList(st *store.Store) *ReferenceList {
	return &ReferenceList{
		store:  st,
		schema: store.Schema{Name: "machines", Columns: []string{"machine"}},
	}
}

func (r *ReferenceList) column() string {
	return r.schema.Columns[0]
}

// Values returns the list in insertion order. A read failure degrades to an
// empty list.
func (r *ReferenceList) Values() []string {
	t, err := r.store.Load(r.schema)
	if err != nil {
		log.Printf("load %s list: %v", r.schema.Name, err)
		return []string{}
	}
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if v := row[r.column()]; v != "" {
			values = append(values, v)
		}
	}
	return values
}

// AddIfAbsent appends value unless it is already present (case-sensitive
// exact match) and persists the full list. Repeated additions of the same
// value are no-ops.
func (r *ReferenceList) AddIfAbsent(value string) error {
	if value == "" {
		return nil
	}
	if slices.Contains(r.Values(), value) {
		return nil
	}
	t, err := r.store.Load(r.schema)
	if err != nil {
		t = store.Empty(r.schema)
	}
	t.Append(store.Row{r.column(): value})
	if err := r.store.Save(r.schema, t); err != nil {
		return storageErr("save "+r.schema.Name+" list", err)
	}
	return nil
}
