package corpcode

import (
	"strings"

	"github.com/shanehull/corpbrief/internal/types"
)

// Table is an immutable, ordered company-name to identifier table.
type Table struct {
	records []types.CompanyRecord
}

func NewTable(records []types.CompanyRecord) *Table {
	return &Table{records: records}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the stored records in source order.
func (t *Table) Records() []types.CompanyRecord {
	if t == nil {
		return nil
	}
	out := make([]types.CompanyRecord, len(t.records))
	copy(out, t.records)
	return out
}

// LookupExact returns the first record whose name equals name, with its
// identifier normalized.
func (t *Table) LookupExact(name string) (types.CompanyRecord, bool) {
	if t == nil {
		return types.CompanyRecord{}, false
	}
	for _, rec := range t.records {
		if rec.Name == name {
			return types.CompanyRecord{Name: rec.Name, Identifier: Normalize(rec.Identifier)}, true
		}
	}
	return types.CompanyRecord{}, false
}

// Resolve satisfies the pipeline's identifier lookup.
func (t *Table) Resolve(name string) (string, bool) {
	rec, ok := t.LookupExact(name)
	return rec.Identifier, ok
}

// SearchByKeyword returns records whose name contains keyword, in stored order.
func (t *Table) SearchByKeyword(keyword string, limit int) []types.CompanyRecord {
	if t == nil {
		return nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var matches []types.CompanyRecord
	for _, rec := range t.records {
		if !strings.Contains(rec.Name, keyword) {
			continue
		}
		matches = append(matches, rec)
		if len(matches) == limit {
			break
		}
	}
	return matches
}
