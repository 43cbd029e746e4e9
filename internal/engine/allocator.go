package engine

import (
	"fmt"

	"github.com/piwi3910/GangSheet/internal/model"
)

// ErrColumnFull signals an attempt to occupy more task slots on a LAY column
// than its capacity allows.
var ErrColumnFull = fmt.Errorf("lay column is full")

// Allocator hands out LAY column slots first-fit in production walking order,
// LAY-A1 through LAY-Z1 then LAY-A2 through LAY-Z2.
type Allocator struct {
	columns []model.LayColumn
}

// NewAllocator copies the given column state and sorts it into walking order.
func NewAllocator(columns []model.LayColumn) *Allocator {
	cp := make([]model.LayColumn, len(columns))
	copy(cp, columns)
	model.SortLayColumns(cp)
	return &Allocator{columns: cp}
}

// NextAvailable returns the name of the first column with at least required
// free slots, or "" if no column can take the load.
func (a *Allocator) NextAvailable(required int) string {
	for _, c := range a.columns {
		if c.Remaining() >= required {
			return c.Name
		}
	}
	return ""
}

// Commit records task slots occupied on the named column.
func (a *Allocator) Commit(name string, slots int) error {
	for i := range a.columns {
		if a.columns[i].Name != name {
			continue
		}
		if a.columns[i].Remaining() < slots {
			return fmt.Errorf("%w: %s has %d of %d slots free", ErrColumnFull,
				name, a.columns[i].Remaining(), slots)
		}
		a.columns[i].Occupied += slots
		return nil
	}
	return fmt.Errorf("unknown lay column %q", name)
}

// Columns returns a snapshot of the current column state.
func (a *Allocator) Columns() []model.LayColumn {
	cp := make([]model.LayColumn, len(a.columns))
	copy(cp, a.columns)
	return cp
}
