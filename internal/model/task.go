package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProductType identifies the transfer product family of a task.
type ProductType string

const (
	ProductFullColour   ProductType = "full_colour"
	ProductSingleColour ProductType = "single_colour"
	ProductMetal        ProductType = "metal"
	ProductZero         ProductType = "zero"
)

// Valid reports whether p is one of the known product types.
func (p ProductType) Valid() bool {
	switch p {
	case ProductFullColour, ProductSingleColour, ProductMetal, ProductZero:
		return true
	}
	return false
}

// NeedsColor reports whether the product type carries a meaningful color
// variant. Full colour transfers are printed CMYK and Zero transfers are
// blanks, so neither has one.
func (p ProductType) NeedsColor() bool {
	return p == ProductSingleColour || p == ProductMetal
}

// Color is the color variant of a single colour or metal transfer.
type Color string

const (
	ColorWhite  Color = "white"
	ColorSilver Color = "silver"
)

// State is the planning state of a task.
type State string

const (
	StateUnplanned State = "unplanned"
	StateGanged    State = "ganged"
)

// Task is one print order to be ganged onto a shared sheet.
// Quantity is the print-run length (number of sheet repeats) and does not
// change how much sheet area the task occupies: each task takes exactly one
// slot of its size on the gang layout.
type Task struct {
	ID        string      `json:"id"`
	Label     string      `json:"label"`
	Product   ProductType `json:"product"`
	Size      SizeID      `json:"size"`
	Color     Color       `json:"color,omitempty"`
	Quantity  int         `json:"quantity"`
	Deadline  *time.Time  `json:"deadline,omitempty"`
	State     State       `json:"state"`
	LayColumn string      `json:"lay_column,omitempty"`
}

func NewTask(label string, product ProductType, size SizeID, color Color, qty int) Task {
	return Task{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Product:  product,
		Size:     size,
		Color:    color,
		Quantity: qty,
		State:    StateUnplanned,
	}
}

// Validate checks the task against the size catalog and the field invariants.
func (t Task) Validate(catalog SizeCatalog) error {
	if !t.Product.Valid() {
		return fmt.Errorf("task %s: unknown product type %q", t.ID, t.Product)
	}
	if _, ok := catalog.Get(t.Size); !ok {
		return fmt.Errorf("task %s: unknown size %q", t.ID, t.Size)
	}
	if t.Quantity < 1 {
		return fmt.Errorf("task %s: quantity must be at least 1, got %d", t.ID, t.Quantity)
	}
	if t.Product.NeedsColor() && t.Color == "" {
		return fmt.Errorf("task %s: %s tasks require a color variant", t.ID, t.Product)
	}
	if t.State == StateGanged && t.LayColumn == "" {
		return fmt.Errorf("task %s: ganged task has no LAY column", t.ID)
	}
	return nil
}

// ScreenKey identifies the screen/run a task prints on. Each distinct key in
// a combination incurs one screen setup.
func (t Task) ScreenKey() string {
	if t.Color == "" {
		return string(t.Product)
	}
	return string(t.Product) + ":" + string(t.Color)
}
