package model

import (
	"fmt"
	"sort"
	"strings"
)

// Production sheet dimensions in mm. Bleed is embedded in each size's crop
// dimensions, so there are no gutters between placed items.
const (
	SheetWidthMM  = 310.0
	SheetHeightMM = 440.0
	SheetAreaMM2  = SheetWidthMM * SheetHeightMM
)

// SizeID identifies a transfer size in the catalog.
type SizeID string

const (
	SizeA3      SizeID = "a3"
	SizeA4      SizeID = "a4"
	SizeA5      SizeID = "a5"
	SizeA6      SizeID = "a6"
	Size295x100 SizeID = "295x100"
	Size95x95   SizeID = "95x95"
	Size100x70  SizeID = "100x70"
	Size60x60   SizeID = "60x60"
	Size290x140 SizeID = "290x140"
)

// SizeSpec is one immutable catalog entry: the crop dimensions of a transfer
// size in its fixed orientation, plus the single-size reference layout.
// MaxPerSheet of zero means the size occupies the whole sheet and can never
// be ganged.
type SizeSpec struct {
	ID          SizeID  `json:"id"`
	CropWidth   float64 `json:"crop_width"`  // mm, rotation never applied
	CropHeight  float64 `json:"crop_height"` // mm
	MaxPerSheet int     `json:"max_per_sheet"`
	Columns     int     `json:"columns"` // reference layout, items across
	Rows        int     `json:"rows"`    // reference layout, items down
}

// Area returns the crop area of one item in mm².
func (s SizeSpec) Area() float64 {
	return s.CropWidth * s.CropHeight
}

// FitsSheet reports whether a single item fits the sheet in its fixed
// orientation.
func (s SizeSpec) FitsSheet() bool {
	return s.CropWidth <= SheetWidthMM && s.CropHeight <= SheetHeightMM
}

// Display returns the catalog name in its badge form, e.g. "A4" or "100×70MM".
func (s SizeSpec) Display() string {
	id := string(s.ID)
	if strings.HasPrefix(id, "a") {
		return strings.ToUpper(id)
	}
	return strings.ToUpper(strings.ReplaceAll(id, "x", "×")) + "MM"
}

// SizeCatalog is the static table of transfer sizes.
type SizeCatalog []SizeSpec

// DefaultCatalog returns the production transfer size catalog. Crop
// dimensions are the exact fractional values measured from the production
// layouts, bleed included.
func DefaultCatalog() SizeCatalog {
	return SizeCatalog{
		{ID: SizeA3, CropWidth: 297, CropHeight: 420, MaxPerSheet: 0, Columns: 1, Rows: 1},
		{ID: SizeA4, CropWidth: 309, CropHeight: 219.5, MaxPerSheet: 2, Columns: 1, Rows: 2},
		{ID: SizeA5, CropWidth: 154.5, CropHeight: 219.22, MaxPerSheet: 4, Columns: 2, Rows: 2},
		{ID: SizeA6, CropWidth: 154.5, CropHeight: 109.75, MaxPerSheet: 8, Columns: 2, Rows: 4},
		{ID: Size295x100, CropWidth: 309, CropHeight: 109.75, MaxPerSheet: 4, Columns: 1, Rows: 4},
		{ID: Size95x95, CropWidth: 103, CropHeight: 109.75, MaxPerSheet: 12, Columns: 3, Rows: 4},
		{ID: Size100x70, CropWidth: 77.25, CropHeight: 109.75, MaxPerSheet: 16, Columns: 4, Rows: 4},
		{ID: Size60x60, CropWidth: 77.25, CropHeight: 73.17, MaxPerSheet: 24, Columns: 4, Rows: 6},
		{ID: Size290x140, CropWidth: 309, CropHeight: 146, MaxPerSheet: 3, Columns: 1, Rows: 3},
	}
}

// Get looks up a size by ID.
func (c SizeCatalog) Get(id SizeID) (SizeSpec, bool) {
	for _, s := range c {
		if s.ID == id {
			return s, true
		}
	}
	return SizeSpec{}, false
}

// Gangable returns the sizes that may share a sheet, sorted by ID for
// deterministic iteration.
func (c SizeCatalog) Gangable() []SizeSpec {
	var out []SizeSpec
	for _, s := range c {
		if s.MaxPerSheet > 0 {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate checks every entry against the sheet constant. A catalog that
// fails validation is a configuration error and the engine refuses to run.
func (c SizeCatalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("size catalog is empty")
	}
	seen := make(map[SizeID]bool, len(c))
	for _, s := range c {
		if seen[s.ID] {
			return fmt.Errorf("size %q: duplicate catalog entry", s.ID)
		}
		seen[s.ID] = true
		if s.CropWidth <= 0 || s.CropHeight <= 0 {
			return fmt.Errorf("size %q: crop dimensions must be positive", s.ID)
		}
		if !s.FitsSheet() {
			return fmt.Errorf("size %q: crop %.2f×%.2f mm exceeds the %.0f×%.0f mm sheet",
				s.ID, s.CropWidth, s.CropHeight, SheetWidthMM, SheetHeightMM)
		}
		if s.MaxPerSheet == 0 {
			continue
		}
		across := int(SheetWidthMM / s.CropWidth)
		down := int(SheetHeightMM / s.CropHeight)
		if s.MaxPerSheet != across*down {
			return fmt.Errorf("size %q: max per sheet %d does not match the %d×%d reference layout",
				s.ID, s.MaxPerSheet, across, down)
		}
		if s.Columns != across || s.Rows != down {
			return fmt.Errorf("size %q: reference layout %d×%d does not match computed %d×%d",
				s.ID, s.Columns, s.Rows, across, down)
		}
	}
	return nil
}
