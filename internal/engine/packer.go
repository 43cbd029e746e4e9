// Package engine implements the ganging optimization pass: geometric shelf
// packing, product compatibility, the curated pattern catalog, candidate
// generation and scoring, and assignment to LAY columns.
package engine

import (
	"errors"
	"sort"

	"github.com/piwi3910/GangSheet/internal/model"
)

// ErrInfeasible is returned when a size multiset cannot be shelf-packed onto
// one sheet. It is expected control flow, not a failure: the caller simply
// discards the candidate.
var ErrInfeasible = errors.New("items do not fit on one sheet")

// PackResult is a successful shelf packing: one placement rectangle per item
// and the total occupied area.
type PackResult struct {
	Placements []model.Placement
	UsedArea   float64
}

// Utilization returns the occupied fraction of the sheet.
func (r PackResult) Utilization() float64 {
	return r.UsedArea / model.SheetAreaMM2
}

// shelf is one horizontal row of the packing. Items are placed left to right;
// the shelf height is fixed by the tallest item placed when it was opened.
type shelf struct {
	y         float64
	height    float64
	usedWidth float64
}

// Pack places the given size multiset onto one sheet using shelf packing in
// the fixed no-rotation orientation. Items are sorted by decreasing crop
// height (then width, then ID) before placement, so identical multisets
// always produce identical layouts.
func Pack(counts map[model.SizeID]int, catalog model.SizeCatalog) (*PackResult, error) {
	type item struct {
		size model.SizeID
		w, h float64
	}

	var items []item
	for _, id := range sortedSizeIDs(counts) {
		spec, ok := catalog.Get(id)
		if !ok {
			return nil, ErrInfeasible
		}
		if spec.MaxPerSheet == 0 || !spec.FitsSheet() {
			return nil, ErrInfeasible
		}
		for i := 0; i < counts[id]; i++ {
			items = append(items, item{size: id, w: spec.CropWidth, h: spec.CropHeight})
		}
	}
	if len(items) == 0 {
		return nil, ErrInfeasible
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].h != items[j].h {
			return items[i].h > items[j].h
		}
		if items[i].w != items[j].w {
			return items[i].w > items[j].w
		}
		return items[i].size < items[j].size
	})

	result := &PackResult{}
	var shelves []shelf

	for _, it := range items {
		placed := false

		// First fit on an existing shelf. Shelves are ordered tallest
		// first, so any shelf tall enough for the item is tried before
		// opening a new one.
		for i := range shelves {
			s := &shelves[i]
			if it.h <= s.height && s.usedWidth+it.w <= model.SheetWidthMM {
				result.Placements = append(result.Placements, model.Placement{
					Size: it.size, X: s.usedWidth, Y: s.y, Width: it.w, Height: it.h,
				})
				s.usedWidth += it.w
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		// Open a new shelf below the last one.
		var nextY float64
		for _, s := range shelves {
			nextY += s.height
		}
		if nextY+it.h > model.SheetHeightMM || it.w > model.SheetWidthMM {
			return nil, ErrInfeasible
		}
		shelves = append(shelves, shelf{y: nextY, height: it.h, usedWidth: it.w})
		result.Placements = append(result.Placements, model.Placement{
			Size: it.size, X: 0, Y: nextY, Width: it.w, Height: it.h,
		})
	}

	for _, p := range result.Placements {
		result.UsedArea += p.Width * p.Height
	}
	return result, nil
}

func sortedSizeIDs(counts map[model.SizeID]int) []model.SizeID {
	ids := make([]model.SizeID, 0, len(counts))
	for id, n := range counts {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
