package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piwi3910/GangSheet/internal/model"
)

// Pattern is one curated size multiset known to pack a sheet at high
// utilization. The catalog is derived once per engine by exhaustively shelf
// packing every single-size count and every two-size count pair, keeping the
// multisets at or above the minimum utilization.
type Pattern struct {
	Name        string
	Counts      map[model.SizeID]int
	Items       int
	Utilization float64
}

// PatternName formats a size multiset in its production shorthand,
// e.g. "1×A4 + 4×A6".
func PatternName(counts map[model.SizeID]int, catalog model.SizeCatalog) string {
	var parts []string
	for _, id := range sortedSizeIDs(counts) {
		spec, _ := catalog.Get(id)
		parts = append(parts, fmt.Sprintf("%d×%s", counts[id], spec.Display()))
	}
	return strings.Join(parts, " + ")
}

// BuildPatternCatalog enumerates the viable gang layouts for the sheet.
// Single-size multisets are tried at every count up to the size's maximum;
// two-size multisets at every count pair. Only multisets that shelf-pack at
// or above minUtil survive. The result is ordered best-first: utilization
// descending, then item count descending, then name.
func BuildPatternCatalog(catalog model.SizeCatalog, minUtil float64) []Pattern {
	gangable := catalog.Gangable()
	var patterns []Pattern

	try := func(counts map[model.SizeID]int) {
		res, err := Pack(counts, catalog)
		if err != nil {
			return
		}
		util := res.Utilization()
		if util < minUtil {
			return
		}
		items := 0
		for _, n := range counts {
			items += n
		}
		patterns = append(patterns, Pattern{
			Name:        PatternName(counts, catalog),
			Counts:      counts,
			Items:       items,
			Utilization: util,
		})
	}

	for _, s := range gangable {
		for n := 1; n <= s.MaxPerSheet; n++ {
			try(map[model.SizeID]int{s.ID: n})
		}
	}

	for i := 0; i < len(gangable); i++ {
		for j := i + 1; j < len(gangable); j++ {
			a, b := gangable[i], gangable[j]
			for na := 1; na <= a.MaxPerSheet; na++ {
				for nb := 1; nb <= b.MaxPerSheet; nb++ {
					try(map[model.SizeID]int{a.ID: na, b.ID: nb})
				}
			}
		}
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Utilization != patterns[j].Utilization {
			return patterns[i].Utilization > patterns[j].Utilization
		}
		if patterns[i].Items != patterns[j].Items {
			return patterns[i].Items > patterns[j].Items
		}
		return patterns[i].Name < patterns[j].Name
	})
	return patterns
}
