package engine

import (
	"sort"

	"github.com/piwi3910/GangSheet/internal/model"
)

// Compatible reports whether two tasks may share a sheet. The relation is
// symmetric; it is never called with a task against itself.
//
// Rules, in precedence order:
//  1. Zero transfers never gang with anything, including other Zero tasks.
//  2. Metal gangs only with Metal, and only when both runs are Silver.
//  3. Full colour gangs with single colour only when the single colour run
//     is White (printed on the shared white underbase).
//  4. Two single colour tasks gang only on the same color.
//  5. Two full colour tasks always gang.
func Compatible(a, b model.Task) bool {
	if a.Product == model.ProductZero || b.Product == model.ProductZero {
		return false
	}
	if a.Product == model.ProductMetal || b.Product == model.ProductMetal {
		return a.Product == model.ProductMetal && b.Product == model.ProductMetal &&
			a.Color == model.ColorSilver && b.Color == model.ColorSilver
	}
	if a.Product == model.ProductFullColour && b.Product == model.ProductSingleColour {
		return b.Color == model.ColorWhite
	}
	if a.Product == model.ProductSingleColour && b.Product == model.ProductFullColour {
		return a.Color == model.ColorWhite
	}
	if a.Product == model.ProductSingleColour && b.Product == model.ProductSingleColour {
		return a.Color == b.Color
	}
	return a.Product == model.ProductFullColour && b.Product == model.ProductFullColour
}

// PairwiseCompatible checks every pair of the given tasks. Transitivity is
// never assumed; the engine re-runs this on each candidate before commit.
func PairwiseCompatible(tasks []model.Task) bool {
	for i := 0; i < len(tasks); i++ {
		for j := i + 1; j < len(tasks); j++ {
			if !Compatible(tasks[i], tasks[j]) {
				return false
			}
		}
	}
	return true
}

// compatKey buckets a task into its sharing group. Tasks with the same key
// are pairwise compatible by construction; tasks with different keys never
// share a sheet. Zero tasks get no key at all; they are always left
// unplanned by this engine.
func compatKey(t model.Task) (string, bool) {
	switch t.Product {
	case model.ProductZero:
		return "", false
	case model.ProductMetal:
		if t.Color == model.ColorSilver {
			return "metal:silver", true
		}
		// A non-silver metal run shares with nothing and so can never
		// fill a pattern.
		return "", false
	case model.ProductFullColour:
		return "fullcolour", true
	case model.ProductSingleColour:
		if t.Color == model.ColorWhite {
			// White single colour rides along with full colour runs.
			return "fullcolour", true
		}
		return "single:" + string(t.Color), true
	}
	return "", false
}

// GroupCompatible partitions pending tasks into sharing groups, dropping
// tasks that can never be ganged. Group order and member order are
// deterministic for a given input.
func GroupCompatible(tasks []model.Task) [][]model.Task {
	byKey := make(map[string][]model.Task)
	var keys []string
	for _, t := range tasks {
		key, ok := compatKey(t)
		if !ok {
			continue
		}
		if _, seen := byKey[key]; !seen {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], t)
	}
	sort.Strings(keys)

	groups := make([][]model.Task, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, byKey[key])
	}
	return groups
}
