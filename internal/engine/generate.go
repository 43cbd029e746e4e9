package engine

import (
	"sort"
	"time"

	"github.com/piwi3910/GangSheet/internal/model"
)

// Generator proposes candidate combinations for a group of mutually
// compatible tasks. A pattern binds only when the group can fill every slot
// exactly; partial fills are never proposed, so a lone task with no peers
// produces no candidate at all.
type Generator struct {
	catalog  model.SizeCatalog
	patterns []Pattern
}

func NewGenerator(catalog model.SizeCatalog, patterns []Pattern) *Generator {
	return &Generator{catalog: catalog, patterns: patterns}
}

// Candidates returns every pattern the group can fill, one task per slot.
// Tasks within a size are taken most urgent first, ties broken by ID.
func (g *Generator) Candidates(group []model.Task, now time.Time) []model.Combination {
	bySize := groupBySize(group, now)
	var out []model.Combination
	for _, p := range g.patterns {
		if !exactFillPossible(p.Counts, bySize) {
			continue
		}
		if c, ok := g.build(p.Counts, pickTasks(p.Counts, bySize)); ok {
			out = append(out, c)
		}
	}
	return out
}

// build packs the counts and assigns the picked tasks to slots in placement
// order. The pack is re-run rather than trusted from the catalog so a
// malformed pattern can never produce an overlapping layout.
func (g *Generator) build(counts map[model.SizeID]int, tasks []model.Task) (model.Combination, bool) {
	res, err := Pack(counts, g.catalog)
	if err != nil {
		return model.Combination{}, false
	}
	placements := make([]model.Placement, len(res.Placements))
	copy(placements, res.Placements)
	next := map[model.SizeID]int{}
	used := 0.0
	for _, t := range tasks {
		for i := next[t.Size]; i < len(placements); i++ {
			if placements[i].Size == t.Size && placements[i].TaskID == "" {
				placements[i].TaskID = t.ID
				next[t.Size] = i + 1
				used += placements[i].Width * placements[i].Height
				break
			}
		}
	}
	return model.Combination{
		Pattern:    PatternName(counts, g.catalog),
		Tasks:      tasks,
		Placements: placements,
		UsedArea:   used,
	}, true
}

func groupBySize(group []model.Task, now time.Time) map[model.SizeID][]model.Task {
	bySize := map[model.SizeID][]model.Task{}
	for _, t := range group {
		bySize[t.Size] = append(bySize[t.Size], t)
	}
	for id := range bySize {
		tasks := bySize[id]
		sort.SliceStable(tasks, func(i, j int) bool {
			ui, uj := Urgency(tasks[i], now), Urgency(tasks[j], now)
			if ui != uj {
				return ui > uj
			}
			return tasks[i].ID < tasks[j].ID
		})
	}
	return bySize
}

func exactFillPossible(counts map[model.SizeID]int, bySize map[model.SizeID][]model.Task) bool {
	for id, n := range counts {
		if len(bySize[id]) < n {
			return false
		}
	}
	return true
}

func pickTasks(counts map[model.SizeID]int, bySize map[model.SizeID][]model.Task) []model.Task {
	var picked []model.Task
	for _, id := range sortedSizeIDs(counts) {
		picked = append(picked, bySize[id][:counts[id]]...)
	}
	return picked
}
