package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/piwi3910/GangSheet/internal/model"
)

// SizeAnalysis summarizes the ganging characteristics of one catalog size.
type SizeAnalysis struct {
	Size            model.SizeID `json:"size"`
	Display         string       `json:"display"`
	CropWidth       float64      `json:"crop_width_mm"`
	CropHeight      float64      `json:"crop_height_mm"`
	MaxPerSheet     int          `json:"max_per_sheet"`
	Layout          string       `json:"layout"`
	ItemArea        float64      `json:"item_area_mm2"`
	FullUtilization float64      `json:"full_utilization"`
	PatternCount    int          `json:"pattern_count"`
}

// CatalogReport is the read-only analysis of the size catalog and the
// derived pattern catalog.
type CatalogReport struct {
	Sheet           string         `json:"sheet"`
	Sizes           []SizeAnalysis `json:"sizes"`
	PatternCount    int            `json:"pattern_count"`
	BestPattern     string         `json:"best_pattern"`
	BestUtilization float64        `json:"best_utilization"`
}

// AnalyzeCatalog reports what every size can do on the sheet without touching
// any task state.
func (e *Engine) AnalyzeCatalog() CatalogReport {
	report := CatalogReport{
		Sheet:        fmt.Sprintf("%.0f×%.0fMM", model.SheetWidthMM, model.SheetHeightMM),
		PatternCount: len(e.patterns),
	}
	if len(e.patterns) > 0 {
		report.BestPattern = e.patterns[0].Name
		report.BestUtilization = e.patterns[0].Utilization
	}
	for _, spec := range e.catalog {
		if spec.MaxPerSheet == 0 {
			continue
		}
		full := spec.Area() * float64(spec.MaxPerSheet) / model.SheetAreaMM2
		count := 0
		for _, p := range e.patterns {
			if _, ok := p.Counts[spec.ID]; ok {
				count++
			}
		}
		report.Sizes = append(report.Sizes, SizeAnalysis{
			Size:            spec.ID,
			Display:         spec.Display(),
			CropWidth:       spec.CropWidth,
			CropHeight:      spec.CropHeight,
			MaxPerSheet:     spec.MaxPerSheet,
			Layout:          fmt.Sprintf("%d×%d", spec.Columns, spec.Rows),
			ItemArea:        spec.Area(),
			FullUtilization: full,
			PatternCount:    count,
		})
	}
	sort.Slice(report.Sizes, func(i, j int) bool {
		return report.Sizes[i].Size < report.Sizes[j].Size
	})
	return report
}

// Analyze scores every candidate combination over the current unplanned pool
// and returns them ranked, without committing anything. Rejected candidates
// are included so an operator can see why a task stays unplanned.
func (e *Engine) Analyze(tasks []model.Task, now time.Time) []model.ScoredCombination {
	var pending []model.Task
	for _, t := range tasks {
		if t.State == model.StateUnplanned {
			pending = append(pending, t)
		}
	}
	var scored []model.ScoredCombination
	for _, group := range GroupCompatible(pending) {
		for _, c := range e.generator.Candidates(group, now) {
			scored = append(scored, Score(c, e.settings, now))
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Critical != scored[j].Critical {
			return scored[i].Critical
		}
		ui, uj := scored[i].Utilization(), scored[j].Utilization()
		if ui != uj {
			return ui > uj
		}
		return scored[i].UrgencySum > scored[j].UrgencySum
	})
	return scored
}
