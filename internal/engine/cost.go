package engine

import (
	"time"

	"github.com/piwi3910/GangSheet/internal/model"
)

// Score fills in the economic and scheduling fields for a packed
// combination. Waste cost prices the unused sheet area at the per-mm² sheet
// rate; screen cost charges one setup per distinct screen key across the
// member tasks. A combination is cost effective when ganging saves more in
// material than it spends on screens.
func Score(c model.Combination, settings model.GangSettings, now time.Time) model.ScoredCombination {
	wasteCost := c.WasteArea() * settings.WasteCostPerMM2()
	screenCost := float64(c.ScreenCount()) * settings.ScreenSetupCost
	return model.ScoredCombination{
		Combination:   c,
		WasteCost:     wasteCost,
		ScreenCost:    screenCost,
		UrgencySum:    UrgencySum(c.Tasks, now),
		Critical:      CombinationCritical(c.Tasks, now),
		CostEffective: wasteCost < screenCost,
	}
}
