package model

import "fmt"

// GangSettings holds the cost and policy constants for one planning pass.
// The struct is passed into the engine at construction and never mutated;
// there is no ambient configuration state.
type GangSettings struct {
	// SheetCost is the material cost of one full sheet. Waste cost is the
	// unused fraction of the sheet priced at this rate.
	SheetCost float64 `json:"sheet_cost"`

	// ScreenSetupCost is the fixed cost of preparing one screen/run. A
	// combination incurs it once per distinct (product, color) group.
	ScreenSetupCost float64 `json:"screen_setup_cost"`

	// MinUtilization is the utilization floor for the curated pattern
	// catalog. Patterns packing below it are not considered viable.
	MinUtilization float64 `json:"min_utilization"`

	// ColumnCapacity is the task capacity of each LAY column.
	ColumnCapacity int `json:"column_capacity"`
}

func DefaultSettings() GangSettings {
	return GangSettings{
		SheetCost:       2.0,
		ScreenSetupCost: 50.0,
		MinUtilization:  0.99,
		ColumnCapacity:  DefaultColumnCapacity,
	}
}

// WasteCostPerMM2 returns the cost of one mm² of unused sheet area.
func (s GangSettings) WasteCostPerMM2() float64 {
	return s.SheetCost / SheetAreaMM2
}

// Validate rejects settings the engine cannot plan with.
func (s GangSettings) Validate() error {
	if s.SheetCost < 0 || s.ScreenSetupCost < 0 {
		return fmt.Errorf("cost constants must not be negative")
	}
	if s.MinUtilization <= 0 || s.MinUtilization > 1 {
		return fmt.Errorf("minimum utilization %.3f must be in (0, 1]", s.MinUtilization)
	}
	if s.ColumnCapacity < 1 {
		return fmt.Errorf("column capacity must be at least 1, got %d", s.ColumnCapacity)
	}
	return nil
}
