package model

// Placement is one item rectangle on the sheet, in mm from the top-left
// corner. TaskID is empty for placements produced by a pure geometry check
// (pattern validation) and set once a combination binds tasks to slots.
type Placement struct {
	TaskID string  `json:"task_id,omitempty"`
	Size   SizeID  `json:"size"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Combination is a candidate gang: a set of mutually compatible tasks bound
// to the slots of one sheet layout. Combinations are ephemeral; only the
// commit outcome (task state and LAY column) survives a pass.
type Combination struct {
	Pattern    string      `json:"pattern"` // human form, e.g. "1×A4 + 4×A6"
	Tasks      []Task      `json:"tasks"`
	Placements []Placement `json:"placements"`
	UsedArea   float64     `json:"used_area"` // mm²
}

// Utilization returns the occupied fraction of the sheet.
func (c Combination) Utilization() float64 {
	return c.UsedArea / SheetAreaMM2
}

// WasteArea returns the unused sheet area in mm².
func (c Combination) WasteArea() float64 {
	return SheetAreaMM2 - c.UsedArea
}

// TaskIDs returns the member task IDs in combination order.
func (c Combination) TaskIDs() []string {
	ids := make([]string, len(c.Tasks))
	for i, t := range c.Tasks {
		ids[i] = t.ID
	}
	return ids
}

// ScreenCount returns the number of distinct (product, color) groups in the
// combination, i.e. the number of screen setups it incurs.
func (c Combination) ScreenCount() int {
	keys := make(map[string]bool, len(c.Tasks))
	for _, t := range c.Tasks {
		keys[t.ScreenKey()] = true
	}
	return len(keys)
}

// ScoredCombination is a combination with its evaluation attached, as ranked
// by the engine's decision policy.
type ScoredCombination struct {
	Combination
	WasteCost     float64 `json:"waste_cost"`
	ScreenCost    float64 `json:"screen_cost"`
	UrgencySum    int     `json:"urgency_sum"`
	Critical      bool    `json:"critical"`
	CostEffective bool    `json:"cost_effective"`
}

// Gang is a committed combination with its assigned LAY column.
type Gang struct {
	Column string `json:"column"`
	ScoredCombination
}

// PassResult is the outcome of one planning pass: the full task set with
// updated states, the committed gangs, and the LAY occupancy after commits.
type PassResult struct {
	Tasks   []Task      `json:"tasks"`
	Gangs   []Gang      `json:"gangs"`
	Columns []LayColumn `json:"columns"`
}

// GangedCount returns the number of tasks committed during the pass.
func (r PassResult) GangedCount() int {
	n := 0
	for _, g := range r.Gangs {
		n += len(g.Tasks)
	}
	return n
}

// UnplannedCount returns the number of tasks still unplanned after the pass.
func (r PassResult) UnplannedCount() int {
	n := 0
	for _, t := range r.Tasks {
		if t.State == StateUnplanned {
			n++
		}
	}
	return n
}
