package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GangSheet/internal/model"
)

func testEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func taskByID(tasks []model.Task, id string) model.Task {
	for _, ta := range tasks {
		if ta.ID == id {
			return ta
		}
	}
	return model.Task{}
}

func columnByName(cols []model.LayColumn, name string) model.LayColumn {
	for _, c := range cols {
		if c.Name == name {
			return c
		}
	}
	return model.LayColumn{}
}

func TestEngine_FullColourGangsWithWhiteSingleColour(t *testing.T) {
	e := testEngine(t, Config{})
	now := time.Now()

	fc := task(model.ProductFullColour, "")
	fc.Quantity = 250 // run length never affects the layout
	white := task(model.ProductSingleColour, model.ColorWhite)

	result, err := e.Run([]model.Task{fc, white}, now)
	require.NoError(t, err)

	require.Len(t, result.Gangs, 1)
	gang := result.Gangs[0]
	assert.Equal(t, "LAY-A1", gang.Column)
	assert.Equal(t, "2×A4", gang.Pattern)
	assert.GreaterOrEqual(t, gang.Utilization(), 0.99)

	for _, id := range []string{fc.ID, white.ID} {
		got := taskByID(result.Tasks, id)
		assert.Equal(t, model.StateGanged, got.State)
		assert.Equal(t, "LAY-A1", got.LayColumn)
	}
	assert.Equal(t, 2, result.GangedCount())
	assert.Equal(t, 0, result.UnplannedCount())
}

func TestEngine_ZeroTaskStaysUnplanned(t *testing.T) {
	e := testEngine(t, Config{})
	now := time.Now()

	zero := task(model.ProductZero, "")
	fc := task(model.ProductFullColour, "")
	white := task(model.ProductSingleColour, model.ColorWhite)

	result, err := e.Run([]model.Task{zero, fc, white}, now)
	require.NoError(t, err)

	assert.Equal(t, model.StateUnplanned, taskByID(result.Tasks, zero.ID).State)
	assert.Equal(t, model.StateGanged, taskByID(result.Tasks, fc.ID).State,
		"the others still gang among themselves")
	assert.Equal(t, model.StateGanged, taskByID(result.Tasks, white.ID).State)
}

func TestEngine_RedAndBlueNeverGang(t *testing.T) {
	e := testEngine(t, Config{})
	now := time.Now()

	red := task(model.ProductSingleColour, "red")
	blue := task(model.ProductSingleColour, "blue")

	result, err := e.Run([]model.Task{red, blue}, now)
	require.NoError(t, err)

	assert.Empty(t, result.Gangs, "no combination can be generated")
	assert.Equal(t, 2, result.UnplannedCount())
}

func TestEngine_MetalSilverCostDecision(t *testing.T) {
	now := time.Now()
	metalSet := func(deadline *time.Time) []model.Task {
		tasks := make([]model.Task, 0, 8)
		for i := 0; i < 8; i++ {
			ta := task(model.ProductMetal, model.ColorSilver)
			ta.Size = model.SizeA6
			ta.Deadline = deadline
			tasks = append(tasks, ta)
		}
		return tasks
	}

	// Screens priced so cheap that the sheet waste outweighs them: not cost
	// effective, no deadline, so the full 8×A6 sheet stays unplanned.
	settings := model.DefaultSettings()
	settings.ScreenSetupCost = 0.001
	e := testEngine(t, Config{Settings: settings})

	result, err := e.Run(metalSet(nil), now)
	require.NoError(t, err)
	assert.Empty(t, result.Gangs)
	assert.Equal(t, 8, result.UnplannedCount())

	// A critical deadline overrides cost effectiveness.
	due := now.Add(12 * time.Hour)
	result, err = e.Run(metalSet(&due), now)
	require.NoError(t, err)
	require.Len(t, result.Gangs, 1)
	assert.Equal(t, "8×A6", result.Gangs[0].Pattern)
	assert.Equal(t, 8, result.GangedCount())
	assert.Equal(t, 8, columnByName(result.Columns, "LAY-A1").Occupied,
		"every member task takes one slot of the column")
}

func TestEngine_PassIsIdempotentOnUnplannableInput(t *testing.T) {
	e := testEngine(t, Config{})
	now := time.Now()

	tasks := []model.Task{
		task(model.ProductSingleColour, "red"),
		task(model.ProductSingleColour, "blue"),
		task(model.ProductZero, ""),
	}

	first, err := e.Run(tasks, now)
	require.NoError(t, err)
	second, err := e.Run(first.Tasks, now)
	require.NoError(t, err)

	assert.Equal(t, first.Tasks, second.Tasks, "a no-op pass must not change task state")
	assert.Empty(t, second.Gangs)
}

func TestEngine_GangedTasksAreNotReprocessed(t *testing.T) {
	e := testEngine(t, Config{})
	now := time.Now()

	fc := task(model.ProductFullColour, "")
	white := task(model.ProductSingleColour, model.ColorWhite)

	first, err := e.Run([]model.Task{fc, white}, now)
	require.NoError(t, err)
	require.Len(t, first.Gangs, 1)

	second, err := e.Run(first.Tasks, now)
	require.NoError(t, err)
	assert.Empty(t, second.Gangs, "already ganged tasks stay where they are")
	assert.Equal(t, first.Tasks, second.Tasks)
}

func TestEngine_MultipleGangsWalkColumns(t *testing.T) {
	e := testEngine(t, Config{})
	now := time.Now()

	var tasks []model.Task
	for i := 0; i < 4; i++ {
		tasks = append(tasks, task(model.ProductFullColour, ""))
	}

	result, err := e.Run(tasks, now)
	require.NoError(t, err)

	require.Len(t, result.Gangs, 2)
	assert.Equal(t, "LAY-A1", result.Gangs[0].Column)
	assert.Equal(t, "LAY-A1", result.Gangs[1].Column, "A1 still has free slots for the second gang")
	assert.Equal(t, 4, result.GangedCount())
	assert.Equal(t, 4, columnByName(result.Columns, "LAY-A1").Occupied,
		"two 2-task gangs occupy four slots")
}

func TestEngine_CapacityInvariantHolds(t *testing.T) {
	columns := []model.LayColumn{
		{Name: "LAY-A1", Occupied: 0, Capacity: 2},
		{Name: "LAY-B1", Occupied: 0, Capacity: 2},
	}
	e := testEngine(t, Config{Columns: columns})
	now := time.Now()

	var tasks []model.Task
	for i := 0; i < 6; i++ {
		tasks = append(tasks, task(model.ProductFullColour, ""))
	}

	result, err := e.Run(tasks, now)
	require.NoError(t, err)

	require.Len(t, result.Gangs, 2, "each column holds exactly one 2-task gang")
	assert.Equal(t, "LAY-A1", result.Gangs[0].Column)
	assert.Equal(t, "LAY-B1", result.Gangs[1].Column)
	for _, c := range result.Columns {
		assert.LessOrEqual(t, c.Occupied, c.Capacity)
	}
	assert.Equal(t, 2, columnByName(result.Columns, "LAY-A1").Occupied)
	assert.Equal(t, 2, columnByName(result.Columns, "LAY-B1").Occupied)
	assert.Equal(t, 2, result.UnplannedCount(), "capacity starved tasks remain unplanned")
}

func TestEngine_DefersGangLargerThanColumnCapacity(t *testing.T) {
	e := testEngine(t, Config{Columns: []model.LayColumn{{Name: "LAY-A1", Capacity: 2}}})
	now := time.Now()
	due := now.Add(6 * time.Hour)

	var tasks []model.Task
	for i := 0; i < 8; i++ {
		ta := task(model.ProductMetal, model.ColorSilver)
		ta.Size = model.SizeA6
		ta.Deadline = &due
		tasks = append(tasks, ta)
	}

	result, err := e.Run(tasks, now)
	require.NoError(t, err)

	assert.Empty(t, result.Gangs, "an 8-task gang needs 8 free slots, the column has 2")
	assert.Equal(t, 8, result.UnplannedCount())
	assert.Equal(t, 0, columnByName(result.Columns, "LAY-A1").Occupied)
}

func TestEngine_DeferredGangYieldsToSmallerCandidate(t *testing.T) {
	e := testEngine(t, Config{Columns: []model.LayColumn{{Name: "LAY-A1", Capacity: 2}}})
	now := time.Now()
	due := now.Add(6 * time.Hour)

	var tasks []model.Task
	for i := 0; i < 8; i++ {
		ta := task(model.ProductMetal, model.ColorSilver)
		ta.Size = model.SizeA6
		ta.Deadline = &due
		tasks = append(tasks, ta)
	}
	tasks = append(tasks, task(model.ProductFullColour, ""), task(model.ProductFullColour, ""))

	result, err := e.Run(tasks, now)
	require.NoError(t, err)

	require.Len(t, result.Gangs, 1, "the oversized critical gang defers, the pass continues")
	assert.Equal(t, "2×A4", result.Gangs[0].Pattern)
	assert.Equal(t, 2, columnByName(result.Columns, "LAY-A1").Occupied)
	assert.Equal(t, 8, result.UnplannedCount())
}

func TestEngine_CriticalCombinationRanksFirst(t *testing.T) {
	e := testEngine(t, Config{Columns: []model.LayColumn{{Name: "LAY-A1", Capacity: 2}}})
	now := time.Now()

	due := now.Add(6 * time.Hour)
	urgentRed := task(model.ProductSingleColour, "red")
	urgentRed.Deadline = &due
	red2 := task(model.ProductSingleColour, "red")
	fc1 := task(model.ProductFullColour, "")
	fc2 := task(model.ProductFullColour, "")

	result, err := e.Run([]model.Task{fc1, fc2, urgentRed, red2}, now)
	require.NoError(t, err)

	require.Len(t, result.Gangs, 1, "the column only has room for one 2-task gang")
	ids := result.Gangs[0].TaskIDs()
	assert.Contains(t, ids, urgentRed.ID, "the critical combination wins the last slots")
	assert.Contains(t, ids, red2.ID)
}

func TestEngine_DuplicateTaskIDAbortsPass(t *testing.T) {
	e := testEngine(t, Config{})

	fc := task(model.ProductFullColour, "")
	dup := fc // the same ID twice in the snapshot

	result, err := e.Run([]model.Task{fc, dup}, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDoubleCommit)
	assert.Nil(t, result, "an aborted pass commits nothing")
}

func TestPendingIndex_RefusesCommittedAndUnknownTasks(t *testing.T) {
	ganged := task(model.ProductFullColour, "")
	ganged.State = model.StateGanged
	ganged.LayColumn = "LAY-A1"
	pool := []model.Task{ganged}

	_, err := pendingIndex(pool, ganged.ID)
	assert.ErrorIs(t, err, ErrDoubleCommit)

	_, err = pendingIndex(pool, "not-in-pool")
	assert.ErrorIs(t, err, ErrDoubleCommit)
}

func TestEngine_RejectsInvalidTask(t *testing.T) {
	e := testEngine(t, Config{})
	bad := task(model.ProductSingleColour, "")
	_, err := e.Run([]model.Task{bad}, time.Now())
	require.Error(t, err, "single colour without a color is a configuration fault")
	assert.Equal(t, 1, strings.Count(err.Error(), bad.ID),
		"the task ID appears once, not re-wrapped per layer")
}

func TestEngine_ConfigValidation(t *testing.T) {
	_, err := New(Config{Settings: model.GangSettings{SheetCost: -1, ScreenSetupCost: 1, MinUtilization: 0.9, ColumnCapacity: 1}})
	assert.Error(t, err)

	e, err := New(Config{})
	require.NoError(t, err)
	assert.NotEmpty(t, e.Patterns())
}
