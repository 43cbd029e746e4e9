package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GangSheet/internal/model"
)

func TestAnalyze_RanksWithoutCommitting(t *testing.T) {
	e := testEngine(t, Config{})
	now := time.Now()

	due := now.Add(6 * time.Hour)
	urgentRed := task(model.ProductSingleColour, "red")
	urgentRed.Deadline = &due
	red2 := task(model.ProductSingleColour, "red")
	fc1 := task(model.ProductFullColour, "")
	fc2 := task(model.ProductFullColour, "")
	tasks := []model.Task{fc1, fc2, urgentRed, red2}

	scored := e.Analyze(tasks, now)

	require.Len(t, scored, 2)
	assert.True(t, scored[0].Critical, "critical candidates rank first")
	assert.Contains(t, scored[0].TaskIDs(), urgentRed.ID)
	assert.False(t, scored[1].Critical)

	for _, s := range scored {
		assert.Positive(t, s.ScreenCost)
		assert.GreaterOrEqual(t, s.Utilization(), 0.99)
	}
	for _, ta := range tasks {
		assert.Equal(t, model.StateUnplanned, ta.State, "analysis never mutates task state")
	}
}

func TestAnalyze_IncludesRejectedCandidates(t *testing.T) {
	settings := model.DefaultSettings()
	settings.ScreenSetupCost = 0.001
	e := testEngine(t, Config{Settings: settings})
	now := time.Now()

	tasks := []model.Task{
		task(model.ProductFullColour, ""),
		task(model.ProductFullColour, ""),
	}
	scored := e.Analyze(tasks, now)

	require.Len(t, scored, 1)
	assert.False(t, scored[0].CostEffective, "rejected candidates still appear for inspection")
}

func TestAnalyzeCatalog(t *testing.T) {
	e := testEngine(t, Config{})
	report := e.AnalyzeCatalog()

	assert.Equal(t, "310×440MM", report.Sheet)
	assert.Positive(t, report.PatternCount)
	assert.NotEmpty(t, report.BestPattern)
	assert.GreaterOrEqual(t, report.BestUtilization, 0.99)

	require.Len(t, report.Sizes, 8, "A3 is excluded, the other eight sizes report")
	bySize := map[model.SizeID]SizeAnalysis{}
	for _, s := range report.Sizes {
		bySize[s.Size] = s
	}

	a6 := bySize[model.SizeA6]
	assert.Equal(t, 8, a6.MaxPerSheet)
	assert.Equal(t, "2×4", a6.Layout)
	assert.InDelta(t, 16956.375, a6.ItemArea, 0.001)
	assert.GreaterOrEqual(t, a6.FullUtilization, 0.99)
	assert.Positive(t, a6.PatternCount)

	small := bySize[model.Size60x60]
	assert.Equal(t, 24, small.MaxPerSheet)
	assert.Equal(t, "4×6", small.Layout)
}
