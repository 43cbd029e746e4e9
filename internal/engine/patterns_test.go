package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GangSheet/internal/model"
)

func patternByName(patterns []Pattern, name string) (Pattern, bool) {
	for _, p := range patterns {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

func TestBuildPatternCatalog_MeetsThresholdAndOrder(t *testing.T) {
	patterns := BuildPatternCatalog(model.DefaultCatalog(), 0.99)
	require.NotEmpty(t, patterns)

	for _, p := range patterns {
		assert.GreaterOrEqual(t, p.Utilization, 0.99, "pattern %s", p.Name)
	}
	for i := 1; i < len(patterns); i++ {
		assert.GreaterOrEqual(t, patterns[i-1].Utilization, patterns[i].Utilization,
			"catalog must be ordered best first")
	}
}

func TestBuildPatternCatalog_KnownPatterns(t *testing.T) {
	patterns := BuildPatternCatalog(model.DefaultCatalog(), 0.99)

	for _, name := range []string{
		"2×A4",
		"8×A6",
		"4×A5",
		"24×60×60MM",
		"3×290×140MM",
		"1×A4 + 4×A6",
		"2×A5 + 4×A6",
	} {
		p, ok := patternByName(patterns, name)
		require.True(t, ok, "expected pattern %s in catalog", name)
		assert.GreaterOrEqual(t, p.Utilization, 0.99)
	}

	mixed, ok := patternByName(patterns, "1×A4 + 4×A6")
	require.True(t, ok)
	assert.Equal(t, 5, mixed.Items)
	assert.InDelta(t, 0.99451, mixed.Utilization, 0.0001)
}

func TestBuildPatternCatalog_ExcludesPoorFills(t *testing.T) {
	patterns := BuildPatternCatalog(model.DefaultCatalog(), 0.99)

	for _, name := range []string{"1×A4", "4×A6", "2×A5"} {
		_, ok := patternByName(patterns, name)
		assert.False(t, ok, "partial fill %s should not qualify", name)
	}
	for _, p := range patterns {
		_, hasA3 := p.Counts[model.SizeA3]
		assert.False(t, hasA3, "A3 is never ganged")
	}
}

func TestPatternName(t *testing.T) {
	catalog := model.DefaultCatalog()
	name := PatternName(map[model.SizeID]int{model.SizeA6: 4, model.SizeA4: 1}, catalog)
	assert.Equal(t, "1×A4 + 4×A6", name, "sizes listed in catalog ID order")
}
