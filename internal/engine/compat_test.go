package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GangSheet/internal/model"
)

func task(product model.ProductType, color model.Color) model.Task {
	return model.NewTask("t", product, model.SizeA4, color, 1)
}

func TestCompatible_ZeroIsolated(t *testing.T) {
	zero := task(model.ProductZero, "")
	assert.False(t, Compatible(zero, task(model.ProductFullColour, "")))
	assert.False(t, Compatible(zero, task(model.ProductZero, "")), "two Zero tasks never gang either")
	assert.False(t, Compatible(task(model.ProductSingleColour, model.ColorWhite), zero))
}

func TestCompatible_MetalOnlySilverPairs(t *testing.T) {
	silver := task(model.ProductMetal, model.ColorSilver)
	gold := task(model.ProductMetal, "gold")

	assert.True(t, Compatible(silver, task(model.ProductMetal, model.ColorSilver)))
	assert.False(t, Compatible(silver, gold))
	assert.False(t, Compatible(gold, task(model.ProductMetal, "gold")), "non-silver metal never gangs")
	assert.False(t, Compatible(silver, task(model.ProductFullColour, "")))
	assert.False(t, Compatible(silver, task(model.ProductSingleColour, model.ColorSilver)),
		"metal does not gang with single colour silver")
}

func TestCompatible_FullColourAndSingleColour(t *testing.T) {
	fc := task(model.ProductFullColour, "")
	assert.True(t, Compatible(fc, task(model.ProductFullColour, "")))
	assert.True(t, Compatible(fc, task(model.ProductSingleColour, model.ColorWhite)))
	assert.True(t, Compatible(task(model.ProductSingleColour, model.ColorWhite), fc), "symmetric")
	assert.False(t, Compatible(fc, task(model.ProductSingleColour, "red")))
}

func TestCompatible_SingleColourSameColorOnly(t *testing.T) {
	red := task(model.ProductSingleColour, "red")
	assert.True(t, Compatible(red, task(model.ProductSingleColour, "red")))
	assert.False(t, Compatible(red, task(model.ProductSingleColour, "blue")))
}

func TestPairwiseCompatible(t *testing.T) {
	ok := []model.Task{
		task(model.ProductFullColour, ""),
		task(model.ProductFullColour, ""),
		task(model.ProductSingleColour, model.ColorWhite),
	}
	assert.True(t, PairwiseCompatible(ok))

	bad := append(ok, task(model.ProductSingleColour, "red"))
	assert.False(t, PairwiseCompatible(bad))
}

func TestGroupCompatible(t *testing.T) {
	fc := task(model.ProductFullColour, "")
	white := task(model.ProductSingleColour, model.ColorWhite)
	red := task(model.ProductSingleColour, "red")
	blue := task(model.ProductSingleColour, "blue")
	silver := task(model.ProductMetal, model.ColorSilver)
	gold := task(model.ProductMetal, "gold")
	zero := task(model.ProductZero, "")

	groups := GroupCompatible([]model.Task{fc, white, red, blue, silver, gold, zero})

	// fullcolour, metal:silver, single:blue, single:red. Zero and non-silver
	// metal tasks are dropped entirely.
	require.Len(t, groups, 4)
	for _, g := range groups {
		assert.True(t, PairwiseCompatible(g), "every group must be internally compatible")
	}
	assert.Len(t, groups[0], 2, "full colour group carries the white single colour task")
	assert.Equal(t, fc.ID, groups[0][0].ID)
	assert.Equal(t, white.ID, groups[0][1].ID)
	assert.Equal(t, silver.ID, groups[1][0].ID)
	assert.Equal(t, blue.ID, groups[2][0].ID)
	assert.Equal(t, red.ID, groups[3][0].ID)
}
