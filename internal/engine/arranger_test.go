package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateforge/plateforge/internal/model"
)

func unboundedSettings() model.ArrangeSettings {
	// No plate limits, no clearance: the raw packer result.
	return model.ArrangeSettings{}
}

func TestArranger_Empty(t *testing.T) {
	a := NewArranger(model.DefaultSettings())

	layout, err := a.Arrange(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, layout.BinWidth)
	assert.Equal(t, 0.0, layout.BinLength)
	assert.Equal(t, 0, layout.PlacedCount())
}

func TestArranger_SortsLargestFirst(t *testing.T) {
	small := model.NewItem("small", 2, 3)
	big := model.NewItem("big", 4, 6)
	a := NewArranger(unboundedSettings())

	layout, err := a.Arrange([]*model.Item{small, big})
	require.NoError(t, err)

	// The big item seeds the bin even though it came second.
	assert.Equal(t, 0.0, big.X)
	assert.Equal(t, 0.0, big.Y)
	assert.Equal(t, 4.0, small.X)
	assert.Equal(t, 0.0, small.Y)
	assert.Equal(t, 6.0, layout.BinWidth)
	assert.Equal(t, 6.0, layout.BinLength)

	// Input order is left untouched.
	assert.Equal(t, "small", layout.Items[0].Label)
}

func TestArranger_SpacingAndCentering(t *testing.T) {
	item := model.NewItem("cube", 10, 10)
	a := NewArranger(model.ArrangeSettings{
		Spacing:     2,
		PlateWidth:  220,
		PlateLength: 220,
	})

	layout, err := a.Arrange([]*model.Item{item})
	require.NoError(t, err)

	assert.Equal(t, 12.0, layout.BinWidth)
	assert.Equal(t, 12.0, layout.BinLength)
	assert.Equal(t, 104.0, layout.OffsetX)
	assert.Equal(t, 104.0, layout.OffsetY)

	// Placement compensates the clearance inflation.
	assert.Equal(t, 105.0, item.X)
	assert.Equal(t, 105.0, item.Y)
	assert.True(t, item.Placed)
}

func TestArranger_PlateOverflow(t *testing.T) {
	item := model.NewItem("monolith", 300, 10)
	a := NewArranger(model.ArrangeSettings{PlateWidth: 220, PlateLength: 220})

	_, err := a.Arrange([]*model.Item{item})
	require.ErrorIs(t, err, ErrPlateOverflow)
	assert.False(t, item.Placed)
}

func TestArranger_CircularPlate(t *testing.T) {
	a := NewArranger(model.ArrangeSettings{
		PlateWidth:    100,
		PlateLength:   100,
		PlateCircular: true,
	})

	fits := model.NewItem("discable", 60, 60)
	layout, err := a.Arrange([]*model.Item{fits})
	require.NoError(t, err)
	assert.Equal(t, 20.0, layout.OffsetX)
	assert.Equal(t, 20.0, layout.OffsetY)

	// 60x60 fits a 100 mm circle (diagonal ~84.9) but not an 80 mm one.
	tight := NewArranger(model.ArrangeSettings{
		PlateWidth:    80,
		PlateLength:   80,
		PlateCircular: true,
	})
	_, err = tight.Arrange([]*model.Item{model.NewItem("too-big", 60, 60)})
	require.ErrorIs(t, err, ErrPlateOverflow)
}

func TestArranger_InvalidItem(t *testing.T) {
	bad := model.NewItem("bad", -1, 10)
	a := NewArranger(model.DefaultSettings())

	_, err := a.Arrange([]*model.Item{bad})
	require.ErrorIs(t, err, ErrInvalidItem)
}

func TestArranger_Efficiency(t *testing.T) {
	items := []*model.Item{
		model.NewItem("a", 4, 6),
		model.NewItem("b", 4, 6),
	}
	a := NewArranger(unboundedSettings())

	layout, err := a.Arrange(items)
	require.NoError(t, err)
	assert.Equal(t, 2, layout.PlacedCount())
	assert.InDelta(t, 100.0, layout.Efficiency(), 1e-9)
}
