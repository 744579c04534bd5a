package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item := NewItem("bracket", 40, 25)

	assert.Len(t, item.ID, 8)
	assert.Equal(t, "bracket", item.Label)
	assert.Equal(t, 40.0, item.Width)
	assert.Equal(t, 25.0, item.Length)
	assert.False(t, item.Placed)
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		w, l    float64
		wantErr bool
	}{
		{"valid", 10, 20, false},
		{"zero width", 0, 20, true},
		{"negative length", 10, -5, true},
		{"NaN width", math.NaN(), 20, true},
		{"infinite length", 10, math.Inf(1), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := NewItem("x", tc.w, tc.l)
			err := item.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItem_Accessors(t *testing.T) {
	item := NewItem("x", 3, 7)
	assert.Equal(t, 21.0, item.Area())
	assert.Equal(t, 7.0, item.MaxDimension())

	item.SetPosition(12, 34)
	assert.Equal(t, 12.0, item.X)
	assert.Equal(t, 34.0, item.Y)
	assert.True(t, item.Placed)
}

func TestLayout_Efficiency(t *testing.T) {
	a := NewItem("a", 10, 10)
	a.SetPosition(0, 0)
	b := NewItem("b", 10, 10)

	layout := Layout{
		BinWidth:  20,
		BinLength: 10,
		Items:     []*Item{a, b},
	}

	assert.Equal(t, 1, layout.PlacedCount())
	assert.Equal(t, 100.0, layout.UsedArea())
	assert.Equal(t, 200.0, layout.BinArea())
	assert.InDelta(t, 50.0, layout.Efficiency(), 1e-9)

	empty := Layout{}
	assert.Equal(t, 0.0, empty.Efficiency())
}

func TestProfile_Settings(t *testing.T) {
	p := DefaultProfile()
	s := p.Settings()
	require.Equal(t, 220.0, s.PlateWidth)
	require.Equal(t, 220.0, s.PlateLength)
	assert.Equal(t, 5.0, s.Spacing)
	assert.False(t, s.PlateCircular)

	round := PrinterProfile{
		Name:       "Delta",
		BuildPlate: BuildPlate{Width: 300, Circular: true},
		Spacing:    2,
	}
	s = round.Settings()
	assert.True(t, s.PlateCircular)
	assert.Equal(t, 300.0, s.PlateWidth)
	assert.Equal(t, 300.0, s.PlateLength, "circular plates use the diameter on both axes")
}
