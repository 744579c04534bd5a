// Package model defines the footprint data model shared by the packing
// engine, importers, exporters and persistence layers.
package model

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Item represents one object to arrange on the build plate, reduced to
// its 2D footprint: the width (X axis) and length (Y axis) of its
// bounding box projected onto the plate. Computing the footprint from
// solid geometry is the job of the upstream geometry layer; the model
// only carries the numbers.
type Item struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Width  float64 `json:"width"`  // mm, X axis
	Length float64 `json:"length"` // mm, Y axis

	// Final placement, assigned by the arranger.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Placed bool    `json:"placed"`
}

func NewItem(label string, w, l float64) *Item {
	return &Item{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Length: l,
	}
}

// SetPosition records the item's final location on the build plate.
func (i *Item) SetPosition(x, y float64) {
	i.X = x
	i.Y = y
	i.Placed = true
}

// Area returns the footprint area in square mm.
func (i *Item) Area() float64 {
	return i.Width * i.Length
}

// MaxDimension returns the larger of width and length.
func (i *Item) MaxDimension() float64 {
	return math.Max(i.Width, i.Length)
}

// Validate reports whether the footprint is packable: both dimensions
// must be positive and finite.
func (i *Item) Validate() error {
	if !validDimension(i.Width) || !validDimension(i.Length) {
		return fmt.Errorf("item %q: invalid footprint %g x %g mm", i.Label, i.Width, i.Length)
	}
	return nil
}

func validDimension(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}

// ArrangeSettings holds arranger configuration.
type ArrangeSettings struct {
	Spacing       float64 `json:"spacing"`        // Clearance between footprints in mm
	PlateWidth    float64 `json:"plate_width"`    // Build plate width in mm (0 = unbounded)
	PlateLength   float64 `json:"plate_length"`   // Build plate length in mm (0 = unbounded)
	PlateCircular bool    `json:"plate_circular"` // Circular plate; width doubles as diameter
	OffsetX       float64 `json:"offset_x"`       // Extra X offset applied to every placement
	OffsetY       float64 `json:"offset_y"`       // Extra Y offset applied to every placement
}

func DefaultSettings() ArrangeSettings {
	return ArrangeSettings{
		Spacing:     5.0,
		PlateWidth:  220.0,
		PlateLength: 220.0,
	}
}

// Layout is the result of arranging a set of items: the computed bin,
// the plate it was centered on, and the items with their placements.
type Layout struct {
	PlateWidth  float64 `json:"plate_width"`
	PlateLength float64 `json:"plate_length"`
	BinWidth    float64 `json:"bin_width"`
	BinLength   float64 `json:"bin_length"`
	OffsetX     float64 `json:"offset_x"`
	OffsetY     float64 `json:"offset_y"`
	Items       []*Item `json:"items"`
}

// UsedArea returns the total footprint area of all placed items.
func (l Layout) UsedArea() float64 {
	var total float64
	for _, it := range l.Items {
		if it.Placed {
			total += it.Area()
		}
	}
	return total
}

// BinArea returns the area of the computed bin.
func (l Layout) BinArea() float64 {
	return l.BinWidth * l.BinLength
}

// Efficiency returns the bin usage percentage.
func (l Layout) Efficiency() float64 {
	ba := l.BinArea()
	if ba == 0 {
		return 0
	}
	return (l.UsedArea() / ba) * 100.0
}

// PlacedCount returns the number of items with an assigned position.
func (l Layout) PlacedCount() int {
	n := 0
	for _, it := range l.Items {
		if it.Placed {
			n++
		}
	}
	return n
}

// Project ties everything together for save/load.
type Project struct {
	Name     string          `json:"name"`
	Items    []*Item         `json:"items"`
	Settings ArrangeSettings `json:"settings"`
	Layout   *Layout         `json:"layout,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Items:    []*Item{},
		Settings: DefaultSettings(),
	}
}
