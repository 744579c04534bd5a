package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/plateforge/plateforge/internal/model"
)

// ErrPlateOverflow marks a computed bin that does not fit the
// configured build plate.
var ErrPlateOverflow = errors.New("bin exceeds build plate")

// Arranger is the production layer over Packer: it sorts the items,
// applies the configured clearance, packs, verifies the bin against
// the build plate and centers it.
type Arranger struct {
	Settings model.ArrangeSettings
}

func NewArranger(settings model.ArrangeSettings) *Arranger {
	return &Arranger{Settings: settings}
}

// spacedItem presents an item's footprint inflated by the clearance so
// neighbouring objects keep their distance; the inflation is
// compensated when the final position is assigned.
type spacedItem struct {
	item    *model.Item
	spacing float64
}

func (s spacedItem) Width() float64  { return s.item.Width + s.spacing }
func (s spacedItem) Length() float64 { return s.item.Length + s.spacing }

func (s spacedItem) Place(x, y float64) {
	s.item.SetPosition(x+s.spacing/2, y+s.spacing/2)
}

// Arrange packs the items and assigns their final plate positions.
// Items are sorted descending by their larger dimension before packing;
// the input slice order is left untouched. On error the returned layout
// still carries the items so partially assigned state can be inspected.
func (a *Arranger) Arrange(items []*model.Item) (model.Layout, error) {
	layout := model.Layout{
		PlateWidth:  a.Settings.PlateWidth,
		PlateLength: a.Settings.PlateLength,
		Items:       items,
	}
	if len(items) == 0 {
		return layout, nil
	}

	for _, it := range items {
		if err := it.Validate(); err != nil {
			return layout, fmt.Errorf("%w: %v", ErrInvalidItem, err)
		}
	}

	sorted := make([]*model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxDimension() > sorted[j].MaxDimension()
	})

	packables := make([]Packable, len(sorted))
	for i, it := range sorted {
		packables[i] = spacedItem{item: it, spacing: a.Settings.Spacing}
	}

	packer := NewPacker(packables)
	binWidth, binLength, err := packer.Pack()
	if err != nil {
		return layout, err
	}
	layout.BinWidth = binWidth
	layout.BinLength = binLength

	offsetX, offsetY := a.Settings.OffsetX, a.Settings.OffsetY
	if a.Settings.PlateWidth > 0 && a.Settings.PlateLength > 0 {
		if err := a.checkPlateFit(binWidth, binLength); err != nil {
			return layout, err
		}
		offsetX += (a.Settings.PlateWidth - binWidth) / 2
		offsetY += (a.Settings.PlateLength - binLength) / 2
	}
	packer.Arrange(offsetX, offsetY)
	layout.OffsetX = offsetX
	layout.OffsetY = offsetY
	return layout, nil
}

// checkPlateFit verifies the bin fits the plate. Circular plates use
// the bin diagonal against the diameter, the conservative bound for an
// axis-aligned rectangle inside a circle.
func (a *Arranger) checkPlateFit(binWidth, binLength float64) error {
	if a.Settings.PlateCircular {
		diameter := a.Settings.PlateWidth
		if math.Hypot(binWidth, binLength) > diameter {
			return fmt.Errorf("%w: bin %.1f x %.1f mm diagonal exceeds plate diameter %.1f mm",
				ErrPlateOverflow, binWidth, binLength, diameter)
		}
		return nil
	}
	if binWidth > a.Settings.PlateWidth || binLength > a.Settings.PlateLength {
		return fmt.Errorf("%w: bin %.1f x %.1f mm, plate %.1f x %.1f mm",
			ErrPlateOverflow, binWidth, binLength, a.Settings.PlateWidth, a.Settings.PlateLength)
	}
	return nil
}
