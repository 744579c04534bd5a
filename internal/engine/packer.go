// Package engine implements the build plate packing engine: a binary
// spatial-partition tree that packs axis-aligned 2D footprints into a
// minimal, roughly-square rectangular bin.
package engine

import (
	"errors"
	"fmt"
	"math"
)

// Packable is the read-only footprint view the packer operates on.
// Width spans the X axis, Length the Y axis. Place is invoked exactly
// once per packing run, during Arrange, with the item's final position.
// The packer never owns the underlying object; the reference must stay
// valid for the packer's lifetime.
type Packable interface {
	Width() float64
	Length() float64
	Place(x, y float64)
}

var (
	// ErrInvalidItem marks an item whose footprint is non-positive,
	// infinite or NaN. Packing aborts on the first such item; regions
	// already placed are kept so the caller can inspect partial state.
	ErrInvalidItem = errors.New("invalid item footprint")

	// ErrGrowthFailure marks an item that still does not fit after the
	// bin was grown for it. Fatal for the current pack.
	ErrGrowthFailure = errors.New("bin growth failed to fit item")
)

// node is one region of the spatial tree: a rectangle that is either
// free, occupied by an item, or split into an up and a right child.
// A node owns its children outright; there are no back-pointers and
// a node's rectangle never changes after construction.
type node struct {
	x, y          float64
	width, length float64
	up, right     *node
	item          Packable
}

func (n *node) leaf() bool { return n.up == nil }
func (n *node) full() bool { return n.item != nil }

func (n *node) fits(it Packable) bool {
	return it.Width() <= n.width && it.Length() <= n.length
}

// addItem records the item on this node and splits the leftover space
// into an up strip and a right strip. The right strip advances and
// shrinks by the item's *length*, not its width; this asymmetry is the
// partition convention the packing heuristic has always been built on,
// and switching it to the width changes every bin shape. Leftover
// extents clamp at zero so a degenerate strip simply never fits
// anything.
func (n *node) addItem(it Packable) {
	n.item = it
	n.up = &node{
		x:      n.x,
		y:      n.y + it.Length(),
		width:  n.width,
		length: math.Max(0, n.length-it.Length()),
	}
	n.right = &node{
		x:      n.x + it.Length(),
		y:      n.y,
		width:  math.Max(0, n.width-it.Length()),
		length: n.length,
	}
}

// Packer packs a fixed sequence of items into a single rectangular bin.
// It is single-use: construct, Pack, Arrange, discard. Instances are
// independent; concurrent packs need one Packer each.
//
// Items are packed in the order given. Callers wanting compact,
// deterministic layouts should sort descending by the larger dimension
// first; the Packer itself never reorders.
type Packer struct {
	items []Packable
	root  *node
}

func NewPacker(items []Packable) *Packer {
	return &Packer{items: items}
}

// Pack computes the bin. Every item is searched into the tree, growing
// the bin when no region fits; growth is attempted at most once per
// item. Returns the final bin dimensions. Packing zero items yields a
// (0, 0) bin. Item positions are not assigned here; call Arrange.
func (p *Packer) Pack() (width, length float64, err error) {
	for i, it := range p.items {
		if err := validate(it); err != nil {
			return 0, 0, fmt.Errorf("item %d: %w", i, err)
		}
		if p.root == nil {
			p.root = &node{width: it.Width(), length: it.Length()}
		}
		target := findNode(p.root, it)
		if target == nil {
			p.grow(it)
			target = findNode(p.root, it)
		}
		if target == nil {
			return 0, 0, fmt.Errorf("item %d (%g x %g): %w", i, it.Width(), it.Length(), ErrGrowthFailure)
		}
		target.addItem(it)
	}
	width, length = p.Dimensions()
	return width, length, nil
}

// Dimensions returns the current bin size without re-running anything.
func (p *Packer) Dimensions() (width, length float64) {
	if p.root == nil {
		return 0, 0
	}
	return p.root.width, p.root.length
}

// Arrange walks the tree and assigns every placed item its final
// position, translated by the given plate offset. On an empty tree
// (nothing packed yet, or zero items) it is a no-op.
func (p *Packer) Arrange(offsetX, offsetY float64) {
	translate(p.root, offsetX, offsetY)
}

func validate(it Packable) error {
	w, l := it.Width(), it.Length()
	if w <= 0 || l <= 0 ||
		math.IsInf(w, 0) || math.IsInf(l, 0) ||
		math.IsNaN(w) || math.IsNaN(l) {
		return fmt.Errorf("%w: %g x %g", ErrInvalidItem, w, l)
	}
	return nil
}

// findNode locates a free leaf big enough for the item. The search is
// pure: it never mutates the tree. Recursing right before up is the
// fixed tie-break that keeps identical inputs producing identical
// layouts.
func findNode(n *node, it Packable) *node {
	if n == nil {
		return nil
	}
	if !n.leaf() {
		if found := findNode(n.right, it); found != nil {
			return found
		}
		return findNode(n.up, it)
	}
	if !n.full() && n.fits(it) {
		return n
	}
	return nil
}

// grow enlarges the bin for an item no current region can hold. Both
// growth directions are simulated first, without touching the tree;
// the move whose resulting bin is closer to square wins, and ties go
// to whichever axis is currently shorter.
func (p *Packer) grow(it Packable) {
	upWidth := math.Max(p.root.width, it.Width())
	upLength := p.root.length + it.Length()
	rightWidth := p.root.width + it.Width()
	rightLength := math.Max(p.root.length, it.Length())

	upSkew := math.Abs(upWidth - upLength)
	rightSkew := math.Abs(rightWidth - rightLength)

	switch {
	case rightSkew < upSkew:
		p.growRight(it.Width(), it.Length())
	case upSkew < rightSkew:
		p.growUp(it.Width(), it.Length())
	case p.root.width < p.root.length:
		p.growRight(it.Width(), it.Length())
	default:
		p.growUp(it.Width(), it.Length())
	}
}

// growUp extends the bin along +Y: the old root becomes the right
// child of a taller root and the requested space becomes the up child.
func (p *Packer) growUp(width, length float64) {
	old := p.root
	p.root = &node{
		width:  math.Max(old.width, width),
		length: old.length + length,
		right:  old,
		up: &node{
			y:      old.length,
			width:  width,
			length: length,
		},
	}
}

// growRight extends the bin along +X, mirroring growUp.
func (p *Packer) growRight(width, length float64) {
	old := p.root
	p.root = &node{
		width:  old.width + width,
		length: math.Max(old.length, length),
		up:     old,
		right: &node{
			x:      old.width,
			width:  width,
			length: length,
		},
	}
}

// translate visits every node, free or not, so occupied descendants of
// free regions are still reached. Each occupied node places its item
// exactly once.
func translate(n *node, offsetX, offsetY float64) {
	if n == nil {
		return
	}
	if n.item != nil {
		n.item.Place(n.x+offsetX, n.y+offsetY)
	}
	translate(n.up, offsetX, offsetY)
	translate(n.right, offsetX, offsetY)
}
