package systems

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/spatial/r2"
)

// MaxLayer is the highest collision layer an obstruction can occupy.
const MaxLayer = 31

// ErrInvalidLayer is returned when an obstruction layer is outside [0, MaxLayer].
var ErrInvalidLayer = errors.New("obstruction layer out of range")

// Obstructions answers whether a straight sight line is blocked.
type Obstructions interface {
	Obstructed(from, to r2.Vec) bool
}

// ObstructionSpace holds static level geometry in a chipmunk space.
// Each shape's filter category is 1<<layer; sight lines skip the ignore layer.
type ObstructionSpace struct {
	space       *cp.Space
	ignoreLayer int
	query       cp.ShapeFilter
	count       int
}

// NewObstructionSpace creates an empty space whose sight lines pass through
// shapes on ignoreLayer. A negative ignoreLayer blocks on every layer.
func NewObstructionSpace(ignoreLayer int) *ObstructionSpace {
	mask := uint(cp.ALL_CATEGORIES)
	if ignoreLayer >= 0 && ignoreLayer <= MaxLayer {
		mask &^= 1 << uint(ignoreLayer)
	}
	return &ObstructionSpace{
		space:       cp.NewSpace(),
		ignoreLayer: ignoreLayer,
		query:       cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, mask),
	}
}

// AddBox adds an axis-aligned box spanning min..max on the given layer.
func (s *ObstructionSpace) AddBox(min, max r2.Vec, layer int) error {
	if layer < 0 || layer > MaxLayer {
		return fmt.Errorf("%w: %d", ErrInvalidLayer, layer)
	}
	if max.X < min.X {
		min.X, max.X = max.X, min.X
	}
	if max.Y < min.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	bb := cp.BB{L: min.X, B: min.Y, R: max.X, T: max.Y}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, 1<<uint(layer), cp.ALL_CATEGORIES))
	s.space.AddShape(shape)
	s.count++
	return nil
}

// Obstructed reports whether the segment from..to hits a shape on any layer
// except the ignore layer. A nil space obstructs nothing.
func (s *ObstructionSpace) Obstructed(from, to r2.Vec) bool {
	if s == nil || s.count == 0 {
		return false
	}
	info := s.space.SegmentQueryFirst(
		cp.Vector{X: from.X, Y: from.Y},
		cp.Vector{X: to.X, Y: to.Y},
		0,
		s.query,
	)
	return info.Shape != nil
}

// Len returns the number of obstruction shapes.
func (s *ObstructionSpace) Len() int {
	if s == nil {
		return 0
	}
	return s.count
}

// IgnoreLayer returns the layer sight lines pass through.
func (s *ObstructionSpace) IgnoreLayer() int {
	return s.ignoreLayer
}
