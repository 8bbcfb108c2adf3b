package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's world position. +Y is up.
type Position struct {
	X, Y float64
}

// Vec returns the position as a gonum vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Set assigns the position from a gonum vector.
func (p *Position) Set(v r2.Vec) {
	p.X, p.Y = v.X, v.Y
}

// Facing records which way an actor looks.
type Facing struct {
	Right bool
}

// Motion is the move intent chosen this tick, consumed by movement.
type Motion struct {
	X, Y float64
}
