package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/components"
)

// MovementSystem integrates move intents kinematically.
type MovementSystem struct {
	filter *ecs.Filter5[components.Position, components.Facing, components.Stats, components.Vitals, components.Motion]
}

// NewMovementSystem creates a new movement system.
func NewMovementSystem(w *ecs.World) *MovementSystem {
	return &MovementSystem{
		filter: ecs.NewFilter5[components.Position, components.Facing, components.Stats, components.Vitals, components.Motion](w),
	}
}

// Update moves every live actor by its intent. Intents longer than one are
// normalized so Stats.Speed is the top speed.
func (s *MovementSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, facing, stats, vitals, motion := query.Get()
		if !vitals.Alive {
			continue
		}

		step := r2.Vec{X: motion.X, Y: motion.Y}
		if n := r2.Norm(step); n > 1 {
			step = r2.Scale(1/n, step)
		}
		pos.Set(r2.Add(pos.Vec(), r2.Scale(stats.Speed*dt, step)))

		// Keep the last facing while standing still.
		if motion.X > 0 {
			facing.Right = true
		} else if motion.X < 0 {
			facing.Right = false
		}
	}
}
