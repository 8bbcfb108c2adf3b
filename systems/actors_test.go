package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/components"
)

func TestActorRegistryOrderAndRemove(t *testing.T) {
	tw := newTestWorld()
	a := tw.spawn("a", r2.Vec{}, components.Stats{})
	b := tw.spawn("b", r2.Vec{}, components.Stats{})
	c := tw.spawn("c", r2.Vec{}, components.Stats{})

	reg := NewActorRegistry(tw.world)
	reg.RegisterAll([]ecs.Entity{a, b, c, a})
	if reg.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (duplicate ignored)", reg.Len())
	}

	assertOrder(t, reg.AllLive(), a, b, c)

	if !reg.Remove(b) {
		t.Error("first Remove should report true")
	}
	if reg.Remove(b) {
		t.Error("second Remove should be a no-op")
	}
	assertOrder(t, reg.AllLive(), a, c)

	// Re-registration appends at the end.
	reg.Register(b)
	assertOrder(t, reg.AllLive(), a, c, b)
}

func TestActorRegistrySkipsDead(t *testing.T) {
	tw := newTestWorld()
	a := tw.spawn("a", r2.Vec{}, components.Stats{})
	b := tw.spawn("b", r2.Vec{}, components.Stats{})
	c := tw.spawn("c", r2.Vec{}, components.Stats{})

	reg := NewActorRegistry(tw.world)
	reg.RegisterAll([]ecs.Entity{a, b, c})

	tw.vitals.Get(a).Alive = false
	tw.world.RemoveEntity(c)

	assertOrder(t, reg.AllLive(), b)
	if reg.IsLive(a) || reg.IsLive(c) {
		t.Error("dead and removed actors should not be live")
	}
	if !reg.IsLive(b) {
		t.Error("b should be live")
	}
}

func assertOrder(t *testing.T, got []ecs.Entity, want ...ecs.Entity) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d actors, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("actor %d = %v, want %v", i, got[i], want[i])
		}
	}
}
