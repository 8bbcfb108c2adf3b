package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

const testDT = 0.1

var inside = r2.Vec{X: 1, Y: 1}
var outside = r2.Vec{X: 50, Y: 50}

func zone() Region {
	return Region{Min: r2.Vec{}, Max: r2.Vec{X: 2, Y: 2}}
}

func run(d *IntensityDirector, player r2.Vec, ticks int) float64 {
	for i := 0; i < ticks; i++ {
		d.Update(int32(i), testDT, player)
	}
	return d.Intensity()
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTriggerOnce(t *testing.T) {
	trig := &IntensityTrigger{Region: zone(), TriggersOnce: true, Amount: 0.25}
	d := NewIntensityDirector(0, []*IntensityTrigger{trig})

	if got := run(d, outside, 5); got != 0 {
		t.Fatalf("intensity %v before entry, want 0", got)
	}
	if got := run(d, inside, 10); !near(got, 0.25) {
		t.Errorf("intensity = %v, want 0.25", got)
	}
	if !trig.Destroyed() {
		t.Error("one-shot trigger should destroy itself")
	}
}

func TestTriggerIntervalAndClamp(t *testing.T) {
	trig := &IntensityTrigger{Region: zone(), Amount: 0.3, Interval: 0.25}
	d := NewIntensityDirector(0, []*IntensityTrigger{trig})

	// Modifies at t=0, 0.3 (first tick at or after 0.25), 0.6, 0.9: clamps at 1.
	got := run(d, inside, 10)
	if got != 1 {
		t.Errorf("intensity = %v, want clamp at 1", got)
	}

	neg := &IntensityTrigger{Region: zone(), Amount: -0.5}
	d = NewIntensityDirector(0.2, []*IntensityTrigger{neg})
	if got := run(d, inside, 3); got != 0 {
		t.Errorf("intensity = %v, want clamp at 0", got)
	}
}

func TestTriggerOnlyWhilePlayerIn(t *testing.T) {
	trig := &IntensityTrigger{Region: zone(), Amount: 0.1, OnlyWhilePlayerIn: true}
	d := NewIntensityDirector(0, []*IntensityTrigger{trig})

	run(d, inside, 3)
	after := d.Intensity()
	if !near(after, 0.3) {
		t.Fatalf("intensity = %v after 3 ticks inside, want 0.3", after)
	}
	if got := run(d, outside, 5); got != after {
		t.Errorf("intensity changed to %v while player was out", got)
	}
}

func TestTriggerDestroyAfterLeaving(t *testing.T) {
	trig := &IntensityTrigger{Region: zone(), Amount: 0.1, DestroyAfterPlayerLeaves: true}
	d := NewIntensityDirector(0, []*IntensityTrigger{trig})

	run(d, inside, 2)
	run(d, outside, 1)
	if !trig.Destroyed() {
		t.Fatal("trigger should be destroyed after the player leaves")
	}
	before := d.Intensity()
	if got := run(d, inside, 3); got != before {
		t.Errorf("destroyed trigger changed intensity to %v", got)
	}
}

func TestTriggerDuration(t *testing.T) {
	trig := &IntensityTrigger{
		Region:               zone(),
		Amount:               0.1,
		LastsForDuration:     true,
		Duration:             0.25,
		DestroyAfterDuration: true,
	}
	d := NewIntensityDirector(0, []*IntensityTrigger{trig})

	// Modifies at t=0, 0.1, 0.2 and the expiring tick at 0.3.
	got := run(d, inside, 10)
	if !near(got, 0.4) {
		t.Errorf("intensity = %v, want 0.4", got)
	}
	if !trig.Destroyed() {
		t.Error("trigger should be destroyed after its duration")
	}
}

func TestTriggerDurationFromExit(t *testing.T) {
	trig := &IntensityTrigger{
		Region:           zone(),
		Amount:           0.05,
		LastsForDuration: true,
		DurationFromExit: true,
		Duration:         0.35,
	}
	d := NewIntensityDirector(0, []*IntensityTrigger{trig})

	run(d, inside, 10) // the duration counted from entry ends at t=0.35
	if trig.Active() {
		t.Fatal("duration counted from entry has already run out")
	}
	mid := d.Intensity()

	// Leaving restarts the clock but the trigger is already inactive.
	if got := run(d, outside, 5); got != mid {
		t.Errorf("inactive trigger changed intensity to %v", got)
	}
}

func TestTriggerSignal(t *testing.T) {
	trig := &IntensityTrigger{Region: Region{Min: outside, Max: outside}, Amount: 0.5, TriggersOnce: true}
	d := NewIntensityDirector(0, []*IntensityTrigger{trig})

	if got := run(d, inside, 3); got != 0 {
		t.Fatalf("intensity = %v before signal", got)
	}
	if !trig.TryReceiveSignal("alarm") {
		t.Fatal("first signal should be accepted")
	}
	if trig.TryReceiveSignal("alarm") {
		t.Error("second signal should be refused")
	}
	if got := run(d, inside, 1); got != 0.5 {
		t.Errorf("intensity = %v after signal, want 0.5", got)
	}
}

func TestSensorDrivesTrigger(t *testing.T) {
	trig := &IntensityTrigger{Region: Region{Min: outside, Max: outside}, Amount: 0.2, TriggersOnce: true}
	sensor := NewSensor("gate", zone(), trig)
	d := NewIntensityDirector(0, []*IntensityTrigger{trig})

	sensor.Update(inside)
	d.Update(0, testDT, inside)
	if !near(d.Intensity(), 0.2) {
		t.Errorf("intensity = %v, want 0.2", d.Intensity())
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0}, {0, 0}, {0.5, 0.5}, {1, 1}, {3, 1}, {math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
