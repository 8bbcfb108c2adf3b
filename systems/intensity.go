package systems

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"
)

// IntensityTrigger changes the global intensity while it is active.
// It activates when the player enters its region or when it receives a signal.
type IntensityTrigger struct {
	Name   string
	Region Region

	TriggersOnce bool    // modify once, then remove
	Amount       float64 // added to intensity per modification
	Interval     float64 // seconds between modifications

	OnlyWhilePlayerIn        bool
	DestroyAfterPlayerLeaves bool

	LastsForDuration     bool
	DurationFromExit     bool // duration counts from when the player leaves
	DestroyAfterDuration bool
	Duration             float64

	MultipleSignals bool // accept more than one signal

	nextModify      float64
	stopAt          float64
	activated       bool
	present         bool
	active          bool
	destroyed       bool
	signaled        bool
	pendingActivate bool
}

// Destroyed reports whether the trigger has removed itself.
func (t *IntensityTrigger) Destroyed() bool { return t.destroyed }

// Active reports whether the trigger is currently modifying intensity.
func (t *IntensityTrigger) Active() bool { return t.active && !t.destroyed }

// TryReceiveSignal activates the trigger as if the player had entered it.
func (t *IntensityTrigger) TryReceiveSignal(senderID string) bool {
	if t.destroyed {
		return false
	}
	if t.signaled && !t.MultipleSignals {
		return false
	}
	t.signaled = true
	t.pendingActivate = true
	return true
}

func (t *IntensityTrigger) activate(now float64) {
	t.activated = true
	t.active = true
	if t.LastsForDuration {
		t.stopAt = now + t.Duration
	}
}

func (t *IntensityTrigger) enter(now float64) {
	t.present = true
	t.activate(now)
}

func (t *IntensityTrigger) exit(now float64) {
	if t.TriggersOnce || t.DestroyAfterPlayerLeaves {
		t.destroyed = true
	}
	if t.LastsForDuration && t.DurationFromExit {
		t.stopAt = now + t.Duration
	}
	t.present = false
	if t.LastsForDuration && now >= t.stopAt {
		t.active = false
	}
}

// step applies at most one modification and returns the new intensity.
func (t *IntensityTrigger) step(now, intensity float64) float64 {
	if t.destroyed || !t.activated || !t.active || now < t.nextModify {
		return intensity
	}
	if !t.present && t.OnlyWhilePlayerIn {
		return intensity
	}

	intensity = Clamp01(intensity + t.Amount)
	if t.TriggersOnce {
		t.destroyed = true
		return intensity
	}

	t.nextModify = now + t.Interval
	if !t.LastsForDuration || now < t.stopAt {
		return intensity
	}
	if t.DestroyAfterDuration {
		t.destroyed = true
	}
	t.active = false
	return intensity
}

// IntensityDirector owns the global intensity scalar.
type IntensityDirector struct {
	intensity float64
	now       float64
	triggers  []*IntensityTrigger
	script    *IntensityScript
}

// NewIntensityDirector creates a director starting at initial.
func NewIntensityDirector(initial float64, triggers []*IntensityTrigger) *IntensityDirector {
	return &IntensityDirector{intensity: Clamp01(initial), triggers: triggers}
}

// SetScript installs an optional script run after the triggers each tick.
func (d *IntensityDirector) SetScript(s *IntensityScript) {
	d.script = s
}

// Intensity returns the current value in [0,1].
func (d *IntensityDirector) Intensity() float64 { return d.intensity }

// Set overrides the current value.
func (d *IntensityDirector) Set(v float64) { d.intensity = Clamp01(v) }

// Now returns the director clock in seconds.
func (d *IntensityDirector) Now() float64 { return d.now }

// Triggers returns the managed triggers.
func (d *IntensityDirector) Triggers() []*IntensityTrigger { return d.triggers }

// ActiveTriggers counts triggers currently modifying intensity.
func (d *IntensityDirector) ActiveTriggers() int {
	n := 0
	for _, t := range d.triggers {
		if t.Active() {
			n++
		}
	}
	return n
}

// Update advances the clock by dt and returns the new intensity.
func (d *IntensityDirector) Update(tick int32, dt float64, player r2.Vec) float64 {
	for _, t := range d.triggers {
		if t.destroyed {
			continue
		}
		if t.pendingActivate {
			t.pendingActivate = false
			t.activate(d.now)
		}
		inside := t.Region.Contains(player)
		if inside && !t.present {
			t.enter(d.now)
		} else if !inside && t.present {
			t.exit(d.now)
		}
		d.intensity = t.step(d.now, d.intensity)
	}

	if d.script != nil {
		v, err := d.script.Eval(ScriptInputs{
			Tick:      tick,
			Elapsed:   d.now,
			Player:    player,
			Intensity: d.intensity,
		})
		if err != nil {
			slog.Warn("intensity script failed", "tick", tick, "script", d.script.Name(), "error", err)
		} else {
			d.intensity = Clamp01(v)
		}
	}

	d.now += dt
	return d.intensity
}

// Clamp01 clamps v to [0,1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
