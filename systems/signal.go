package systems

import "gonum.org/v1/gonum/spatial/r2"

// Region is an axis-aligned trigger area.
type Region struct {
	Min, Max r2.Vec
}

// Contains reports whether p lies inside the region, edges included.
func (r Region) Contains(p r2.Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Signalable is anything that can react to a sensor signal.
type Signalable interface {
	// TryReceiveSignal returns true if the signal was accepted.
	TryReceiveSignal(senderID string) bool
}

// Sensor signals its receivers when the player enters its region, and
// optionally again when the player leaves.
type Sensor struct {
	ID     string
	Region Region

	TriggersOnce           bool // sensor is spent after the first entry
	ClosesWhenPlayerLeaves bool // also signal on exit

	receivers []Signalable
	present   bool
	spent     bool
	accepted  int
}

// NewSensor creates a sensor wired to its receivers.
func NewSensor(id string, region Region, receivers ...Signalable) *Sensor {
	return &Sensor{ID: id, Region: region, receivers: receivers}
}

// Connect adds a receiver.
func (s *Sensor) Connect(r Signalable) {
	s.receivers = append(s.receivers, r)
}

// Update tracks the player and signals on transitions. Returns the number of
// receivers that accepted a signal this call.
func (s *Sensor) Update(player r2.Vec) int {
	if s.spent {
		return 0
	}
	inside := s.Region.Contains(player)
	sent := 0
	switch {
	case inside && !s.present:
		sent = s.signal()
		if s.TriggersOnce {
			s.spent = true
		}
	case !inside && s.present && s.ClosesWhenPlayerLeaves:
		sent = s.signal()
	}
	s.present = inside
	return sent
}

// Accepted returns the total number of accepted signals.
func (s *Sensor) Accepted() int {
	return s.accepted
}

// Spent reports whether a one-shot sensor has fired.
func (s *Sensor) Spent() bool {
	return s.spent
}

func (s *Sensor) signal() int {
	n := 0
	for _, r := range s.receivers {
		if r.TryReceiveSignal(s.ID) {
			n++
		}
	}
	s.accepted += n
	return n
}
