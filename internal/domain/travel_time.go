package domain

// TravelTime is a delivery duration in hours, or the explicit
// "unreachable" state for a region a warehouse cannot serve at all.
// The zero value is Unreachable, so looking up a region that has no
// entry in a map[string]TravelTime yields the correct sentinel instead
// of a bogus zero-hour trip.
type TravelTime struct {
	hours   float64
	defined bool
}

// TravelHours returns a reachable travel time of the given number of hours.
// Observation times are validated to be positive before they are stored;
// derived values (weighted averages) may legitimately be zero.
func TravelHours(hours float64) TravelTime {
	return TravelTime{hours: hours, defined: true}
}

// Unreachable returns the sentinel for "no valid delivery time".
func Unreachable() TravelTime { return TravelTime{} }

// Reachable reports whether a delivery time exists.
func (t TravelTime) Reachable() bool { return t.defined }

// Hours returns the duration and whether it is defined. Unreachable
// times report (0, false); the zero must not be used as a real duration.
func (t TravelTime) Hours() (float64, bool) { return t.hours, t.defined }

// Speed is the reciprocal-time contribution used by the global speed
// metric: 1/hours when reachable, 0 when not. An unreachable region is
// down-weighted implicitly because it scores 0 instead of negative.
func (t TravelTime) Speed() float64 {
	if !t.defined {
		return 0
	}
	return 1 / t.hours
}

// FasterThan reports whether t is a strict improvement over other.
// Any reachable time beats Unreachable; Unreachable beats nothing.
func (t TravelTime) FasterThan(other TravelTime) bool {
	if !t.defined {
		return false
	}
	if !other.defined {
		return true
	}
	return t.hours < other.hours
}

// Min returns the faster of t and other, preferring t on exact ties.
func (t TravelTime) Min(other TravelTime) TravelTime {
	if other.FasterThan(t) {
		return other
	}
	return t
}
