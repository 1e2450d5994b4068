package domain

import "testing"

func TestTravelTimeZeroValueIsUnreachable(t *testing.T) {
	var zero TravelTime

	if zero.Reachable() {
		t.Fatal("zero value should be unreachable")
	}
	if zero != Unreachable() {
		t.Fatal("zero value should equal Unreachable()")
	}

	// A map miss must behave exactly like a stored unreachable entry.
	times := map[string]TravelTime{}
	if times["missing"].Reachable() {
		t.Fatal("map miss should be unreachable")
	}
	if got := times["missing"].Speed(); got != 0 {
		t.Fatalf("map miss speed = %v, want 0", got)
	}
}

func TestTravelTimeHoursAndSpeed(t *testing.T) {
	tt := TravelHours(8)

	hours, ok := tt.Hours()
	if !ok || hours != 8 {
		t.Fatalf("Hours() = (%v, %v), want (8, true)", hours, ok)
	}
	if got := tt.Speed(); got != 0.125 {
		t.Fatalf("Speed() = %v, want 0.125", got)
	}

	if _, ok := Unreachable().Hours(); ok {
		t.Fatal("unreachable Hours() should report ok=false")
	}
}

func TestTravelTimeFasterThan(t *testing.T) {
	cases := []struct {
		name string
		a, b TravelTime
		want bool
	}{
		{"smaller beats larger", TravelHours(5), TravelHours(10), true},
		{"larger loses to smaller", TravelHours(10), TravelHours(5), false},
		{"equal is not faster", TravelHours(5), TravelHours(5), false},
		{"reachable beats unreachable", TravelHours(100), Unreachable(), true},
		{"unreachable beats nothing", Unreachable(), TravelHours(100), false},
		{"unreachable vs unreachable", Unreachable(), Unreachable(), false},
	}

	for _, tc := range cases {
		if got := tc.a.FasterThan(tc.b); got != tc.want {
			t.Errorf("%s: FasterThan = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTravelTimeMin(t *testing.T) {
	if got := TravelHours(10).Min(TravelHours(5)); got != TravelHours(5) {
		t.Fatalf("Min picked %v, want 5h", got)
	}
	if got := TravelHours(5).Min(Unreachable()); got != TravelHours(5) {
		t.Fatalf("Min picked %v, want 5h", got)
	}
	if got := Unreachable().Min(TravelHours(5)); got != TravelHours(5) {
		t.Fatalf("Min picked %v, want 5h", got)
	}
	if got := Unreachable().Min(Unreachable()); got != Unreachable() {
		t.Fatalf("Min picked %v, want unreachable", got)
	}
}
