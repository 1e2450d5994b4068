package domain

// RegionChange describes one region whose best delivery time strictly
// improves when a candidate warehouse is activated. Ties are not reported.
type RegionChange struct {
	RegionCode string
	RegionName string
	Weight     float64
	OldTime    TravelTime
	NewTime    TravelTime
}

// Recommendation scores the hypothetical activation of one inactive
// warehouse. It is immutable result data and contains no side effects.
type Recommendation struct {
	WarehouseID   string
	WarehouseName string

	// MarginalAbs is the absolute global-speed gain; never negative,
	// since adding a warehouse cannot worsen any region's best time.
	MarginalAbs float64
	// MarginalPct is the gain relative to the current global speed.
	// Nil when the baseline is 0 and no percentage is defined.
	MarginalPct *float64

	CoverageAfter      float64
	GlobalSpeedCurrent float64

	AvgTimeBefore TravelTime
	AvgTimeAfter  TravelTime
	// AvgTimeDelta is after minus before, in hours. Nil when either side
	// is Unreachable.
	AvgTimeDelta *float64

	// RegionChanges lists strictly improved regions, heaviest demand
	// first, ties by ascending region code.
	RegionChanges []RegionChange
}
