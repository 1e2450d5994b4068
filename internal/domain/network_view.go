package domain

// NetworkView is the consolidated picture of the delivery network derived
// from raw speed observations, the active warehouse set and sales volumes.
// It is rebuilt from scratch on every query, never cached or incrementally
// updated, and holds no identity beyond a single call.
type NetworkView struct {
	// Regions holds every observed region code in ascending order.
	// Metric folds iterate this slice so every numeric result is
	// independent of map iteration order.
	Regions []string

	RegionNames    map[string]string
	WarehouseNames map[string]string

	// BestAll is the minimum delivery time per region across every
	// warehouse in the network.
	BestAll map[string]TravelTime
	// BestActive is the minimum per region across active warehouses only.
	// Regions no active warehouse serves are absent, which reads as
	// Unreachable.
	BestActive map[string]TravelTime
	// BestByWarehouse is each warehouse's own best time per region.
	BestByWarehouse map[string]map[string]TravelTime

	// Weights is each region's share of demand. Sums to 1 whenever at
	// least one region was observed.
	Weights map[string]float64

	// GlobalCurrent and GlobalOpt are the weighted reciprocal-time speed
	// scalars for the active set and for the whole network.
	GlobalCurrent float64
	GlobalOpt     float64
	// Coverage is GlobalCurrent relative to GlobalOpt as a percentage,
	// 0 when the optimal speed itself is 0.
	Coverage float64
	// AvgTimeCurrent is the weighted average delivery time of the active
	// set; Unreachable when any positively weighted region is unserved.
	AvgTimeCurrent TravelTime
}
