package domain

// SpeedObservation is one measured delivery time from a warehouse to a
// region. Multiple observations for the same (region, warehouse) pair are
// legal; consumers resolve duplicates by keeping the minimum time.
type SpeedObservation struct {
	RegionCode    string
	RegionName    string
	WarehouseID   string
	WarehouseName string
	Time          TravelTime
}

// SalesVolume is one region's order count, used to derive demand weights.
type SalesVolume struct {
	RegionCode string
	Orders     float64
}
