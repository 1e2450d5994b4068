package dto

type WarehouseResponse struct {
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Active        bool   `json:"active"`
}

type ListWarehousesResponse struct {
	Warehouses []WarehouseResponse `json:"warehouses"`
}

type ActiveResponse struct {
	ActiveWarehouseIDs []string `json:"active_warehouse_ids"`
}

type SetActiveRequest struct {
	WarehouseIDs []string `json:"warehouse_ids"`
}

type AddActiveRequest struct {
	WarehouseID string `json:"warehouse_id"`
}

type UploadResponse struct {
	UploadID string `json:"upload_id"`
	Records  int    `json:"records"`
}

type ReportResponse struct {
	ActiveWarehouseIDs []string `json:"active_warehouse_ids"`
	RegionCount        int      `json:"region_count"`
	WarehouseCount     int      `json:"warehouse_count"`
	GlobalSpeed        float64  `json:"global_speed"`
	GlobalSpeedOptimal float64  `json:"global_speed_optimal"`
	CoveragePct        float64  `json:"coverage_pct"`
	AvgTimeHours       *float64 `json:"avg_time_hours"`
}

type RegionChangeResponse struct {
	RegionCode   string   `json:"region_code"`
	RegionName   string   `json:"region_name"`
	Weight       float64  `json:"weight"`
	OldTimeHours *float64 `json:"old_time_hours"`
	NewTimeHours *float64 `json:"new_time_hours"`
}

type RecommendationResponse struct {
	WarehouseID        string                 `json:"warehouse_id"`
	WarehouseName      string                 `json:"warehouse_name"`
	MarginalGainAbs    float64                `json:"marginal_gain_abs"`
	MarginalGainPct    *float64               `json:"marginal_gain_pct"`
	GlobalSpeedCurrent float64                `json:"global_speed_current"`
	CoverageAfterPct   float64                `json:"coverage_after_pct"`
	AvgTimeBeforeHours *float64               `json:"avg_time_before_hours"`
	AvgTimeAfterHours  *float64               `json:"avg_time_after_hours"`
	AvgTimeDeltaHours  *float64               `json:"avg_time_delta_hours"`
	RegionChanges      []RegionChangeResponse `json:"region_changes"`
}

type RecommendationsResponse struct {
	CoveragePct     float64                  `json:"coverage_pct"`
	GlobalSpeed     float64                  `json:"global_speed"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}
