package dto

import "time"

type FinanceReportResponse struct {
	PeriodStart *time.Time         `json:"period_start"`
	PeriodEnd   *time.Time         `json:"period_end"`
	Metrics     map[string]float64 `json:"metrics"`
	Notes       []string           `json:"notes"`
}
