package handlers

import (
	"encoding/csv"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"warehouse-coverage-service/internal/api/dto"
	"warehouse-coverage-service/internal/domain"
	"warehouse-coverage-service/internal/ports"
	"warehouse-coverage-service/internal/services"
)

// ReportHandler serves the computed views of the network: the coverage
// report, ranked activation recommendations, single-candidate what-if
// runs and the raw CSV export.
type ReportHandler struct {
	Repo ports.NetworkRepository
}

func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view, active, err := services.NetworkReport(r.Context(), h.Repo)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ReportResponse{
		ActiveWarehouseIDs: active,
		RegionCount:        len(view.Regions),
		WarehouseCount:     len(view.BestByWarehouse),
		GlobalSpeed:        view.GlobalCurrent,
		GlobalSpeedOptimal: view.GlobalOpt,
		CoveragePct:        view.Coverage,
		AvgTimeHours:       hoursPtr(view.AvgTimeCurrent),
	})
}

func (h *ReportHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	topN := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, r, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		topN = parsed
	}

	view, recommendations, err := services.RecommendNext(r.Context(), h.Repo, topN)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	res := dto.RecommendationsResponse{
		CoveragePct:     view.Coverage,
		GlobalSpeed:     view.GlobalCurrent,
		Recommendations: make([]dto.RecommendationResponse, 0, len(recommendations)),
	}
	for _, rec := range recommendations {
		res.Recommendations = append(res.Recommendations, recommendationResponse(rec))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ReportHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	warehouseID := strings.TrimSpace(r.URL.Query().Get("warehouse_id"))
	if warehouseID == "" {
		writeError(w, r, http.StatusBadRequest, "warehouse_id is required")
		return
	}

	rec, err := services.SimulateActivation(r.Context(), h.Repo, warehouseID)
	if err != nil {
		if errors.Is(err, services.ErrNotCandidate) {
			writeError(w, r, http.StatusNotFound, services.ErrNotCandidate.Error())
			return
		}
		h.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, recommendationResponse(*rec))
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	observations, err := h.Repo.Observations(r.Context())
	if err != nil {
		log.Printf("load observations failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	sales, err := h.Repo.Sales(r.Context())
	if err != nil {
		log.Printf("load sales failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	active, err := h.Repo.ActiveIDs(r.Context())
	if err != nil {
		log.Printf("load active set failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="network_export.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"region_code", "region_name", "warehouse_id", "warehouse_name", "time_hours", "orders", "is_active"})
	for _, obs := range observations {
		timeField := ""
		if hours, ok := obs.Time.Hours(); ok {
			timeField = strconv.FormatFloat(hours, 'g', -1, 64)
		}
		ordersField := ""
		if volume, ok := sales[obs.RegionCode]; ok {
			ordersField = strconv.FormatFloat(volume, 'g', -1, 64)
		}
		_, isActive := active[obs.WarehouseID]

		_ = cw.Write([]string{
			obs.RegionCode,
			obs.RegionName,
			obs.WarehouseID,
			obs.WarehouseName,
			timeField,
			ordersField,
			strconv.FormatBool(isActive),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("write export failed: %v", err)
	}
}

func (h *ReportHandler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoSpeedData) {
		writeError(w, r, http.StatusConflict, services.ErrNoSpeedData.Error())
		return
	}
	log.Printf("build network view failed: %v", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func recommendationResponse(rec domain.Recommendation) dto.RecommendationResponse {
	changes := make([]dto.RegionChangeResponse, 0, len(rec.RegionChanges))
	for _, c := range rec.RegionChanges {
		changes = append(changes, dto.RegionChangeResponse{
			RegionCode:   c.RegionCode,
			RegionName:   c.RegionName,
			Weight:       c.Weight,
			OldTimeHours: hoursPtr(c.OldTime),
			NewTimeHours: hoursPtr(c.NewTime),
		})
	}

	return dto.RecommendationResponse{
		WarehouseID:        rec.WarehouseID,
		WarehouseName:      rec.WarehouseName,
		MarginalGainAbs:    rec.MarginalAbs,
		MarginalGainPct:    rec.MarginalPct,
		GlobalSpeedCurrent: rec.GlobalSpeedCurrent,
		CoverageAfterPct:   rec.CoverageAfter,
		AvgTimeBeforeHours: hoursPtr(rec.AvgTimeBefore),
		AvgTimeAfterHours:  hoursPtr(rec.AvgTimeAfter),
		AvgTimeDeltaHours:  rec.AvgTimeDelta,
		RegionChanges:      changes,
	}
}
