package handlers

import (
	"net/http"
	"warehouse-coverage-service/internal/api/dto"
	"warehouse-coverage-service/internal/finreport"
)

// FinanceHandler analyzes uploaded marketplace finance workbooks. The
// analysis is stateless: nothing from the workbook is persisted.
type FinanceHandler struct{}

func (h *FinanceHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	report, err := finreport.Parse(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "cannot read workbook: file must be XLSX")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FinanceReportResponse{
		PeriodStart: report.PeriodStart,
		PeriodEnd:   report.PeriodEnd,
		Metrics:     report.Metrics,
		Notes:       report.Notes,
	})
}
