package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"warehouse-coverage-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// hoursPtr converts a travel time to the nullable hours used on the
// wire: unreachable serializes as null, never as NaN or an infinity.
func hoursPtr(t domain.TravelTime) *float64 {
	if hours, ok := t.Hours(); ok {
		return &hours
	}
	return nil
}
