package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"warehouse-coverage-service/internal/api/dto"
	"warehouse-coverage-service/internal/ports"
)

// ActiveHandler manages the set of currently rented warehouses. All
// mutations answer with the resulting set so clients never need a
// follow-up read.
type ActiveHandler struct {
	Repo ports.NetworkRepository
}

func (h *ActiveHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPut:
		h.replace(w, r)
	case http.MethodPost:
		h.add(w, r)
	case http.MethodDelete:
		h.remove(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT, POST, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *ActiveHandler) list(w http.ResponseWriter, r *http.Request) {
	h.writeActive(w, r, http.StatusOK)
}

func (h *ActiveHandler) replace(w http.ResponseWriter, r *http.Request) {
	var req dto.SetActiveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ids := make([]string, 0, len(req.WarehouseIDs))
	for _, id := range req.WarehouseIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			writeError(w, r, http.StatusBadRequest, "warehouse_ids must not contain blank entries")
			return
		}
		ids = append(ids, id)
	}

	known, err := h.knownWarehouses(r)
	if err != nil {
		log.Printf("load warehouse roster failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			writeError(w, r, http.StatusNotFound, "unknown warehouse: "+id)
			return
		}
	}

	if err := h.Repo.SetActive(r.Context(), ids); err != nil {
		log.Printf("replace active set failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeActive(w, r, http.StatusOK)
}

func (h *ActiveHandler) add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddActiveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := strings.TrimSpace(req.WarehouseID)
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "warehouse_id is required")
		return
	}

	known, err := h.knownWarehouses(r)
	if err != nil {
		log.Printf("load warehouse roster failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if _, ok := known[id]; !ok {
		writeError(w, r, http.StatusNotFound, "unknown warehouse: "+id)
		return
	}

	if err := h.Repo.AddActive(r.Context(), id); err != nil {
		log.Printf("add active warehouse failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeActive(w, r, http.StatusOK)
}

func (h *ActiveHandler) remove(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("warehouse_id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "warehouse_id is required")
		return
	}

	if err := h.Repo.RemoveActive(r.Context(), id); err != nil {
		log.Printf("remove active warehouse failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeActive(w, r, http.StatusOK)
}

func (h *ActiveHandler) writeActive(w http.ResponseWriter, r *http.Request, status int) {
	active, err := h.Repo.ActiveIDs(r.Context())
	if err != nil {
		log.Printf("load active set failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	ids := make([]string, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	writeJSON(w, r, status, dto.ActiveResponse{ActiveWarehouseIDs: ids})
}

// knownWarehouses returns the roster as a lookup set. The SQLite build
// does not enforce the foreign key on active_warehouses, so membership
// is checked here to keep both backends behaving the same.
func (h *ActiveHandler) knownWarehouses(r *http.Request) (map[string]struct{}, error) {
	warehouses, err := h.Repo.ListWarehouses(r.Context())
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(warehouses))
	for _, wh := range warehouses {
		known[wh.WarehouseID] = struct{}{}
	}
	return known, nil
}

// decodeBody reads a single JSON object request body, rejecting unknown
// fields and trailing content. It writes the 400 itself and reports
// whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}
