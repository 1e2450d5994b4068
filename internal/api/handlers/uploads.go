package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"warehouse-coverage-service/internal/adapters/ingest"
	"warehouse-coverage-service/internal/api/dto"
	"warehouse-coverage-service/internal/ports"

	"github.com/google/uuid"
)

const maxUploadBytes = 20 << 20

// UploadHandler accepts the two spreadsheet uploads that feed the
// engine: delivery speeds and per-region order volumes. Every accepted
// file is journaled with a fresh upload id.
type UploadHandler struct {
	Repo ports.NetworkRepository
}

func (h *UploadHandler) Speeds(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	observations, err := ingest.ParseSpeeds(filename, data)
	if err != nil {
		h.writeParseError(w, r, err)
		return
	}

	if err := h.Repo.UpsertSpeeds(r.Context(), observations); err != nil {
		log.Printf("store speeds failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.journalAndRespond(w, r, "speeds", filename, len(observations))
}

func (h *UploadHandler) Sales(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	volumes, err := ingest.ParseSales(filename, data)
	if err != nil {
		h.writeParseError(w, r, err)
		return
	}

	if err := h.Repo.ReplaceSales(r.Context(), volumes); err != nil {
		log.Printf("store sales failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.journalAndRespond(w, r, "sales", filename, len(volumes))
}

// readUpload pulls the multipart file out of a POST request. It writes
// the error response itself when the request is unusable.
func (h *UploadHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return "", nil, false
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "file field is required")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("read upload failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return "", nil, false
	}

	return header.Filename, data, true
}

func (h *UploadHandler) writeParseError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ingest.ErrValidation) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("parse upload failed: %v", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func (h *UploadHandler) journalAndRespond(w http.ResponseWriter, r *http.Request, kind, filename string, records int) {
	record := ports.UploadRecord{
		ID:         uuid.NewString(),
		Kind:       kind,
		Filename:   filename,
		UploadedBy: strings.TrimSpace(r.FormValue("uploaded_by")),
		UploadedAt: time.Now().UTC(),
	}
	if err := h.Repo.RecordUpload(r.Context(), record); err != nil {
		log.Printf("journal upload failed: kind=%s file=%s err=%v", kind, filename, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Printf("upload accepted: kind=%s file=%s records=%d upload_id=%s", kind, filename, records, record.ID)
	writeJSON(w, r, http.StatusOK, dto.UploadResponse{UploadID: record.ID, Records: records})
}
