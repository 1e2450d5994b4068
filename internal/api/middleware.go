package api

import (
	"log"
	"net/http"
	"time"
	"warehouse-coverage-service/internal/platform/obs"

	"github.com/google/uuid"
)

// statusWriter remembers what actually went down the wire so the access
// log reports the real status and size, not what the handler intended.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

// The first status wins: net/http discards later WriteHeader calls.
func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware writes one access-log line per request. Each request
// gets a short id that repository timings pick up from the context, so
// slow SQL can be matched to the request that triggered it.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := uuid.NewString()[:8]
		r = r.WithContext(obs.WithRequestID(r.Context(), reqID))

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		log.Printf(
			"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			reqID, r.Method, r.URL.RequestURI(), sw.status, sw.bytes, time.Since(start).Milliseconds(),
		)
	})
}
