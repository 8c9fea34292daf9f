package fakeapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amiskov/guide-client/pkg/common"
	"github.com/amiskov/guide-client/pkg/logger"
)

const isoLayout = "2006-01-02T15:04:05.000000"

func writeRespJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("fakeapi: can't write response, %v", err)
	}
}

// writeMsg answers like FastAPI's HTTPException: `{"detail": msg}`.
func writeMsg(w http.ResponseWriter, msg string, status int) {
	writeRespJSON(w, status, map[string]string{"detail": msg})
}

func writeEnvelope(w http.ResponseWriter, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		writeMsg(w, "can't encode response", http.StatusInternalServerError)
		return
	}
	writeRespJSON(w, http.StatusOK, common.Envelope{Success: true, Data: raw})
}

func writeRefusal(w http.ResponseWriter, msg string) {
	writeRespJSON(w, http.StatusOK, common.Envelope{Success: false, Message: msg})
}

func parseReqBody(body io.ReadCloser, v any) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// accessLog puts a request-scoped logger into the context and logs every
// handled request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		l := logger.Log(r.Context()).With(zap.String("request_id", reqID))
		ctx := logger.WithLogger(r.Context(), l)

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		l.Infow("fakeapi: handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}
