package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tendermarket/internal/files"
)

// Handler wires storage, the file store and the logger into the HTTP layer.
type Handler struct {
	Store    StorageInterface
	Files    *files.Store
	Log      *zap.Logger
	TokenTTL time.Duration
}

func NewHandler(store StorageInterface, fileStore *files.Store, log *zap.Logger, tokenTTL time.Duration) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Handler{Store: store, Files: fileStore, Log: log, TokenTTL: tokenTTL}
}

// PingHandler answers "ok" for liveness checks.
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Every JSON response uses the same envelope.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

func respondData(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(envelope{Success: false, Error: &apiError{Message: message}})
}

// respondNotFound is the merged "absent or not yours" answer. Ownership
// failures must be indistinguishable from missing rows.
func respondNotFound(w http.ResponseWriter, resource string) {
	respondError(w, http.StatusNotFound, resource+" not found")
}

func (h *Handler) respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	h.Log.Error("internal error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
