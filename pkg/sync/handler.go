package sync

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	coordinator *Coordinator
}

func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.coordinator.Report()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ResetData wipes all budget data. The wipe itself always succeeds locally;
// the response reports whether it also reached the remote store.
func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.coordinator.Reset(r.Context()); err != nil {
		log.Errorf("Reset could not reach the remote store: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if err := json.NewEncoder(w).Encode(h.coordinator.Report()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) SyncNow(w http.ResponseWriter, r *http.Request) {
	log.Debug("Manual sync requested")
	w.Header().Set("Content-Type", "application/json")

	if err := h.coordinator.SyncNow(r.Context()); err != nil {
		log.Errorf("Manual sync failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if err := json.NewEncoder(w).Encode(h.coordinator.Report()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
