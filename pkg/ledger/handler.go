package ledger

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	period, err := ParsePeriod(mux.Vars(r)["period"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bucket := h.service.GetPeriod(r.Context(), period)
	if err := json.NewEncoder(w).Encode(bucket); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	period, err := ParsePeriod(mux.Vars(r)["period"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	overview := h.service.MonthOverview(r.Context(), period)
	if err := json.NewEncoder(w).Encode(overview); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetYearSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}

	summaries := h.service.YearSummary(r.Context(), year)
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetUpcomingFixed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	period, err := ParsePeriod(mux.Vars(r)["period"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	upcoming := h.service.UpcomingFixed(r.Context(), period)
	if err := json.NewEncoder(w).Encode(upcoming); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, "")
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, mux.Vars(r)["itemId"])
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request, editingID string) {
	log.Debug("Upserting ledger item")
	w.Header().Set("Content-Type", "application/json")
	period, err := ParsePeriod(mux.Vars(r)["period"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var item ExpenseItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := h.service.Upsert(r.Context(), period, item, editingID)
	if err != nil {
		if IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	if editingID == "" {
		w.WriteHeader(http.StatusCreated)
	}
	if err := json.NewEncoder(w).Encode(stored); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	h.service.Delete(r.Context(), mux.Vars(r)["itemId"])
	// Deleting an unknown id is a no-op, so deletion always succeeds.
	w.WriteHeader(http.StatusNoContent)
}
