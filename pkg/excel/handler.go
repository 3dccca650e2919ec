package excel

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/smartspend/smartspend/internal/utils"
)

const maxUploadBytes = 16 << 20

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("SmartSpend_백업_%s.xlsx", h.clock.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.Export(r.Context(), w); err != nil {
		if errors.Is(err, ErrNothingToExport) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Errorf("failed to export workbook: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	log.Debug("Importing workbook")
	w.Header().Set("Content-Type", "application/json")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	report, err := h.service.Import(r.Context(), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
