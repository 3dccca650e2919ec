package category

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type categoryRequest struct {
	Name string `json:"name"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.service.List(r.Context())); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating category")
	w.Header().Set("Content-Type", "application/json")

	var body categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), body.Name)
	if err != nil {
		writeCategoryError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Renaming category")
	w.Header().Set("Content-Type", "application/json")

	var body categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	renamed, rewritten, err := h.service.Rename(r.Context(), mux.Vars(r)["categoryId"], body.Name)
	if err != nil {
		writeCategoryError(w, err)
		return
	}

	response := struct {
		Category
		RewrittenItems int `json:"rewrittenItems"`
	}{Category: renamed, RewrittenItems: rewritten}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reassigned, ok := h.service.Delete(r.Context(), mux.Vars(r)["categoryId"])
	if !ok {
		http.Error(w, ErrCategoryNotFound.Error(), http.StatusNotFound)
		return
	}

	response := struct {
		ReassignedItems int `json:"reassignedItems"`
	}{ReassignedItems: reassigned}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Reorder(r.Context(), body.IDs); err != nil {
		writeCategoryError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(h.service.List(r.Context())); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDuplicateCategory), errors.Is(err, ErrEmptyName), errors.Is(err, ErrInvalidOrder):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
