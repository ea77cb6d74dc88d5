package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/repository"
	"github.com/TWRT/monday-forms/internal/service"
)

type AdminHandler struct {
	formService *service.FormService
	logger      *zap.Logger
}

func NewAdminHandler(formService *service.FormService, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{formService: formService, logger: logger.Named("admin")}
}

func (h *AdminHandler) ListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.formService.List(r.Context())
	if err != nil {
		h.logger.Error("list forms", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to list forms")
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *AdminHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	form, err := h.formService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			writeError(w, http.StatusNotFound, "Form not found")
			return
		}
		h.logger.Error("get form", zap.String("form_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load form")
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *AdminHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.formService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			writeError(w, http.StatusNotFound, "Form not found")
			return
		}
		h.logger.Error("delete form", zap.String("form_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete form")
		return
	}
	h.logger.Info("form deleted", zap.String("form_id", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Form deleted successfully"})
}
