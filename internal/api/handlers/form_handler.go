package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/repository"
	"github.com/TWRT/monday-forms/internal/service"
)

type FormHandler struct {
	formService *service.FormService
	reconciler  *service.Reconciler
	pages       *Pages
	logger      *zap.Logger
}

func NewFormHandler(formService *service.FormService, reconciler *service.Reconciler, pages *Pages, logger *zap.Logger) *FormHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormHandler{
		formService: formService,
		reconciler:  reconciler,
		pages:       pages,
		logger:      logger.Named("form"),
	}
}

func (h *FormHandler) DisplayForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	form, err := h.formService.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, repository.ErrFormNotFound) {
			h.logger.Error("load form", zap.String("form_id", id), zap.Error(err))
		}
		writeText(w, http.StatusNotFound, "Form not found")
		return
	}
	h.pages.Render(w, http.StatusOK, pageForm, form)
}

// SubmitForm writes the answers back to the destination board and always
// shows the success page once the form exists; write-back failures are only
// logged because the respondent cannot retry.
func (h *FormHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	form, err := h.formService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			writeText(w, http.StatusNotFound, "Form not found")
			return
		}
		h.logger.Error("load form", zap.String("form_id", id), zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Error submitting form")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Error("parse submission", zap.String("form_id", id), zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Error submitting form")
		return
	}
	answers := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		answers[key] = r.PostForm.Get(key)
	}
	h.logger.Info("form submitted", zap.String("form_id", id), zap.Int("answers", len(answers)))

	outcome := h.reconciler.Reconcile(r.Context(), form, answers)
	if outcome.Err != nil {
		h.logger.Warn("submission not fully written back", zap.String("form_id", id), zap.Error(outcome.Err))
	}

	h.pages.Render(w, http.StatusOK, pageSuccess, form)
}
