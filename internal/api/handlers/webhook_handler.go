package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/models"
	"github.com/TWRT/monday-forms/internal/service"
)

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	formService   *service.FormService
	publicBaseURL string
	logger        *zap.Logger
}

func NewWebhookHandler(formService *service.FormService, publicBaseURL string, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		formService:   formService,
		publicBaseURL: publicBaseURL,
		logger:        logger.Named("webhook"),
	}
}

// Handle returns the webhook endpoint for one form type.
func (h *WebhookHandler) Handle(formType models.FormType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			h.logger.Error("read webhook body", zap.Error(err))
			writeError(w, http.StatusBadRequest, "Could not read request body")
			return
		}

		result, err := h.formService.GenerateForm(r.Context(), formType, raw, PublicBaseURL(r, h.publicBaseURL))
		if err != nil {
			if errors.Is(err, service.ErrInvalidWebhook) || errors.Is(err, service.ErrConfigIncomplete) {
				h.logger.Warn("webhook rejected", zap.String("form_type", string(formType)), zap.Error(err))
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			h.logger.Error("handle webhook", zap.String("form_type", string(formType)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if result.Challenge != nil {
			// Echoed byte for byte; the platform compares the body verbatim.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"challenge":`))
			_, _ = w.Write(result.Challenge)
			_, _ = w.Write([]byte(`}`))
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"message":  result.Message,
			"form_id":  result.FormID,
			"form_url": result.FormURL,
		})
	}
}
