package handlers

import (
	"net/http"

	"github.com/TWRT/monday-forms/internal/models"
)

type PageHandler struct {
	pages *Pages
}

func NewPageHandler(pages *Pages) *PageHandler {
	return &PageHandler{pages: pages}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, http.StatusOK, pageIndex, models.FormTypes)
}

func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
