package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/models"
)

const maxConfigBody = 4 << 20

// ConfigStore reads and replaces the forms configuration.
type ConfigStore interface {
	Load() models.Config
	Save(cfg models.Config) (persisted bool, err error)
}

type ConfigHandler struct {
	store  ConfigStore
	logger *zap.Logger
}

func NewConfigHandler(store ConfigStore, logger *zap.Logger) *ConfigHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigHandler{store: store, logger: logger.Named("config")}
}

func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Load())
}

func (h *ConfigHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.Config
	if err := json.NewDecoder(io.LimitReader(r.Body, maxConfigBody)).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid configuration: "+err.Error())
		return
	}

	persisted, err := h.store.Save(cfg)
	if err != nil {
		h.logger.Error("save configuration", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save configuration")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Configuration saved successfully",
		"persisted": persisted,
	})
}
