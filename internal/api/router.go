package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/api/handlers"
	"github.com/TWRT/monday-forms/internal/client"
	"github.com/TWRT/monday-forms/internal/events"
	"github.com/TWRT/monday-forms/internal/models"
	"github.com/TWRT/monday-forms/internal/repository"
	"github.com/TWRT/monday-forms/internal/service"
)

type Dependencies struct {
	BoardClient   client.BoardClient
	FormRepo      repository.FormRepository
	Configs       handlers.ConfigStore
	Publisher     events.Publisher
	PublicBaseURL string
	Logger        *zap.Logger
}

func SetupRouter(deps Dependencies) (http.Handler, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	mapper := service.NewQuestionMapper(logger)
	formService := service.NewFormService(
		deps.BoardClient,
		deps.FormRepo,
		mapper,
		deps.Configs,
		deps.Publisher,
		logger,
	)
	reconciler := service.NewReconciler(
		deps.BoardClient,
		deps.Configs,
		deps.Publisher,
		logger,
	)

	pages, err := handlers.NewPages(logger)
	if err != nil {
		return nil, err
	}

	webhookHandler := handlers.NewWebhookHandler(formService, deps.PublicBaseURL, logger)
	formHandler := handlers.NewFormHandler(formService, reconciler, pages, logger)
	adminHandler := handlers.NewAdminHandler(formService, logger)
	configHandler := handlers.NewConfigHandler(deps.Configs, logger)
	pageHandler := handlers.NewPageHandler(pages)

	for _, formType := range models.FormTypes {
		mux.HandleFunc("POST /form"+string(formType), webhookHandler.Handle(formType))
	}

	mux.HandleFunc("GET /form/{id}", formHandler.DisplayForm)
	mux.HandleFunc("POST /submit_form/{id}", formHandler.SubmitForm)

	mux.HandleFunc("GET /api/config", configHandler.GetConfig)
	mux.HandleFunc("POST /api/config", configHandler.SaveConfig)

	mux.HandleFunc("GET /api/forms", adminHandler.ListForms)
	mux.HandleFunc("GET /api/forms/{id}", adminHandler.GetForm)
	mux.HandleFunc("DELETE /api/forms/{id}", adminHandler.DeleteForm)

	mux.HandleFunc("GET /{$}", pageHandler.Index)
	mux.HandleFunc("GET /health", pageHandler.Health)

	return withRecovery(logger, withRequestLog(logger, mux)), nil
}
