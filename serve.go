package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/api"
	"github.com/TWRT/monday-forms/internal/client/monday"
	"github.com/TWRT/monday-forms/internal/config"
	"github.com/TWRT/monday-forms/internal/events"
	"github.com/TWRT/monday-forms/internal/logging"
	"github.com/TWRT/monday-forms/internal/repository"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook and form server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			settings.HTTPAddr = serveAddr
		}
		return runServe(cmd.Context(), settings)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
}

func runServe(ctx context.Context, s *config.Settings) error {
	if s.MondayToken == "" {
		return errors.New("MONDAY_API_TOKEN is not set")
	}

	logger, err := logging.New(s.LogLevel, s.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	repo, closeRepo, err := openFormRepository(s, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	publisher, err := openPublisher(s, logger)
	if err != nil {
		return err
	}
	defer func() { _ = publisher.Close() }()

	handler, err := api.SetupRouter(api.Dependencies{
		BoardClient:   monday.NewMondayClient(s.MondayAPIURL, s.MondayToken, s.MondayTimeout, logger),
		FormRepo:      repo,
		Configs:       config.NewFormsLoader(s.FormsConfigPath, s.ReadOnly, logger),
		Publisher:     publisher,
		PublicBaseURL: s.PublicBaseURL,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("setup router: %w", err)
	}

	srv := &http.Server{
		Addr:              s.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", s.HTTPAddr),
			zap.String("store", s.StoreDriver),
			zap.Bool("read_only", s.ReadOnly),
			zap.Bool("events", s.NATSURL != ""))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

func openFormRepository(s *config.Settings, logger *zap.Logger) (repository.FormRepository, func(), error) {
	if s.StoreDriver != config.StoreSQLite {
		return repository.NewMemoryFormRepository(), func() {}, nil
	}
	db, err := repository.InitDB(s.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open form store: %w", err)
	}
	logger.Info("sqlite form store ready", zap.String("path", s.DBPath))
	return repository.NewSQLiteFormRepository(db), func() { _ = db.Close() }, nil
}

func openPublisher(s *config.Settings, logger *zap.Logger) (events.Publisher, error) {
	if s.NATSURL == "" {
		return events.NoopPublisher{}, nil
	}
	publisher, err := events.NewNATSPublisher(s.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	logger.Info("publishing form events", zap.String("nats_url", s.NATSURL))
	return publisher, nil
}
