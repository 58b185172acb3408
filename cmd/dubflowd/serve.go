package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dubflow/internal/config"
	"dubflow/internal/engine"
	"dubflow/internal/logging"
	"dubflow/internal/pubsub"
	"dubflow/internal/sheets"
	"dubflow/internal/splitter"
	"dubflow/internal/storage"
	"dubflow/internal/worker"
)

const shutdownGrace = 10 * time.Second

// serve wires the requested roles and blocks until shutdown. The environment
// preflight runs before any listener opens so a misconfigured deployment
// fails fast instead of acknowledging messages it cannot handle.
func serve(parent context.Context, roleValue, configPath, bindOverride string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	role, err := config.ParseRole(roleValue)
	if err != nil {
		return err
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if bindOverride != "" {
		cfg.Server.Bind = bindOverride
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	proc, err := config.FromEnv(role)
	if err != nil {
		return fmt.Errorf("environment preflight: %w", err)
	}

	sheetClient, err := sheets.NewGoogleClient(ctx)
	if err != nil {
		return fmt.Errorf("create sheets client: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	if role == config.RoleSplitter || role == config.RoleBoth {
		publisher, err := pubsub.NewGooglePublisher(ctx, proc.ProjectID, proc.PubSubTopic)
		if err != nil {
			return fmt.Errorf("create publisher: %w", err)
		}
		defer publisher.Close()

		mux.Handle("/splitter", splitter.New(cfg, sheetClient, publisher, logger).Handler())
	}

	if role == config.RoleWorker || role == config.RoleBoth {
		store, err := storage.NewGCSStore(ctx)
		if err != nil {
			return fmt.Errorf("create object store: %w", err)
		}
		defer store.Close()

		factory := engine.NewCLI(engine.WithBinary(cfg.Engine.Binary))
		mux.Handle("/worker", worker.New(cfg, proc, sheetClient, store, factory, logger).Handler())
	}

	server := &http.Server{
		Addr:              cfg.Server.Bind,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("dubflowd listening",
		logging.String("bind", cfg.Server.Bind),
		logging.String("role", string(role)),
		logging.String("deployment", proc.DeploymentName))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	logger.Info("dubflowd shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
