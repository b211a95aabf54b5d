package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"grimm.is/fwlens/internal/api"
	"grimm.is/fwlens/internal/config"
	"grimm.is/fwlens/internal/firewall"
	"grimm.is/fwlens/internal/logging"
	"grimm.is/fwlens/internal/poller"
)

// RunServe starts the poller and the HTTP API and blocks until
// SIGINT/SIGTERM.
func RunServe(configFile string) error {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(logCfg)

	interval, err := cfg.Interval()
	if err != nil {
		return err
	}

	var opts []firewall.SourceOption
	var backends []firewall.Backend
	for _, b := range firewall.Backends() {
		if !cfg.BackendEnabled(string(b)) {
			continue
		}
		backends = append(backends, b)
		if bc := cfg.Backend(string(b)); bc != nil {
			opts = append(opts, firewall.WithCommand(b, bc.Command))
			if b == firewall.BackendIptables {
				opts = append(opts, firewall.WithTables(bc.Tables))
			}
		}
	}
	if len(backends) == 0 {
		return errors.New("all backends are disabled in the configuration")
	}

	source := firewall.NewSource(firewall.RealCommandRunner{}, logger, opts...)
	engine := firewall.NewEngine(source, logger, backends)
	store := &poller.Store{}
	poll := poller.New(engine, store, logger, interval)
	server := api.NewServer(store, poll, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go poll.Run(ctx)

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API listening", "addr", cfg.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown failed", "error", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	}
}
