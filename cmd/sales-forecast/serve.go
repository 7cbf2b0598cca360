package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/sales-forecast/internal/config"
	"github.com/iwvelando/sales-forecast/internal/forecast"
	"github.com/iwvelando/sales-forecast/internal/server"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// applyBodySizeOverride replaces the configured request body limit when
// override is set.
func applyBodySizeOverride(srvConf *server.Config, override string) error {
	if override == "" {
		return nil
	}
	size, err := server.ParseSize(override)
	if err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("size must be positive: %q", override)
	}
	srvConf.SetBodySizeBytes(size)
	return nil
}

func runServer(logger *zap.Logger, srvConf *server.Config, runner *forecast.Runner, store *server.Store, loc *time.Location, conf *config.Configuration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if rng, ok := defaultRange(conf, loc); ok {
		if _, err := runner.Refresh(ctx, rng); err != nil {
			logger.Warn("initial forecast failed",
				zap.String("op", "main.runServer"),
				zap.Error(err),
			)
		}
	}

	if srvConf.RefreshSchedule != "" {
		scheduler, err := server.NewScheduler(logger, srvConf.RefreshSchedule, runner)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:              srvConf.Address,
		Handler:           server.NewHandler(logger, runner, store, loc, srvConf.BodySizeBytes(), version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving forecast API",
			zap.String("op", "main.runServer"),
			zap.String("address", srvConf.Address),
			zap.String("refreshSchedule", srvConf.RefreshSchedule),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// defaultRange is the range the server warms up with, if one is configured.
func defaultRange(conf *config.Configuration, loc *time.Location) (datetime.Range, bool) {
	if conf.Range.Start == "" || conf.Range.End == "" {
		return datetime.Range{}, false
	}
	rng, err := conf.DateRange(loc)
	if err != nil {
		return datetime.Range{}, false
	}
	return rng, true
}
