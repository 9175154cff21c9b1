package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/idcardapp/internal/api"
	"github.com/youruser/idcardapp/internal/holders"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the card rendering HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	renderer, err := newRenderer(cfg, false)
	if err != nil {
		return err
	}

	// Holders are optional; the card endpoint works without them.
	hs, err := holders.LoadHoldersFromDataDir(cfg.Data.Dir)
	if err != nil {
		logger.Warn("failed to load holders at startup", zap.String("dir", cfg.Data.Dir), zap.Error(err))
	}
	dir := holders.NewDirectory(hs)

	if !verbose && !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewEngine(api.NewServer(cfg, renderer, dir, logger)),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.Int("holders", dir.Len()),
			zap.Strings("templates", cfg.TemplateNames()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("received shutdown signal")
	timeout, _ := cfg.GetShutdownTimeout()
	sctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(sctx, timeout)
		defer cancel()
	}
	return srv.Shutdown(sctx)
}
