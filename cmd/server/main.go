package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tyrowin/wsecho/internal/config"
	"github.com/Tyrowin/wsecho/internal/logging"
	"github.com/Tyrowin/wsecho/internal/server"
)

func main() {
	cfg, err := config.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting wsecho",
		"addr", cfg.Addr,
		"ws_path", cfg.WSPath,
		"static_dir", cfg.StaticDir,
	)

	srv := server.New(cfg, logger)
	httpServer := server.CreateServer(cfg.Addr, srv.SetupRoutes())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.StartServer(httpServer, logger)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	exitCode := 0
	if err := server.ShutdownServer(httpServer, cfg.ShutdownTimeout, logger); err != nil {
		exitCode = 1
	}
	if err := srv.Registry().Shutdown(cfg.ShutdownTimeout); err != nil {
		logger.Error("websocket shutdown error", "error", err)
		exitCode = 1
	}

	logger.Info("server stopped")
	os.Exit(exitCode)
}
