// Command calcd runs the calculator API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MathHub-Labs/calc-service/internal/app/runtime"
	"github.com/MathHub-Labs/calc-service/internal/config"
	"github.com/MathHub-Labs/calc-service/pkg/logger"
)

func main() {
	log := logger.NewDefault("main")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("failed to load configuration")
		os.Exit(1)
	}

	app, err := runtime.New(cfg)
	if err != nil {
		log.WithError(err).Error("failed to build application")
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server failed")
			os.Exit(1)
		}
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			log.WithError(err).Error("shutdown failed")
			os.Exit(1)
		}
	}
}
