// Package main is the entry point for the AR viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/arviewer/internal/app"
	"github.com/Faultbox/arviewer/internal/app/desktop"
	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := writeConfig(cfg, path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.JSON); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== AR Viewer ===",
		zap.String("mode", cfg.Session.Mode),
		zap.String("effect", cfg.Session.Effect),
		zap.Bool("headless", cfg.Graphics.Headless))
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

// run drives the frame loop on the calling goroutine, which must stay the main
// one for SDL, while a second goroutine turns signals into a stop.
func run(cfg *config.Config) error {
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	ctx, cancel := context.WithCancel(sigCtx)
	g, ctx := errgroup.WithContext(ctx)

	stoppers := make(chan *app.App, 1)
	g.Go(func() error {
		<-ctx.Done()
		select {
		case a := <-stoppers:
			a.Stop()
		default:
		}
		if sigCtx.Err() != nil {
			logger.Info("signal received, stopping")
		}
		return nil
	})

	onStart := func(a *app.App) { stoppers <- a }

	var err error
	if cfg.Graphics.Headless {
		_, err = app.RunHeadless(ctx, cfg, onStart)
	} else {
		err = desktop.RunWindow(ctx, cfg, onStart)
	}
	cancel()

	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// writeConfig saves cfg to path, or prints it when path is "-".
func writeConfig(cfg *config.Config, path string) error {
	if path == "-" {
		return cfg.Write(os.Stdout)
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("config written to %s\n", path)
	return nil
}
