package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/setanarut/wrapstudio/config"
	"github.com/setanarut/wrapstudio/internal/logging"
	"github.com/setanarut/wrapstudio/server"
)

// ============================================================
// Wrap Design Service
// ============================================================

func main() {
	configPath := flag.String("config", os.Getenv("WRAPSTUDIO_CONFIG"), "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)
	logging.Set(log)

	app := server.New(cfg, nil)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		if err := server.Shutdown(app); err != nil {
			log.Error("shutdown", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting wrap design service", "addr", addr, "env", cfg.Environment)
	if err := app.Listen(addr); err != nil {
		log.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
