// Package main provides the standalone REST API server for the deck
// composition engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramonehamilton/EDH-Companion/internal/api"
	"github.com/ramonehamilton/EDH-Companion/internal/app"
	"github.com/ramonehamilton/EDH-Companion/internal/config"
	"github.com/ramonehamilton/EDH-Companion/internal/version"
)

var (
	host        = flag.String("host", "", "API server listen address (default from config)")
	port        = flag.Int("port", 0, "API server port (default from config)")
	configPath  = flag.String("config", "", "Path to config file (default: ~/.edh-companion/config.toml)")
	watch       = flag.Bool("watch-config", false, "Reload configuration when the config file changes")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetVersion())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *host != "" {
		cfg.API.Host = *host
	}
	if *port != 0 {
		cfg.API.Port = *port
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Printf("Error closing services: %v", err)
		}
	}()

	server := api.NewServer(&api.Config{
		Host: cfg.API.Host,
		Port: cfg.API.Port,
	}, application.Generator, application.Metrics, application.Logger)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	fmt.Printf("API server running at http://%s:%d\n", cfg.API.Host, cfg.API.Port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *watch && *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, application.Logger, application.ApplyConfig)
			if err != nil && ctx.Err() == nil {
				application.Logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println()
	fmt.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("API server stopped.")
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.LoadFrom(*configPath)
	}
	return config.Load()
}
