package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/champierre/mappreview/internal/infrastructure/config"
	"github.com/champierre/mappreview/internal/logging"
	"github.com/champierre/mappreview/internal/server"
)

func main() {
	cfg := config.LoadOrDefault()

	// Flags override environment configuration
	port := flag.String("port", cfg.Server.Port, "Server port")
	host := flag.String("host", cfg.Server.Host, "Server host")
	staticDir := flag.String("static", cfg.Preview.StaticDir, "Static resource directory")
	workspaceRoot := flag.String("workspace", cfg.Preview.WorkspaceRoot, "Workspace root to scan for documents")
	settingsPath := flag.String("settings", cfg.Preview.SettingsPath, "Map settings YAML file")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.Preview.StaticDir = *staticDir
	cfg.Preview.WorkspaceRoot = *workspaceRoot
	cfg.Preview.SettingsPath = *settingsPath

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutting down")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
