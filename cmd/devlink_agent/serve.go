package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mariana/devlink-assistant/internal/server"
)

var (
	servePort    string
	serveBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing the guided resume conversation, interview simulator and job posting endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default 8080)")
	serveCmd.Flags().BoolVar(&serveBrowser, "browser", false, "Render JavaScript-heavy posting pages with a headless browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadOptions()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	apiKey, err := requireAPIKey(cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(cmd.Context(), server.Config{
		Port:          cfg.Port,
		DatabaseURL:   cfg.DatabaseURL,
		RedisURL:      cfg.RedisURL,
		APIKey:        apiKey,
		Model:         cfg.Model,
		DraftDebounce: cfg.DraftDebounce(),
		UseBrowser:    cfg.UseBrowser || serveBrowser,
	}, newLogger())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
