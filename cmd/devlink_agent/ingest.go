package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mariana/devlink-assistant/internal/db"
	"github.com/mariana/devlink-assistant/internal/postings"
)

var ingestBrowser bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <url>...",
	Short: "Fetch job postings and store them in the database",
	Long: `Fetch one or more job posting URLs, extract the title, company and
description, and store them for later reference in conversations.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestBrowser, "browser", false, "Render JavaScript-heavy pages with a headless browser")
	rootCmd.AddCommand(ingestCmd)
}

// dbPostingStore adapts the database to the ingester's store interface.
type dbPostingStore struct {
	db *db.DB
}

func (s dbPostingStore) SaveJobPosting(ctx context.Context, p *postings.Posting) error {
	_, err := s.db.SaveJobPosting(ctx, p.URL, p.Title, p.Company, p.Description)
	return err
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadOptions()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	logger := newLogger()
	ctx := cmd.Context()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	fetcher := postings.NewFetcher(0, cfg.UseBrowser || ingestBrowser, logger)
	ingester := postings.NewIngester(fetcher, dbPostingStore{db: database}, logger)

	stored := ingester.Ingest(ctx, args)
	for _, p := range stored {
		fmt.Printf("stored: %s (%s)\n", p.Title, p.URL)
	}
	if len(stored) < len(args) {
		return fmt.Errorf("%d of %d postings failed", len(args)-len(stored), len(args))
	}
	return nil
}
