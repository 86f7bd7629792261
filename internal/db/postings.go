package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// JobPosting represents an ingested job posting row.
type JobPosting struct {
	ID          uuid.UUID
	URL         string
	Title       string
	Company     string
	Description string
	CreatedAt   time.Time
}

// SaveJobPosting upserts a posting by URL, refreshing its extracted content.
func (db *DB) SaveJobPosting(ctx context.Context, url, title, company, description string) (*JobPosting, error) {
	var posting JobPosting
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (url, title, company, description)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (url) DO UPDATE SET title = $2, company = $3, description = $4
		 RETURNING id, url, title, company, description, created_at`,
		url, title, company, description,
	).Scan(&posting.ID, &posting.URL, &posting.Title, &posting.Company, &posting.Description, &posting.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save job posting: %w", err)
	}
	return &posting, nil
}

// GetJobPostingByURL retrieves a posting by URL, or (nil, nil) when absent.
func (db *DB) GetJobPostingByURL(ctx context.Context, url string) (*JobPosting, error) {
	var posting JobPosting
	err := db.pool.QueryRow(ctx,
		`SELECT id, url, title, company, description, created_at
		 FROM job_postings WHERE url = $1`,
		url,
	).Scan(&posting.ID, &posting.URL, &posting.Title, &posting.Company, &posting.Description, &posting.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return &posting, nil
}

// ListJobPostings retrieves recent postings, optionally filtered by company.
func (db *DB) ListJobPostings(ctx context.Context, company string, limit int) ([]JobPosting, error) {
	if limit == 0 {
		limit = 50
	}

	query := `SELECT id, url, title, company, description, created_at
		FROM job_postings WHERE 1=1`
	args := []any{}
	argNum := 1

	if company != "" {
		query += fmt.Sprintf(" AND company ILIKE $%d", argNum)
		args = append(args, "%"+company+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	var postings []JobPosting
	for rows.Next() {
		var p JobPosting
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.Company, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, p)
	}
	return postings, nil
}
