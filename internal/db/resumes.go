package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mariana/devlink-assistant/internal/types"
)

// Resume represents a finalized resume row.
type Resume struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Record    types.ConversationRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveResume upserts the finalized record for a user: one resume per user,
// last save wins.
func (db *DB) SaveResume(ctx context.Context, userID uuid.UUID, record types.ConversationRecord) (*Resume, error) {
	content, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	var resume Resume
	var raw []byte
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, content)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET content = $2, updated_at = NOW()
		 RETURNING id, user_id, content, created_at, updated_at`,
		userID, content,
	).Scan(&resume.ID, &resume.UserID, &raw, &resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}

	if err := json.Unmarshal(raw, &resume.Record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume: %w", err)
	}
	return &resume, nil
}

// GetResumeByUser retrieves a user's finalized resume, or (nil, nil) when
// none was saved yet.
func (db *DB) GetResumeByUser(ctx context.Context, userID uuid.UUID) (*Resume, error) {
	var resume Resume
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, content, created_at, updated_at
		 FROM resumes WHERE user_id = $1`,
		userID,
	).Scan(&resume.ID, &resume.UserID, &raw, &resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if err := json.Unmarshal(raw, &resume.Record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume: %w", err)
	}
	return &resume, nil
}

// DeleteResume removes a user's finalized resume.
func (db *DB) DeleteResume(ctx context.Context, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found for user: %s", userID)
	}
	return nil
}

// InterviewResult represents a completed interview round.
type InterviewResult struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Topic         string
	TotalScore    int
	QuestionCount int
	CreatedAt     time.Time
}

// SaveInterviewResult stores the score of a completed interview round.
func (db *DB) SaveInterviewResult(ctx context.Context, userID uuid.UUID, topic string, totalScore, questionCount int) (*InterviewResult, error) {
	var result InterviewResult
	err := db.pool.QueryRow(ctx,
		`INSERT INTO interview_results (user_id, topic, total_score, question_count)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, topic, total_score, question_count, created_at`,
		userID, topic, totalScore, questionCount,
	).Scan(&result.ID, &result.UserID, &result.Topic, &result.TotalScore, &result.QuestionCount, &result.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save interview result: %w", err)
	}
	return &result, nil
}

// ListInterviewResults retrieves a user's interview history, newest first.
func (db *DB) ListInterviewResults(ctx context.Context, userID uuid.UUID, limit int) ([]InterviewResult, error) {
	if limit == 0 {
		limit = 20
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, topic, total_score, question_count, created_at
		 FROM interview_results WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview results: %w", err)
	}
	defer rows.Close()

	var results []InterviewResult
	for rows.Next() {
		var r InterviewResult
		if err := rows.Scan(&r.ID, &r.UserID, &r.Topic, &r.TotalScore, &r.QuestionCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview result: %w", err)
		}
		results = append(results, r)
	}
	return results, nil
}
