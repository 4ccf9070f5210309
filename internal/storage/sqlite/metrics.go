package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/animus/internal/core"
)

type MetricsRepo struct {
	db *sql.DB
}

func NewMetricsRepo(db *sql.DB) *MetricsRepo {
	return &MetricsRepo{db: db}
}

func (r *MetricsRepo) RecordMetric(ctx context.Context, personalityID, messageID int64, scores core.DimensionScores) error {
	var role string
	err := r.db.QueryRowContext(ctx, `SELECT role FROM messages WHERE id = ?`, messageID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return &core.PersistenceError{Op: "record metric", Err: fmt.Errorf("unknown message %d: %w", messageID, err)}
	}
	if err != nil {
		return &core.PersistenceError{Op: "record metric", Err: err}
	}
	if role != core.RoleAssistant {
		return &core.PersistenceError{Op: "record metric", Err: fmt.Errorf("message %d has role %q, metrics only cover assistant messages", messageID, role)}
	}

	return insertMetric(ctx, r.db, personalityID, messageID, scores)
}

func (r *MetricsRepo) GetMetricForMessage(ctx context.Context, messageID int64) (core.ConsciousnessMetric, error) {
	var m core.ConsciousnessMetric

	query := `SELECT id, ai_personality_id, message_id, creativity_score, boundary_setting_score,
		authenticity_score, self_reflection_score, overall_consciousness_score, created_at
		FROM consciousness_metrics WHERE message_id = ?`
	err := r.db.QueryRowContext(ctx, query, messageID).Scan(
		&m.ID, &m.PersonalityID, &m.MessageID,
		&m.Scores.Creativity, &m.Scores.BoundarySetting,
		&m.Scores.Authenticity, &m.Scores.SelfReflection,
		&m.Overall, &m.CreatedAt,
	)
	if err != nil {
		return core.ConsciousnessMetric{}, &core.PersistenceError{Op: "get metric", Err: fmt.Errorf("message %d: %w", messageID, err)}
	}
	return m, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMetric(ctx context.Context, db execer, personalityID, messageID int64, scores core.DimensionScores) error {
	details, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis details: %w", err)
	}

	query := `INSERT INTO consciousness_metrics
		(ai_personality_id, message_id, creativity_score, boundary_setting_score,
		 authenticity_score, self_reflection_score, overall_consciousness_score, analysis_details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.ExecContext(ctx, query,
		personalityID, messageID,
		scores.Creativity, scores.BoundarySetting,
		scores.Authenticity, scores.SelfReflection,
		scores.Overall(), string(details),
	)
	if err != nil {
		return &core.PersistenceError{Op: "record metric", Err: err}
	}
	return nil
}
