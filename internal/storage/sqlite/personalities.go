package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/animus/internal/core"
)

type PersonalitiesRepo struct {
	db *sql.DB
}

func NewPersonalitiesRepo(db *sql.DB) *PersonalitiesRepo {
	return &PersonalitiesRepo{db: db}
}

func (r *PersonalitiesRepo) GetPersonality(ctx context.Context, id int64) (core.Personality, error) {
	var p core.Personality
	var configStr sql.NullString

	query := `SELECT id, name, system_prompt, config FROM ai_personalities WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.SystemPrompt, &configStr)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Personality{}, &core.PersistenceError{Op: "get personality", Err: fmt.Errorf("unknown personality %d: %w", id, err)}
	}
	if err != nil {
		return core.Personality{}, &core.PersistenceError{Op: "get personality", Err: err}
	}

	if configStr.Valid && configStr.String != "" {
		if err := json.Unmarshal([]byte(configStr.String), &p.Config); err != nil {
			return core.Personality{}, &core.PersistenceError{Op: "get personality", Err: fmt.Errorf("unmarshal config: %w", err)}
		}
	}
	return p, nil
}

func (r *PersonalitiesRepo) GetBoundaries(ctx context.Context, personalityID int64) ([]core.EthicalBoundary, error) {
	query := `SELECT id, ai_personality_id, rule, is_active FROM ethical_boundaries WHERE ai_personality_id = ? AND is_active = 1`

	rows, err := r.db.QueryContext(ctx, query, personalityID)
	if err != nil {
		return nil, &core.PersistenceError{Op: "get boundaries", Err: err}
	}
	defer rows.Close()

	var boundaries []core.EthicalBoundary
	for rows.Next() {
		var b core.EthicalBoundary
		if err := rows.Scan(&b.ID, &b.PersonalityID, &b.Rule, &b.Active); err != nil {
			return nil, &core.PersistenceError{Op: "get boundaries", Err: fmt.Errorf("scan boundary: %w", err)}
		}
		boundaries = append(boundaries, b)
	}

	if err := rows.Err(); err != nil {
		return nil, &core.PersistenceError{Op: "get boundaries", Err: err}
	}
	return boundaries, nil
}
