package sqlite

import (
	"context"
	"database/sql"

	"github.com/sandevgo/animus/internal/core"
)

type TurnsRepo struct {
	db *sql.DB
}

func NewTurnsRepo(db *sql.DB) *TurnsRepo {
	return &TurnsRepo{db: db}
}

// SaveAssistantTurn writes the assistant message and its metric in one
// transaction. A completion reply is never visible without its score.
func (r *TurnsRepo) SaveAssistantTurn(ctx context.Context, conversationID, personalityID int64, content string, scores core.DimensionScores) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &core.PersistenceError{Op: "save assistant turn", Err: err}
	}
	defer tx.Rollback()

	query := `INSERT INTO messages (conversation_id, role, content, metadata) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, query, conversationID, core.RoleAssistant, content, "")
	if err != nil {
		return 0, &core.PersistenceError{Op: "save assistant turn", Err: err}
	}

	messageID, err := res.LastInsertId()
	if err != nil {
		return 0, &core.PersistenceError{Op: "save assistant turn", Err: err}
	}

	if err := insertMetric(ctx, tx, personalityID, messageID, scores); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, &core.PersistenceError{Op: "save assistant turn", Err: err}
	}
	return messageID, nil
}
