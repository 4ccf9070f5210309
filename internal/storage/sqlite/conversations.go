package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/animus/internal/core"
	"github.com/sandevgo/animus/pkg/log"
)

type ConversationsRepo struct {
	db *sql.DB
}

func NewConversationsRepo(db *sql.DB) *ConversationsRepo {
	return &ConversationsRepo{db: db}
}

func (r *ConversationsRepo) CreateConversation(ctx context.Context, personalityID int64, title string) (int64, error) {
	query := `INSERT INTO conversations (ai_personality_id, title) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, personalityID, title)
	if err != nil {
		return 0, &core.PersistenceError{Op: "create conversation", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &core.PersistenceError{Op: "create conversation", Err: err}
	}
	return id, nil
}

func (r *ConversationsRepo) GetConversation(ctx context.Context, id int64) (core.Conversation, error) {
	var conv core.Conversation
	var title sql.NullString

	query := `SELECT id, ai_personality_id, title, created_at FROM conversations WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&conv.ID, &conv.PersonalityID, &title, &conv.CreatedAt)
	if err != nil {
		return core.Conversation{}, &core.PersistenceError{Op: "get conversation", Err: fmt.Errorf("conversation %d: %w", id, err)}
	}

	conv.Title = title.String
	return conv, nil
}

func (r *ConversationsRepo) AppendMessage(ctx context.Context, conversationID int64, msg core.Message) (int64, error) {
	metaStr, err := marshalMetadata(msg.Metadata)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	// The FK on conversation_id rejects appends to unknown conversations
	query := `INSERT INTO messages (conversation_id, role, content, metadata) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, conversationID, msg.Role, msg.Content, metaStr)
	if err != nil {
		return 0, &core.PersistenceError{Op: "append message", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &core.PersistenceError{Op: "append message", Err: err}
	}
	return id, nil
}

func (r *ConversationsRepo) ReadHistory(ctx context.Context, conversationID int64, limit int) ([]core.Message, error) {
	query := `SELECT id, role, content, metadata, created_at FROM messages WHERE conversation_id = ? ORDER BY id ASC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, &core.PersistenceError{Op: "read history", Err: err}
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		var content, metaStr sql.NullString

		if err := rows.Scan(&msg.ID, &msg.Role, &content, &metaStr, &msg.CreatedAt); err != nil {
			return nil, &core.PersistenceError{Op: "read history", Err: fmt.Errorf("scan message: %w", err)}
		}

		msg.ConversationID = conversationID
		msg.Content = content.String

		if metaStr.Valid && metaStr.String != "" {
			if err := json.Unmarshal([]byte(metaStr.String), &msg.Metadata); err != nil {
				return nil, &core.PersistenceError{Op: "read history", Err: fmt.Errorf("unmarshal metadata: %w", err)}
			}
		}

		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, &core.PersistenceError{Op: "read history", Err: err}
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}

// marshalMetadata stores nil maps as an empty string to save space.
func marshalMetadata(meta map[string]any) (string, error) {
	if len(meta) == 0 {
		return "", nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
