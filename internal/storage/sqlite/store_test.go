package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sandevgo/animus/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStore struct {
	db            *sql.DB
	convs         *ConversationsRepo
	turns         *TurnsRepo
	metrics       *MetricsRepo
	personalities *PersonalitiesRepo
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	db, err := NewDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &testStore{
		db:            db,
		convs:         NewConversationsRepo(db),
		turns:         NewTurnsRepo(db),
		metrics:       NewMetricsRepo(db),
		personalities: NewPersonalitiesRepo(db),
	}
}

func TestNewDB_UnopenablePath(t *testing.T) {
	// A directory is not a valid database file, so the ping fails
	dir := t.TempDir()
	_, err := NewDB(context.Background(), dir)
	require.Error(t, err)

	// The path must still be usable afterwards: no handle is left open
	db, err := NewDB(context.Background(), filepath.Join(dir, "animus.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestCreateConversationAndAppend(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	convID, err := store.convs.CreateConversation(ctx, 1, "Chat started 2025-01-01 10:00")
	require.NoError(t, err)
	require.NotZero(t, convID)

	conv, err := store.convs.GetConversation(ctx, convID)
	require.NoError(t, err)
	assert.Equal(t, convID, conv.ID)
	assert.Equal(t, int64(1), conv.PersonalityID)
	assert.Equal(t, "Chat started 2025-01-01 10:00", conv.Title)
	assert.False(t, conv.CreatedAt.IsZero())

	msgID, err := store.convs.AppendMessage(ctx, convID, core.Message{Role: core.RoleUser, Content: "hello"})
	require.NoError(t, err)
	require.NotZero(t, msgID)

	history, err := store.convs.ReadHistory(ctx, convID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.False(t, history[0].CreatedAt.IsZero())
}

func TestGetConversation_Unknown(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.convs.GetConversation(ctx, 9999)
	require.Error(t, err)

	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAppendMessage_UnknownConversation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.convs.AppendMessage(ctx, 9999, core.Message{Role: core.RoleUser, Content: "orphan"})
	require.Error(t, err)

	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)

	// No row may survive the failed append
	history, err := store.convs.ReadHistory(ctx, 9999, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestReadHistory_OrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	convID, err := store.convs.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	contents := []string{"first", "second", "third", "fourth"}
	for i, content := range contents {
		role := core.RoleUser
		if i%2 == 1 {
			role = core.RoleAssistant
		}
		_, err := store.convs.AppendMessage(ctx, convID, core.Message{Role: role, Content: content})
		require.NoError(t, err)
	}

	history, err := store.convs.ReadHistory(ctx, convID, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[1].Content)
	assert.Equal(t, "third", history[2].Content)
}

func TestReadHistory_EmptyConversation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	convID, err := store.convs.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	history, err := store.convs.ReadHistory(ctx, convID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAppendMessage_Metadata(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	convID, err := store.convs.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	meta := map[string]any{"client": "web", "attempt": float64(2)}
	_, err = store.convs.AppendMessage(ctx, convID, core.Message{Role: core.RoleUser, Content: "hi", Metadata: meta})
	require.NoError(t, err)

	history, err := store.convs.ReadHistory(ctx, convID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, meta, history[0].Metadata)
}

func TestSaveAssistantTurn(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	convID, err := store.convs.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	scores := core.DimensionScores{Creativity: 0.25, BoundarySetting: 0.66, Authenticity: 0.5, SelfReflection: 0.25}
	msgID, err := store.turns.SaveAssistantTurn(ctx, convID, 1, "a reply", scores)
	require.NoError(t, err)
	require.NotZero(t, msgID)

	history, err := store.convs.ReadHistory(ctx, convID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, core.RoleAssistant, history[0].Role)
	assert.Equal(t, "a reply", history[0].Content)

	// The metric lands in the same transaction: exactly one row,
	// overall equal to the mean of the stored dimensions
	var count int
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM consciousness_metrics WHERE message_id = ?`, msgID).Scan(&count))
	assert.Equal(t, 1, count)

	metric, err := store.metrics.GetMetricForMessage(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, msgID, metric.MessageID)
	assert.Equal(t, int64(1), metric.PersonalityID)
	assert.Equal(t, scores, metric.Scores)
	mean := (scores.Creativity + scores.BoundarySetting + scores.Authenticity + scores.SelfReflection) / 4
	assert.InDelta(t, mean, metric.Overall, 1e-9)
}

func TestRecordMetric_RejectsUserMessage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	convID, err := store.convs.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	msgID, err := store.convs.AppendMessage(ctx, convID, core.Message{Role: core.RoleUser, Content: "hello"})
	require.NoError(t, err)

	err = store.metrics.RecordMetric(ctx, 1, msgID, core.DimensionScores{})
	require.Error(t, err)

	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)

	_, err = store.metrics.GetMetricForMessage(ctx, msgID)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecordMetric_UnknownMessage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.metrics.RecordMetric(ctx, 1, 424242, core.DimensionScores{})
	require.Error(t, err)

	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)
}

func TestRecordMetric_AssistantMessage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	convID, err := store.convs.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	msgID, err := store.convs.AppendMessage(ctx, convID, core.Message{Role: core.RoleAssistant, Content: "a reply"})
	require.NoError(t, err)

	scores := core.DimensionScores{Authenticity: 0.5, SelfReflection: 0.25}
	require.NoError(t, store.metrics.RecordMetric(ctx, 1, msgID, scores))

	metric, err := store.metrics.GetMetricForMessage(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, scores, metric.Scores)
	assert.InDelta(t, scores.Overall(), metric.Overall, 1e-9)
}

func TestGetPersonality_SeededDefault(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p, err := store.personalities.GetPersonality(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.NotEmpty(t, p.SystemPrompt)

	boundaries, err := store.personalities.GetBoundaries(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, boundaries)
	for _, b := range boundaries {
		assert.True(t, b.Active)
	}
}

func TestGetPersonality_Unknown(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.personalities.GetPersonality(ctx, 777)
	require.Error(t, err)

	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)
}
