package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/animus/internal/config"
	"github.com/sandevgo/animus/internal/core"
	"github.com/sandevgo/animus/internal/service/scoring"
	"github.com/sandevgo/animus/pkg/log"
	"github.com/sandevgo/animus/pkg/retry"
)

type TurnRequest struct {
	ConversationID int64
	Message        string
}

type TurnResult struct {
	ConversationID int64
	MessageID      int64
	Response       string
	Scores         core.DimensionScores
}

// Service drives one turn: persist the user message, assemble the
// context window, call the completion service, persist and score the
// reply. The user message survives an upstream failure; the assistant
// message and its metric are written together or not at all.
type Service struct {
	cfg           *config.AppConfig
	convs         core.ConversationStore
	turns         core.TurnStore
	metrics       core.MetricStore
	personalities core.PersonalityStore
	completions   core.CompletionClient
	retrier       *retry.Retrier
}

func NewService(
	cfg *config.AppConfig,
	convs core.ConversationStore,
	turns core.TurnStore,
	metrics core.MetricStore,
	personalities core.PersonalityStore,
	completions core.CompletionClient,
	retrier *retry.Retrier,
) *Service {
	return &Service{
		cfg:           cfg,
		convs:         convs,
		turns:         turns,
		metrics:       metrics,
		personalities: personalities,
		completions:   completions,
		retrier:       retrier,
	}
}

func (s *Service) Turn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	logger := log.FromCtx(ctx)

	if strings.TrimSpace(req.Message) == "" {
		return TurnResult{}, &core.ValidationError{Field: "message", Reason: "must not be empty"}
	}

	personalityID := s.cfg.DefaultPersonalityID

	conversationID := req.ConversationID
	if conversationID == 0 {
		title := "Chat started " + time.Now().Format("2006-01-02 15:04")
		id, err := s.convs.CreateConversation(ctx, personalityID, title)
		if err != nil {
			return TurnResult{}, fmt.Errorf("failed to create conversation: %w", err)
		}
		conversationID = id
		logger.Info().Int64("conversation_id", conversationID).Msg("created conversation")
	}

	userMsg := core.Message{Role: core.RoleUser, Content: req.Message}
	userMessageID, err := s.convs.AppendMessage(ctx, conversationID, userMsg)
	if err != nil {
		return TurnResult{}, fmt.Errorf("failed to save user message: %w", err)
	}

	personality, err := s.personalities.GetPersonality(ctx, personalityID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("failed to load personality: %w", err)
	}

	history, err := s.convs.ReadHistory(ctx, conversationID, s.cfg.HistoryLimit)
	if err != nil {
		return TurnResult{}, fmt.Errorf("failed to fetch history: %w", err)
	}

	messages := buildContext(personality.SystemPrompt, history, userMessageID, req.Message, s.cfg.ContextWindowSize)

	var reply string
	err = s.retrier.Do(ctx, func() error {
		r, err := s.completions.Complete(ctx, messages)
		if err != nil {
			return err
		}
		reply = r
		return nil
	})
	if err != nil {
		// The user message stays persisted; the turn carries no reply
		// and no metric. Callers may retry with the same conversation.
		var upstream *core.UpstreamError
		if !errors.As(err, &upstream) {
			err = &core.UpstreamError{Op: "chat completion", Err: err}
		}
		return TurnResult{}, err
	}

	scores := scoring.Score(reply)

	messageID, err := s.turns.SaveAssistantTurn(ctx, conversationID, personalityID, reply, scores)
	if err != nil {
		return TurnResult{}, fmt.Errorf("failed to save assistant turn: %w", err)
	}

	logger.Info().
		Int64("conversation_id", conversationID).
		Int64("message_id", messageID).
		Float64("overall", scores.Overall()).
		Msg("turn completed")

	return TurnResult{
		ConversationID: conversationID,
		MessageID:      messageID,
		Response:       reply,
		Scores:         scores,
	}, nil
}

// Conversation exposes the stored conversation record.
func (s *Service) Conversation(ctx context.Context, id int64) (core.Conversation, error) {
	return s.convs.GetConversation(ctx, id)
}

// Metric exposes the persisted consciousness metric of one assistant
// message.
func (s *Service) Metric(ctx context.Context, messageID int64) (core.ConsciousnessMetric, error) {
	return s.metrics.GetMetricForMessage(ctx, messageID)
}

// History exposes the stored conversation transcript.
func (s *Service) History(ctx context.Context, conversationID int64, limit int) ([]core.Message, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	return s.convs.ReadHistory(ctx, conversationID, limit)
}

// Boundaries exposes a personality's active ethical boundaries. They
// are reference data only and do not gate completion calls.
func (s *Service) Boundaries(ctx context.Context, personalityID int64) ([]core.EthicalBoundary, error) {
	return s.personalities.GetBoundaries(ctx, personalityID)
}
