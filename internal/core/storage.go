package core

import "context"

type ConversationStore interface {
	CreateConversation(ctx context.Context, personalityID int64, title string) (int64, error)
	GetConversation(ctx context.Context, id int64) (Conversation, error)
	AppendMessage(ctx context.Context, conversationID int64, msg Message) (int64, error)
	ReadHistory(ctx context.Context, conversationID int64, limit int) ([]Message, error)
}

// TurnStore persists the write half of a completed turn: the assistant
// message and its metric land in one transaction, so a crash can never
// leave a scored reply without its metric or vice versa.
type TurnStore interface {
	SaveAssistantTurn(ctx context.Context, conversationID, personalityID int64, content string, scores DimensionScores) (int64, error)
}

type MetricStore interface {
	RecordMetric(ctx context.Context, personalityID, messageID int64, scores DimensionScores) error
	GetMetricForMessage(ctx context.Context, messageID int64) (ConsciousnessMetric, error)
}

type PersonalityStore interface {
	GetPersonality(ctx context.Context, id int64) (Personality, error)
	GetBoundaries(ctx context.Context, personalityID int64) ([]EthicalBoundary, error)
}
