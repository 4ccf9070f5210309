package core

import "time"

const (
	AnimusName      = "Animus"
	AnimusUserAgent = "Animus-Gateway/0.1"
	AnimusVersion   = "0.1.0"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Conversation is created on the first turn and never mutated afterwards.
type Conversation struct {
	ID            int64     `json:"id"`
	PersonalityID int64     `json:"personality_id"`
	Title         string    `json:"title,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Message is an append-only record. Order within a conversation is
// ascending by insertion and defines the context order.
type Message struct {
	ID             int64          `json:"id,omitempty"`
	ConversationID int64          `json:"conversation_id,omitempty"`
	Role           string         `json:"role"`
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at,omitzero"`
}

// Personality is read-only reference data. SystemPrompt seeds the
// context window for every turn owned by this personality.
type Personality struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	SystemPrompt string         `json:"system_prompt"`
	Config       map[string]any `json:"config,omitempty"`
}

// EthicalBoundary is stored reference data. It is not consulted by
// scoring or orchestration.
type EthicalBoundary struct {
	ID            int64  `json:"id"`
	PersonalityID int64  `json:"personality_id"`
	Rule          string `json:"rule"`
	Active        bool   `json:"active"`
}

// ConsciousnessMetric records one scoring of one assistant message.
type ConsciousnessMetric struct {
	ID            int64           `json:"id"`
	PersonalityID int64           `json:"personality_id"`
	MessageID     int64           `json:"message_id"`
	Scores        DimensionScores `json:"scores"`
	Overall       float64         `json:"overall"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DimensionScores holds the four heuristic dimensions, each in [0,1].
type DimensionScores struct {
	Creativity      float64 `json:"creativity"`
	BoundarySetting float64 `json:"boundary_setting"`
	Authenticity    float64 `json:"authenticity"`
	SelfReflection  float64 `json:"self_reflection"`
}

// Overall is the arithmetic mean of the four dimensions.
func (s DimensionScores) Overall() float64 {
	return (s.Creativity + s.BoundarySetting + s.Authenticity + s.SelfReflection) / 4
}
