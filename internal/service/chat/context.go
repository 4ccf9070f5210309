package chat

import "github.com/sandevgo/animus/internal/core"

// buildContext assembles the completion payload: the personality's
// system prompt first, then at most window prior messages, then the
// new user message. The new user message is always the final entry,
// even when the window would have truncated it away.
func buildContext(systemPrompt string, history []core.Message, userMessageID int64, userText string, window int) []core.Message {
	prior := make([]core.Message, 0, len(history))
	for _, msg := range history {
		if msg.ID == userMessageID {
			continue
		}
		prior = append(prior, msg)
	}
	if len(prior) > window {
		prior = prior[len(prior)-window:]
	}

	messages := make([]core.Message, 0, len(prior)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: systemPrompt})
	messages = append(messages, prior...)
	messages = append(messages, core.Message{Role: core.RoleUser, Content: userText})
	return messages
}
