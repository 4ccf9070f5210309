package chat

import (
	"fmt"
	"testing"

	"github.com/sandevgo/animus/internal/core"
)

func TestBuildContext(t *testing.T) {
	history := func(n int) []core.Message {
		msgs := make([]core.Message, 0, n)
		for i := 1; i <= n; i++ {
			role := core.RoleUser
			if i%2 == 0 {
				role = core.RoleAssistant
			}
			msgs = append(msgs, core.Message{ID: int64(i), Role: role, Content: fmt.Sprintf("msg %d", i)})
		}
		return msgs
	}

	tests := []struct {
		name           string
		history        []core.Message
		userMessageID  int64
		window         int
		wantLen        int
		wantFirstPrior string
	}{
		{
			name:          "empty history",
			history:       nil,
			userMessageID: 1,
			window:        10,
			wantLen:       2, // system + user
		},
		{
			name:           "history below window",
			history:        history(4),
			userMessageID:  4,
			window:         10,
			wantLen:        5, // system + 3 prior + user
			wantFirstPrior: "msg 1",
		},
		{
			name:           "history above window keeps the tail",
			history:        history(25),
			userMessageID:  25,
			window:         10,
			wantLen:        12, // system + 10 prior + user
			wantFirstPrior: "msg 15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildContext("be yourself", tt.history, tt.userMessageID, "the new message", tt.window)

			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if got[0].Role != core.RoleSystem || got[0].Content != "be yourself" {
				t.Errorf("first entry = %+v, want system preamble", got[0])
			}
			last := got[len(got)-1]
			if last.Role != core.RoleUser || last.Content != "the new message" {
				t.Errorf("last entry = %+v, want the new user message", last)
			}
			if tt.wantFirstPrior != "" && got[1].Content != tt.wantFirstPrior {
				t.Errorf("first prior entry = %q, want %q", got[1].Content, tt.wantFirstPrior)
			}
		})
	}
}

func TestBuildContext_ExcludesNewUserMessageFromWindow(t *testing.T) {
	history := []core.Message{
		{ID: 1, Role: core.RoleUser, Content: "earlier"},
		{ID: 2, Role: core.RoleAssistant, Content: "reply"},
		{ID: 3, Role: core.RoleUser, Content: "the new message"},
	}

	got := buildContext("preamble", history, 3, "the new message", 10)

	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	count := 0
	for _, m := range got {
		if m.Content == "the new message" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("new user message appears %d times, want exactly once", count)
	}
}
