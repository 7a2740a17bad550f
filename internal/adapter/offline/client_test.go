package offline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verdict-game/internal/domain"
	"verdict-game/internal/usecase/excerpt"
	"verdict-game/internal/usecase/persona"
)

func TestCompleteIsDeterministic(t *testing.T) {
	c := NewClient(0)
	req := persona.CompletionRequest{Messages: []domain.Message{
		{Role: domain.RoleSystem, Content: "prompt"},
		{Role: domain.RoleSystem, Content: excerpt.NoContext},
		{Role: domain.RoleUser, Content: "Where were you?"},
	}}

	first, err := c.Complete(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, lines, first)
}

func TestCompleteMentionsOtherWitnesses(t *testing.T) {
	external := excerpt.Render([]domain.Entry{
		{ConversationID: "Sentinel Unit", BaseRole: domain.RoleUser, Content: "show me"},
		{ConversationID: "Sentinel Unit", BaseRole: domain.RoleAssistant, Content: "footage"},
	})
	got, err := NewClient(0).Complete(context.Background(), persona.CompletionRequest{Messages: []domain.Message{
		{Role: domain.RoleSystem, Content: external},
		{Role: domain.RoleUser, Content: "Did you see it?"},
	}})
	require.NoError(t, err)
	assert.Contains(t, got, "heard 2 statements")
}

func TestCompleteRequiresUserMessage(t *testing.T) {
	_, err := NewClient(0).Complete(context.Background(), persona.CompletionRequest{})
	assert.Error(t, err)
}

func TestCompleteHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(time.Hour).Complete(ctx, persona.CompletionRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
