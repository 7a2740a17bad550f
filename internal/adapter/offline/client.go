// Package offline provides a scripted completion backend for playing and
// demoing the game without model credentials.
package offline

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"verdict-game/internal/domain"
	"verdict-game/internal/usecase/excerpt"
	"verdict-game/internal/usecase/persona"
)

var lines = []string{
	"I already told the officers everything I remember.",
	"That is not how it looked from where I was.",
	"You should ask the others what they saw at the crossing.",
	"It all happened in less than two seconds.",
	"I would rather not guess about that.",
}

// Client answers every turn with a canned line chosen from the question.
type Client struct {
	delay time.Duration
}

func NewClient(delay time.Duration) *Client {
	return &Client{delay: delay}
}

func (c *Client) Complete(ctx context.Context, req persona.CompletionRequest) (string, error) {
	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.delay):
		}
	}

	question := lastUserMessage(req.Messages)
	if question == "" {
		return "", fmt.Errorf("offline backend: no user message in request")
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(question))
	line := lines[int(h.Sum32()%uint32(len(lines)))]

	if heard := heardFromOthers(req.Messages); heard > 0 {
		return fmt.Sprintf("%s (I have heard %d statements from the other witnesses.)", line, heard), nil
	}
	return line, nil
}

func lastUserMessage(msgs []domain.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

// heardFromOthers counts the entries in the newest injected context message.
func heardFromOthers(msgs []domain.Message) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.Role != domain.RoleSystem || !strings.HasPrefix(m.Content, excerpt.Header) {
			continue
		}
		return strings.Count(m.Content, "\n[")
	}
	return 0
}

var _ persona.Client = (*Client)(nil)
