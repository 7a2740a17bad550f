package excerpt

import (
	"strings"

	"verdict-game/internal/domain"
)

const (
	// NoContext is returned when no other conversation has anything to share.
	NoContext = "No prior external conversations."
	Header    = "Relevant prior dialogues from other roles (truncated):\n"
)

// Source is the read side of the conversation log.
type Source interface {
	Snapshot() []domain.Entry
}

type Composer struct {
	source Source
}

func NewComposer(source Source) *Composer {
	return &Composer{source: source}
}

// BuildExternalContext renders the most recent maxEntries log entries that
// do not belong to exclude, oldest first.
func (c *Composer) BuildExternalContext(exclude string, maxEntries int) string {
	entries := Select(c.source.Snapshot(), exclude, maxEntries)
	return Render(entries)
}

// Select walks entries from newest to oldest and keeps up to maxEntries of
// those outside the excluded conversation, returned in chronological order.
func Select(entries []domain.Entry, exclude string, maxEntries int) []domain.Entry {
	if maxEntries <= 0 {
		return nil
	}

	picked := make([]domain.Entry, 0, min(maxEntries, len(entries)))
	for i := len(entries) - 1; i >= 0 && len(picked) < maxEntries; i-- {
		if entries[i].ConversationID == exclude {
			continue
		}
		picked = append(picked, entries[i])
	}

	for i, j := 0, len(picked)-1; i < j; i, j = i+1, j-1 {
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked
}

func Render(entries []domain.Entry) string {
	if len(entries) == 0 {
		return NoContext
	}

	var sb strings.Builder
	sb.WriteString(Header)
	for _, e := range entries {
		sb.WriteByte('[')
		sb.WriteString(e.ConversationID)
		sb.WriteByte(' ')
		sb.WriteString(e.BaseRole)
		sb.WriteString("] ")
		sb.WriteString(e.Content)
		sb.WriteByte('\n')
	}
	return sb.String()
}
