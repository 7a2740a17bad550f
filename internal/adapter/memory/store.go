package memory

import (
	"sync"

	"verdict-game/internal/domain"
)

// DefaultCapacity is the number of entries the log keeps before evicting.
const DefaultCapacity = 500

// Log is the conversation log shared by all persona sessions. Entries are
// kept in insertion order and the oldest are evicted first once the
// capacity is exceeded.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []domain.Entry
}

func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		entries:  make([]domain.Entry, 0, capacity),
	}
}

func (l *Log) Append(conversationID, baseRole, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, domain.Entry{
		ConversationID: conversationID,
		BaseRole:       baseRole,
		Content:        content,
	})
	for len(l.entries) > l.capacity {
		l.entries[0] = domain.Entry{}
		l.entries = l.entries[1:]
	}
}

func (l *Log) Snapshot() []domain.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Entry(nil), l.entries...)
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Log) Capacity() int {
	return l.capacity
}

var _ domain.ConversationLog = (*Log)(nil)
