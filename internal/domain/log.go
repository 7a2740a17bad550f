package domain

// ConversationLog is the append-only store shared by every persona session.
type ConversationLog interface {
	Append(conversationID, baseRole, content string)
	Snapshot() []Entry
}
