package domain

import "strings"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// roleSeparator joins a conversation id and a base role into a log role.
const roleSeparator = ":"

type Message struct {
	Role    string
	Content string
}

// Entry is a message recorded in the shared conversation log, namespaced by
// the conversation that produced it.
type Entry struct {
	ConversationID string
	BaseRole       string
	Content        string
}

// Role returns the namespaced role, e.g. "Sentinel Unit:assistant".
func (e Entry) Role() string {
	return JoinRole(e.ConversationID, e.BaseRole)
}

func (e Entry) Message() Message {
	return Message{Role: e.Role(), Content: e.Content}
}

func JoinRole(conversationID, baseRole string) string {
	return conversationID + roleSeparator + baseRole
}

// SplitRole parses a namespaced role. Conversation ids may not contain the
// separator, so the first one wins.
func SplitRole(role string) (conversationID, baseRole string) {
	idx := strings.Index(role, roleSeparator)
	if idx <= 0 {
		return role, ""
	}
	return role[:idx], role[idx+len(roleSeparator):]
}
