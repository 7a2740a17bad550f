package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryRoleRoundTrip(t *testing.T) {
	e := Entry{ConversationID: "StreetAssist Unit", BaseRole: RoleAssistant, Content: "copy that"}
	assert.Equal(t, "StreetAssist Unit:assistant", e.Role())

	convo, base := SplitRole(e.Role())
	assert.Equal(t, "StreetAssist Unit", convo)
	assert.Equal(t, RoleAssistant, base)
}

func TestSplitRoleWithoutNamespace(t *testing.T) {
	convo, base := SplitRole("system")
	assert.Equal(t, "system", convo)
	assert.Empty(t, base)
}

func TestLookupPersona(t *testing.T) {
	p, ok := LookupPersona(PersonaSecurity)
	assert.True(t, ok)
	assert.Equal(t, "Sentinel Unit", p.ConversationID)

	_, ok = LookupPersona("judge")
	assert.False(t, ok)
}
