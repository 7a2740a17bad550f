package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verdict-game/internal/domain"
)

func TestBundledPersonaPrompts(t *testing.T) {
	src := NewSource("")
	for _, p := range domain.Roster() {
		prompt, err := src.LoadPersonaPrompt(p.Key)
		require.NoError(t, err, p.Key)
		assert.Contains(t, prompt, "courtroom inquiry")
		assert.NotContains(t, prompt, "{{")
	}

	prompt, err := src.LoadPersonaPrompt(domain.PersonaDelivery)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Kenji Tanaka, 34")
}

func TestVerdictTextIsNotTemplated(t *testing.T) {
	text, err := NewSource("").LoadPersonaPrompt("verdict")
	require.NoError(t, err)
	assert.True(t, len(text) > 0)
	assert.NotContains(t, text, "courtroom inquiry")
}

func TestUnknownPersona(t *testing.T) {
	_, err := NewSource("").LoadPersonaPrompt("judge")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOverrideDirectoryShadowsBundled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "security.txt"), []byte("A very strict camera.\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "context.txt"), []byte("Role: {{.Role}}"), 0o600))

	src := NewSource(dir)
	prompt, err := src.LoadPersonaPrompt(domain.PersonaSecurity)
	require.NoError(t, err)
	assert.Equal(t, "Role: A very strict camera.", prompt)

	prompt, err = src.LoadPersonaPrompt(domain.PersonaPatrol)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Role: StreetAssist Unit SA-17")
}

func TestIntroScript(t *testing.T) {
	src := NewSource("")
	script, err := src.LoadIntroScript(domain.PersonaPatrol)
	require.NoError(t, err)
	assert.Contains(t, script, "defendant")

	_, err = src.LoadIntroScript(domain.PersonaSecurity)
	assert.ErrorIs(t, err, ErrNotFound)
}
