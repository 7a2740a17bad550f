package tts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verdict-game/internal/config"
)

type stubSpeech struct {
	got []Request
}

func (s *stubSpeech) Speech(ctx context.Context, req Request) (Response, error) {
	s.got = append(s.got, req)
	return Response{Data: []byte("ogg"), Format: req.Format}, nil
}

type scripts map[string]string

func (s scripts) LoadIntroScript(key string) (string, error) {
	text, ok := s[key]
	if !ok {
		return "", errors.New("no script")
	}
	return text, nil
}

func testConfig() config.Config {
	return config.Config{TTSModel: "gpt-4o-mini-tts", TTSVoice: "alloy", TTSFormat: "opus"}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client := &stubSpeech{}
	svc := NewService(client, scripts{}, testConfig())

	_, err := svc.Synthesize(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, client.got)
}

func TestIntroUsesScriptAndConfig(t *testing.T) {
	client := &stubSpeech{}
	svc := NewService(client, scripts{"patrol": "StreetAssist Unit online."}, testConfig())

	resp, err := svc.Intro(context.Background(), "patrol")
	require.NoError(t, err)
	assert.Equal(t, "opus", resp.Format)

	require.Len(t, client.got, 1)
	assert.Equal(t, Request{
		Model:  "gpt-4o-mini-tts",
		Voice:  "alloy",
		Format: "opus",
		Text:   "StreetAssist Unit online.",
	}, client.got[0])
}

func TestIntroMissingScript(t *testing.T) {
	svc := NewService(&stubSpeech{}, scripts{}, testConfig())
	_, err := svc.Intro(context.Background(), "security")
	assert.Error(t, err)
}
