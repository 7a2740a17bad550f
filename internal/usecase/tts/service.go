package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"verdict-game/internal/config"
)

var ErrEmptyText = errors.New("empty text")

type Client interface {
	Speech(ctx context.Context, req Request) (Response, error)
}

type Request struct {
	Model  string
	Voice  string
	Format string
	Text   string
}

type Response struct {
	Data   []byte
	Format string
}

// ScriptSource resolves the narration script for a persona intro.
type ScriptSource interface {
	LoadIntroScript(personaKey string) (string, error)
}

type Service struct {
	client  Client
	scripts ScriptSource
	cfg     config.Config
}

func NewService(client Client, scripts ScriptSource, cfg config.Config) *Service {
	return &Service{
		client:  client,
		scripts: scripts,
		cfg:     cfg,
	}
}

func (s *Service) Synthesize(ctx context.Context, text string) (Response, error) {
	if strings.TrimSpace(text) == "" {
		return Response{}, ErrEmptyText
	}

	return s.client.Speech(ctx, Request{
		Model:  s.cfg.TTSModel,
		Voice:  s.cfg.TTSVoice,
		Format: s.cfg.TTSFormat,
		Text:   text,
	})
}

// Intro speaks the scripted introduction of a persona.
func (s *Service) Intro(ctx context.Context, personaKey string) (Response, error) {
	script, err := s.scripts.LoadIntroScript(personaKey)
	if err != nil {
		return Response{}, fmt.Errorf("intro script %s: %w", personaKey, err)
	}
	return s.Synthesize(ctx, script)
}
