package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"verdict-game/internal/domain"
)

var (
	ErrEmptyInput  = errors.New("empty input")
	ErrBusy        = errors.New("a turn is already in flight")
	ErrDisabled    = errors.New("input disabled")
	ErrUnavailable = errors.New("persona unavailable")
	ErrStaleTurn   = errors.New("stale turn result")
)

const (
	// DefaultContextLimit caps how many foreign log entries are injected per turn.
	DefaultContextLimit = 25

	// InitMarker is logged in place of the raw persona prompt.
	InitMarker = "(persona prompt initialised)"
)

type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	Model               string
	Messages            []domain.Message
	MaxCompletionTokens int
	Temperature         float32
	TopP                float32
}

type PromptSource interface {
	LoadPersonaPrompt(key string) (string, error)
}

type ContextComposer interface {
	BuildExternalContext(exclude string, maxEntries int) string
}

type Settings struct {
	Model               string
	MaxCompletionTokens int
	ContextLimit        int
}

// Session holds one persona's transcript and runs its turns against the
// completion backend. It is driven from a single goroutine; only the backend
// call itself runs elsewhere, and its result comes back through Apply.
type Session struct {
	persona  domain.Persona
	log      domain.ConversationLog
	composer ContextComposer
	client   Client
	settings Settings
	logger   zerolog.Logger

	transcript  []domain.Message
	initialized bool
	initErr     error
	disabled    bool
	pending     *Turn
}

func NewSession(
	p domain.Persona,
	log domain.ConversationLog,
	composer ContextComposer,
	client Client,
	settings Settings,
	logger zerolog.Logger,
) *Session {
	if settings.ContextLimit <= 0 {
		settings.ContextLimit = DefaultContextLimit
	}
	return &Session{
		persona:  p,
		log:      log,
		composer: composer,
		client:   client,
		settings: settings,
		logger:   logger.With().Str("persona", p.ConversationID).Logger(),
	}
}

// Initialize loads the persona prompt and seeds the transcript with it. Once
// it has succeeded, later calls do nothing.
func (s *Session) Initialize(src PromptSource) error {
	if s.initialized {
		return nil
	}

	prompt, err := src.LoadPersonaPrompt(s.persona.Key)
	if err == nil && strings.TrimSpace(prompt) == "" {
		err = errors.New("prompt is empty")
	}
	if err != nil {
		s.initErr = fmt.Errorf("%w: %s: %v", ErrUnavailable, s.persona.Key, err)
		s.logger.Error().Err(err).Msg("persona prompt could not be loaded")
		return s.initErr
	}

	s.transcript = []domain.Message{{Role: domain.RoleSystem, Content: prompt}}
	s.initialized = true
	s.initErr = nil
	s.log.Append(s.persona.ConversationID, domain.RoleSystem, InitMarker)
	return nil
}

// Submit records the player's message and starts a backend call for it. The
// returned turn must be handed back through Apply once it is done.
func (s *Session) Submit(ctx context.Context, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	userMessage := domain.Message{Role: domain.RoleUser, Content: text}
	s.log.Append(s.persona.ConversationID, domain.RoleUser, text)

	external := s.composer.BuildExternalContext(s.persona.ConversationID, s.settings.ContextLimit)
	s.transcript = append(s.transcript,
		domain.Message{Role: domain.RoleSystem, Content: external},
		userMessage,
	)

	turn := newTurn(s.persona.Key, userMessage)
	s.pending = turn

	req := CompletionRequest{
		Model:               s.settings.Model,
		Messages:            append([]domain.Message(nil), s.transcript...),
		MaxCompletionTokens: s.settings.MaxCompletionTokens,
		Temperature:         s.persona.Temperature,
		TopP:                s.persona.TopP,
	}

	s.logger.Debug().
		Str("turn", turn.ID.String()).
		Int("transcript_len", len(req.Messages)).
		Msg("submitting turn")

	go turn.run(ctx, s.client, req)
	return turn, nil
}

// Apply commits a finished turn. A failed turn leaves the log untouched and
// returns the backend error; either way the session accepts input again
// unless it was disabled meanwhile.
func (s *Session) Apply(res Result) (domain.Message, error) {
	if s.pending == nil || res.TurnID != s.pending.ID {
		return domain.Message{}, ErrStaleTurn
	}
	s.pending = nil

	if res.Err != nil {
		s.logger.Warn().Err(res.Err).Str("turn", res.TurnID.String()).Msg("completion failed")
		return domain.Message{}, fmt.Errorf("%s: %w", s.persona.ConversationID, res.Err)
	}

	s.transcript = append(s.transcript, res.Reply)
	s.log.Append(s.persona.ConversationID, domain.RoleAssistant, res.Reply.Content)
	return res.Reply, nil
}

// Await blocks until the turn is done and applies it.
func (s *Session) Await(ctx context.Context, turn *Turn) (domain.Message, error) {
	select {
	case <-ctx.Done():
		return domain.Message{}, ctx.Err()
	case res := <-turn.Done():
		return s.Apply(res)
	}
}

func (s *Session) DisableInput() {
	s.disabled = true
}

func (s *Session) EnableInput() {
	s.disabled = false
}

func (s *Session) State() State {
	switch {
	case !s.initialized:
		return StateUninitialized
	case s.pending != nil:
		return StateAwaitingResponse
	case s.disabled:
		return StateDisabled
	default:
		return StateReady
	}
}

// Err reports why the session cannot be used, if initialization failed.
func (s *Session) Err() error {
	return s.initErr
}

func (s *Session) Persona() domain.Persona {
	return s.persona
}

func (s *Session) Transcript() []domain.Message {
	return append([]domain.Message(nil), s.transcript...)
}

// Speaker is the name shown next to a message: the persona's conversation id
// stands in for the generic assistant role.
func (s *Session) Speaker(msg domain.Message) string {
	if msg.Role == domain.RoleAssistant {
		return s.persona.ConversationID
	}
	return msg.Role
}

func (s *Session) checkReady() error {
	if !s.initialized {
		if s.initErr != nil {
			return s.initErr
		}
		return fmt.Errorf("%w: %s: not initialized", ErrUnavailable, s.persona.Key)
	}
	if s.disabled {
		return ErrDisabled
	}
	if s.pending != nil {
		return ErrBusy
	}
	return nil
}
