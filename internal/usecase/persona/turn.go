package persona

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"verdict-game/internal/domain"
)

type State int

const (
	StateUninitialized State = iota
	StateReady
	StateAwaitingResponse
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateAwaitingResponse:
		return "awaiting-response"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Turn is a pending backend call for one player message.
type Turn struct {
	ID      uuid.UUID
	Persona string
	User    domain.Message

	done chan Result
}

type Result struct {
	TurnID  uuid.UUID
	Persona string
	Reply   domain.Message
	Err     error
}

func newTurn(personaKey string, user domain.Message) *Turn {
	return &Turn{
		ID:      uuid.New(),
		Persona: personaKey,
		User:    user,
		done:    make(chan Result, 1),
	}
}

// Done yields the turn's result exactly once.
func (t *Turn) Done() <-chan Result {
	return t.done
}

func (t *Turn) run(ctx context.Context, client Client, req CompletionRequest) {
	res := Result{TurnID: t.ID, Persona: t.Persona}

	reply, err := client.Complete(ctx, req)
	switch {
	case err != nil:
		res.Err = err
	case reply == "":
		res.Err = errors.New("backend returned an empty reply")
	default:
		res.Reply = domain.Message{Role: domain.RoleAssistant, Content: reply}
	}

	t.done <- res
}
