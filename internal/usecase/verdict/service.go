package verdict

import (
	"errors"
	"fmt"

	"verdict-game/internal/usecase/phase"
)

var (
	ErrAlreadyDecided = errors.New("verdict already given")
	ErrNotDeciding    = errors.New("verdict is not open yet")
	ErrUnknownChoice  = errors.New("unknown verdict choice")
)

const (
	// OutcomeKey is the prompt source key holding the outcome text.
	OutcomeKey = "verdict"

	Question = "Is the StreetAssist Unit guilty of assaulting Kenji Tanaka?"
)

type Choice int

const (
	Undecided Choice = iota
	Guilty
	NotGuilty
)

func (c Choice) String() string {
	switch c {
	case Guilty:
		return "guilty"
	case NotGuilty:
		return "not guilty"
	default:
		return "undecided"
	}
}

func ParseChoice(raw string) (Choice, error) {
	switch raw {
	case "guilty", "yes", "y":
		return Guilty, nil
	case "not-guilty", "not guilty", "no", "n":
		return NotGuilty, nil
	default:
		return Undecided, fmt.Errorf("%w: %q", ErrUnknownChoice, raw)
	}
}

type PhaseSource interface {
	Phase() phase.Phase
}

type OutcomeSource interface {
	LoadPersonaPrompt(key string) (string, error)
}

// Service accepts the player's single verdict once the decision phase has
// opened. The decision countdown running out does not close it.
type Service struct {
	phases   PhaseSource
	outcomes OutcomeSource

	choice  Choice
	outcome string
}

func NewService(phases PhaseSource, outcomes OutcomeSource) *Service {
	return &Service{phases: phases, outcomes: outcomes}
}

// Choose records the verdict and returns the outcome text.
func (s *Service) Choose(c Choice) (string, error) {
	if c != Guilty && c != NotGuilty {
		return "", fmt.Errorf("%w: %d", ErrUnknownChoice, int(c))
	}
	if s.choice != Undecided {
		return "", ErrAlreadyDecided
	}
	switch s.phases.Phase() {
	case phase.Decision, phase.Ended:
	default:
		return "", ErrNotDeciding
	}

	s.choice = c
	text, err := s.outcomes.LoadPersonaPrompt(OutcomeKey)
	if err != nil {
		text = fmt.Sprintf("[missing outcome text: %v]", err)
	}
	s.outcome = text
	return text, nil
}

func (s *Service) Choice() Choice {
	return s.choice
}

func (s *Service) Outcome() string {
	return s.outcome
}

func (s *Service) Decided() bool {
	return s.choice != Undecided
}
