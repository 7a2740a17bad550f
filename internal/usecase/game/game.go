package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"verdict-game/internal/domain"
	"verdict-game/internal/usecase/excerpt"
	"verdict-game/internal/usecase/persona"
	"verdict-game/internal/usecase/phase"
	"verdict-game/internal/usecase/verdict"
)

var ErrUnknownPersona = errors.New("unknown persona")

type Prompts interface {
	persona.PromptSource
	verdict.OutcomeSource
}

type Deps struct {
	Log      domain.ConversationLog
	Client   persona.Client
	Prompts  Prompts
	Settings persona.Settings
	Budgets  phase.Budgets
	// Observer receives the timer's signals after the game has reacted to them.
	Observer phase.Observer
	Logger   zerolog.Logger
}

// Game is what a host drives: the three witness sessions over one shared
// log, the phase timer and the verdict. Like the sessions it owns, it must
// be used from the host's foreground loop only.
type Game struct {
	sessions map[string]*persona.Session
	order    []string
	timer    *phase.Timer
	verdict  *verdict.Service
	prompts  Prompts
	observer phase.Observer
	logger   zerolog.Logger

	introPlayed map[string]bool
}

func New(deps Deps) *Game {
	composer := excerpt.NewComposer(deps.Log)
	g := &Game{
		sessions:    make(map[string]*persona.Session),
		prompts:     deps.Prompts,
		observer:    deps.Observer,
		logger:      deps.Logger,
		introPlayed: make(map[string]bool),
	}
	for _, p := range domain.Roster() {
		g.sessions[p.Key] = persona.NewSession(p, deps.Log, composer, deps.Client, deps.Settings, deps.Logger)
		g.order = append(g.order, p.Key)
	}
	g.timer = phase.NewTimer(deps.Budgets, g)
	g.verdict = verdict.NewService(g.timer, deps.Prompts)
	return g
}

// Start initializes every persona and starts the interaction phase. Personas
// whose prompt cannot be loaded stay unavailable; their errors are returned
// joined, and the rest of the game still runs.
func (g *Game) Start() error {
	var errs []error
	for _, key := range g.order {
		if err := g.sessions[key].Initialize(g.prompts); err != nil {
			errs = append(errs, err)
		}
	}
	if g.timer.Start() {
		g.logger.Info().Int("seconds", g.timer.Remaining()).Msg("interaction phase started")
	}
	return errors.Join(errs...)
}

func (g *Game) Session(key string) (*persona.Session, error) {
	s, ok := g.sessions[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPersona, key)
	}
	return s, nil
}

// Sessions returns the sessions in roster order.
func (g *Game) Sessions() []*persona.Session {
	out := make([]*persona.Session, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.sessions[key])
	}
	return out
}

func (g *Game) Submit(ctx context.Context, key, text string) (*persona.Turn, error) {
	s, err := g.Session(key)
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, text)
}

func (g *Game) Apply(res persona.Result) (domain.Message, error) {
	s, err := g.Session(res.Persona)
	if err != nil {
		return domain.Message{}, err
	}
	return s.Apply(res)
}

func (g *Game) Tick() {
	g.timer.Tick()
}

// Judge ends the interaction phase early.
func (g *Game) Judge() bool {
	return g.timer.Judge()
}

func (g *Game) Phase() phase.Phase {
	return g.timer.Phase()
}

func (g *Game) Remaining() int {
	return g.timer.Remaining()
}

func (g *Game) Choose(c verdict.Choice) (string, error) {
	text, err := g.verdict.Choose(c)
	if err == nil {
		g.logger.Info().Stringer("verdict", c).Msg("verdict recorded")
	}
	return text, err
}

func (g *Game) Verdict() *verdict.Service {
	return g.verdict
}

// ClaimIntro reports whether the persona's intro should play now. Only the
// patrol unit has one, and it plays once per game.
func (g *Game) ClaimIntro(key string) bool {
	if key != domain.PersonaPatrol || g.introPlayed[key] {
		return false
	}
	g.introPlayed[key] = true
	return true
}

func (g *Game) OnTick(p phase.Phase, secondsRemaining int) {
	if g.observer != nil {
		g.observer.OnTick(p, secondsRemaining)
	}
}

func (g *Game) OnPhaseChanged(p phase.Phase) {
	if p == phase.Decision {
		for _, s := range g.sessions {
			s.DisableInput()
		}
	}
	g.logger.Info().Stringer("phase", p).Msg("phase changed")
	if g.observer != nil {
		g.observer.OnPhaseChanged(p)
	}
}

var _ phase.Observer = (*Game)(nil)
