package phase

import "fmt"

type Phase int

const (
	Idle Phase = iota
	Interaction
	Decision
	Ended
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Interaction:
		return "interaction"
	case Decision:
		return "decision"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

const (
	DefaultInteractionSeconds = 120
	DefaultDecisionSeconds    = 10
)

// Observer receives the timer's signals on the goroutine that drives it.
type Observer interface {
	OnTick(p Phase, secondsRemaining int)
	OnPhaseChanged(p Phase)
}

type Budgets struct {
	InteractionSeconds int
	DecisionSeconds    int
}

// Timer is the countdown that bounds a game: a free interaction phase, then
// a short decision phase, then nothing. It does not keep time itself; the
// host calls Tick once per second.
type Timer struct {
	budgets   Budgets
	observer  Observer
	phase     Phase
	remaining int
}

func NewTimer(budgets Budgets, observer Observer) *Timer {
	if budgets.InteractionSeconds <= 0 {
		budgets.InteractionSeconds = DefaultInteractionSeconds
	}
	if budgets.DecisionSeconds <= 0 {
		budgets.DecisionSeconds = DefaultDecisionSeconds
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Timer{budgets: budgets, observer: observer}
}

// Start begins the interaction phase. It reports false if the timer already ran.
func (t *Timer) Start() bool {
	if t.phase != Idle {
		return false
	}
	t.enter(Interaction, t.budgets.InteractionSeconds)
	return true
}

// Tick advances the countdown by one second.
func (t *Timer) Tick() {
	switch t.phase {
	case Interaction:
		t.remaining--
		t.observer.OnTick(t.phase, t.remaining)
		if t.remaining <= 0 {
			t.enter(Decision, t.budgets.DecisionSeconds)
		}
	case Decision:
		t.remaining--
		t.observer.OnTick(t.phase, t.remaining)
		if t.remaining <= 0 {
			t.phase = Ended
			t.remaining = 0
			t.observer.OnPhaseChanged(Ended)
		}
	}
}

// Judge ends the interaction phase early. It only has an effect during
// Interaction and reports whether the transition happened.
func (t *Timer) Judge() bool {
	if t.phase != Interaction {
		return false
	}
	t.enter(Decision, t.budgets.DecisionSeconds)
	return true
}

func (t *Timer) Phase() Phase {
	return t.phase
}

func (t *Timer) Remaining() int {
	return t.remaining
}

func (t *Timer) enter(p Phase, seconds int) {
	t.phase = p
	t.remaining = seconds
	t.observer.OnPhaseChanged(p)
	t.observer.OnTick(p, seconds)
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

type nopObserver struct{}

func (nopObserver) OnTick(Phase, int)    {}
func (nopObserver) OnPhaseChanged(Phase) {}
