package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tick struct {
	phase     Phase
	remaining int
}

type recorder struct {
	ticks   []tick
	changes []Phase
}

func (r *recorder) OnTick(p Phase, secondsRemaining int) {
	r.ticks = append(r.ticks, tick{p, secondsRemaining})
}

func (r *recorder) OnPhaseChanged(p Phase) {
	r.changes = append(r.changes, p)
}

func TestTimerRunsToCompletion(t *testing.T) {
	rec := &recorder{}
	timer := NewTimer(Budgets{}, rec)
	assert.Equal(t, Idle, timer.Phase())

	require.True(t, timer.Start())
	assert.Equal(t, Interaction, timer.Phase())
	assert.Equal(t, DefaultInteractionSeconds, timer.Remaining())

	for i := 0; i < 1000 && timer.Phase() != Ended; i++ {
		timer.Tick()
	}

	assert.Equal(t, []Phase{Interaction, Decision, Ended}, rec.changes)
	assert.Equal(t, Ended, timer.Phase())

	// Within a phase the remaining seconds never go up.
	for i := 1; i < len(rec.ticks); i++ {
		prev, cur := rec.ticks[i-1], rec.ticks[i]
		if prev.phase == cur.phase {
			assert.LessOrEqual(t, cur.remaining, prev.remaining)
		}
	}

	// 120 interaction ticks plus 10 decision ticks, plus the two phase entries.
	assert.Len(t, rec.ticks, DefaultInteractionSeconds+DefaultDecisionSeconds+2)
}

func TestTimerEndedIsTerminal(t *testing.T) {
	rec := &recorder{}
	timer := NewTimer(Budgets{InteractionSeconds: 1, DecisionSeconds: 1}, rec)
	timer.Start()
	timer.Tick()
	timer.Tick()
	require.Equal(t, Ended, timer.Phase())

	signals := len(rec.ticks) + len(rec.changes)
	timer.Tick()
	assert.False(t, timer.Judge())
	assert.False(t, timer.Start())
	assert.Equal(t, signals, len(rec.ticks)+len(rec.changes))
	assert.Equal(t, 0, timer.Remaining())
}

func TestJudgeDuringInteraction(t *testing.T) {
	rec := &recorder{}
	timer := NewTimer(Budgets{}, rec)
	timer.Start()
	for timer.Remaining() > 47 {
		timer.Tick()
	}
	require.Equal(t, 47, timer.Remaining())

	assert.True(t, timer.Judge())
	assert.Equal(t, Decision, timer.Phase())
	assert.Equal(t, DefaultDecisionSeconds, timer.Remaining())

	assert.False(t, timer.Judge())
	for timer.Phase() != Ended {
		timer.Tick()
	}
	assert.Equal(t, []Phase{Interaction, Decision, Ended}, rec.changes)
}

func TestIdleIgnoresTicksAndJudge(t *testing.T) {
	rec := &recorder{}
	timer := NewTimer(Budgets{}, rec)
	timer.Tick()
	assert.False(t, timer.Judge())
	assert.Equal(t, Idle, timer.Phase())
	assert.Empty(t, rec.changes)
	assert.Empty(t, rec.ticks)
}

func TestStartOnlyOnce(t *testing.T) {
	timer := NewTimer(Budgets{InteractionSeconds: 5}, nil)
	assert.True(t, timer.Start())
	timer.Tick()
	assert.False(t, timer.Start())
	assert.Equal(t, 4, timer.Remaining())
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "02:00", FormatClock(120))
	assert.Equal(t, "00:47", FormatClock(47))
	assert.Equal(t, "00:00", FormatClock(-3))
}
