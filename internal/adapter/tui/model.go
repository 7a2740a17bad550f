package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"verdict-game/internal/domain"
	"verdict-game/internal/usecase/game"
	"verdict-game/internal/usecase/persona"
	"verdict-game/internal/usecase/phase"
	"verdict-game/internal/usecase/verdict"
)

const judgeCommand = "/judge"

type tickMsg time.Time

type turnDoneMsg struct {
	result persona.Result
}

// IntroSource supplies the narration shown the first time a persona is opened.
type IntroSource interface {
	LoadIntroScript(personaKey string) (string, error)
}

// Signals collects the timer's phase changes so the model can react to them
// on its next update. Pass it to the game as its observer.
type Signals struct {
	changes []phase.Phase
}

func NewSignals() *Signals {
	return &Signals{}
}

func (s *Signals) OnTick(phase.Phase, int) {}

func (s *Signals) OnPhaseChanged(p phase.Phase) {
	s.changes = append(s.changes, p)
}

func (s *Signals) drain() []phase.Phase {
	out := s.changes
	s.changes = nil
	return out
}

var _ phase.Observer = (*Signals)(nil)

type Options struct {
	Intro  IntroSource
	Logger zerolog.Logger
}

// Model is the bubbletea program for one game. Its Update is the only place
// the game is mutated.
type Model struct {
	ctx     context.Context
	game    *game.Game
	signals *Signals
	intro   IntroSource
	logger  zerolog.Logger
	theme   theme

	keys      []string
	active    int
	narration map[string]string
	notices   map[string]string

	input      textinput.Model
	transcript viewport.Model
	spinner    spinner.Model

	status    string
	statusErr bool
	width     int
	height    int
}

func New(ctx context.Context, g *game.Game, signals *Signals, opts Options) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 1000
	input.Placeholder = "Question the witness. " + judgeCommand + " ends questioning early."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#e9c46a"))

	transcript := viewport.New(0, 0)
	transcript.MouseWheelEnabled = true

	if signals == nil {
		signals = NewSignals()
	}

	m := Model{
		ctx:        ctx,
		game:       g,
		signals:    signals,
		intro:      opts.Intro,
		logger:     opts.Logger,
		theme:      newTheme(),
		narration:  make(map[string]string),
		notices:    make(map[string]string),
		input:      input,
		transcript: transcript,
		spinner:    sp,
	}
	for _, s := range g.Sessions() {
		m.keys = append(m.keys, s.Persona().Key)
	}
	m.focusPersona(0)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		tickEvery(),
	)
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitTurn(turn *persona.Turn) tea.Cmd {
	return func() tea.Msg {
		return turnDoneMsg{result: <-turn.Done()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tickMsg:
		if m.game.Phase() == phase.Ended {
			break
		}
		m.game.Tick()
		m.applySignals()
		if m.game.Phase() != phase.Ended {
			cmds = append(cmds, tickEvery())
		}
	case turnDoneMsg:
		m.applyResult(msg.result)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderTranscript()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		cmds = append(cmds, cmd)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		if m.deciding() {
			return m.handleVerdictKey(msg)
		}
		switch msg.String() {
		case "tab":
			m.focusPersona(m.active + 1)
			return m, nil
		case "shift+tab":
			m.focusPersona(m.active - 1)
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		case "enter":
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) deciding() bool {
	p := m.game.Phase()
	return p == phase.Decision || p == phase.Ended
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == judgeCommand {
		m.input.Reset()
		if m.game.Judge() {
			m.applySignals()
		}
		return m, nil
	}

	key := m.activeKey()
	turn, err := m.game.Submit(m.ctx, key, text)
	if errors.Is(err, persona.ErrEmptyInput) {
		return m, nil
	}
	if err != nil {
		m.setError(err)
		return m, nil
	}

	m.input.Reset()
	delete(m.notices, key)
	m.setStatus(fmt.Sprintf("%s is answering...", m.activeSession().Persona().ConversationID))
	m.renderTranscript()
	return m, waitTurn(turn)
}

func (m *Model) applyResult(res persona.Result) {
	_, err := m.game.Apply(res)
	switch {
	case errors.Is(err, persona.ErrStaleTurn):
		return
	case err != nil:
		m.notices[res.Persona] = "No answer: " + err.Error()
		m.setError(err)
	default:
		if !m.deciding() {
			m.setStatus("")
		}
	}
	m.renderTranscript()
}

func (m *Model) applySignals() {
	for _, p := range m.signals.drain() {
		switch p {
		case phase.Decision:
			m.input.Blur()
			m.setStatus("Questioning is over. Press y for guilty or n for not guilty.")
		case phase.Ended:
			if !m.game.Verdict().Decided() {
				m.setStatus("The clock has stopped. The court still waits for your verdict.")
			}
		}
	}
}

func (m Model) handleVerdictKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" && m.game.Verdict().Decided() {
		return m, tea.Quit
	}
	if key == "g" {
		key = "guilty"
	}
	choice, err := verdict.ParseChoice(key)
	if err != nil {
		return m, nil
	}
	if _, err := m.game.Choose(choice); err != nil {
		if !errors.Is(err, verdict.ErrAlreadyDecided) {
			m.setError(err)
		}
		return m, nil
	}
	m.setStatus(fmt.Sprintf("Verdict: %s. Press q to leave the courtroom.", choice))
	return m, nil
}

func (m *Model) focusPersona(i int) {
	n := len(m.keys)
	if n == 0 {
		return
	}
	m.active = ((i % n) + n) % n

	key := m.activeKey()
	if m.intro != nil && m.game.ClaimIntro(key) {
		script, err := m.intro.LoadIntroScript(key)
		if err != nil {
			m.logger.Warn().Err(err).Str("persona", key).Msg("intro script unavailable")
		} else {
			m.narration[key] = strings.TrimSpace(script)
		}
	}
	m.renderTranscript()
	m.transcript.GotoBottom()
}

func (m Model) activeKey() string {
	return m.keys[m.active]
}

func (m Model) activeSession() *persona.Session {
	s, _ := m.game.Session(m.activeKey())
	return s
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) resize() {
	contentWidth := max(40, m.width-4)
	m.input.Width = max(20, contentWidth-6)
	m.transcript.Width = max(20, contentWidth-4)
	m.transcript.Height = max(5, m.height-12)
}

func (m *Model) renderTranscript() {
	atBottom := m.transcript.AtBottom()
	m.transcript.SetContent(m.transcriptText())
	if atBottom {
		m.transcript.GotoBottom()
	}
}

// transcriptText renders the active persona's dialogue. System messages carry
// the persona prompt and injected context and are never shown.
func (m Model) transcriptText() string {
	s := m.activeSession()
	key := m.activeKey()
	var b strings.Builder

	if text, ok := m.narration[key]; ok {
		b.WriteString(m.theme.narration.Render(text))
		b.WriteString("\n\n")
	}
	if err := s.Err(); err != nil {
		b.WriteString(m.theme.errorStatus.Render("This witness is unavailable: " + err.Error()))
		return b.String()
	}

	for _, msg := range s.Transcript() {
		if msg.Role == domain.RoleSystem {
			continue
		}
		styleKey := domain.RoleUser
		speaker := "You"
		if msg.Role == domain.RoleAssistant {
			styleKey = key
			speaker = s.Speaker(msg)
		}
		b.WriteString(m.theme.speaker(styleKey).Render(speaker))
		b.WriteString("\n")
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	if s.State() == persona.StateAwaitingResponse {
		b.WriteString(m.theme.helpText.Render(s.Persona().ConversationID + " is thinking..."))
	}
	if notice, ok := m.notices[key]; ok {
		b.WriteString(m.theme.errorStatus.Render(notice))
	}
	if b.Len() == 0 {
		return m.theme.helpText.Render("No questions yet. Type below and press enter.")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) View() string {
	header := m.renderHeader()
	var body string
	if m.deciding() {
		body = m.renderVerdict()
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), m.renderConversation(), m.renderInput())
	}
	return m.theme.root.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter()))
}

func (m Model) renderHeader() string {
	remaining := m.game.Remaining()
	clock := m.theme.clock
	if m.game.Phase() == phase.Decision || remaining <= 10 {
		clock = m.theme.clockUrgent
	}
	title := m.theme.panelTitle.Render("THE HARBOUR STREET HEARING")
	line := fmt.Sprintf("%s  %s  %s", title, m.game.Phase(), clock.Render(phase.FormatClock(remaining)))
	return m.theme.header.Width(max(40, m.width-4)).Render(line)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(m.keys))
	for i, key := range m.keys {
		s, _ := m.game.Session(key)
		label := s.Persona().ConversationID
		if s.State() == persona.StateAwaitingResponse {
			label += " " + m.spinner.View()
		}
		if i == m.active {
			tabs = append(tabs, m.theme.tabActive.Render(label))
		} else {
			tabs = append(tabs, m.theme.tabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderConversation() string {
	return m.theme.panel.Width(max(40, m.width-4)).Render(m.transcript.View())
}

func (m Model) renderInput() string {
	return m.theme.inputPanel.Width(max(40, m.width-4)).Render(m.input.View())
}

func (m Model) renderVerdict() string {
	v := m.game.Verdict()
	var b strings.Builder
	b.WriteString(m.theme.panelTitle.Render("The court awaits your verdict"))
	b.WriteString("\n\n")
	b.WriteString(verdict.Question)
	b.WriteString("\n\n")
	if v.Decided() {
		b.WriteString(m.theme.clockUrgent.Render("You found the unit " + v.Choice().String() + "."))
		b.WriteString("\n\n")
		b.WriteString(v.Outcome())
	} else {
		b.WriteString(m.theme.helpText.Render("[y] guilty    [n] not guilty"))
	}
	return m.theme.verdict.Width(max(40, m.width-4)).Render(b.String())
}

func (m Model) renderFooter() string {
	help := "tab switch witness · enter ask · " + judgeCommand + " end questioning · esc quit"
	if m.deciding() {
		help = "y guilty · n not guilty · q leave after deciding · esc quit"
	}
	out := m.theme.helpText.Render(help)
	if m.status != "" {
		style := m.theme.status
		if m.statusErr {
			style = m.theme.errorStatus
		}
		out = style.Render(m.status) + "\n" + out
	}
	return m.theme.footer.Render(out)
}
