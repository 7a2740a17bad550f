package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"verdict-game/internal/config"
	"verdict-game/internal/domain"
	"verdict-game/internal/usecase/game"
	"verdict-game/internal/usecase/persona"
	"verdict-game/internal/usecase/phase"
	"verdict-game/internal/usecase/tts"
	"verdict-game/internal/usecase/verdict"
)

const (
	chunkSize      = 2048
	callbackPrefix = "verdict:"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot runs one game for one player chat. Updates, clock ticks and finished
// turns are all handled on the Run loop; only backend calls and intro
// synthesis run on their own goroutines.
type Bot struct {
	api    botAPI
	cfg    config.Config
	game   *game.Game
	speech *tts.Service
	logger zerolog.Logger

	results   chan persona.Result
	wg        conc.WaitGroup
	tickEvery time.Duration
	active    string
	started   bool
}

// NewBot connects to Telegram and builds the game. speech may be nil, in
// which case the patrol intro is skipped.
func NewBot(cfg config.Config, deps game.Deps, speech *tts.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	return newBot(api, cfg, deps, speech), nil
}

func newBot(api botAPI, cfg config.Config, deps game.Deps, speech *tts.Service) *Bot {
	b := &Bot{
		api:       api,
		cfg:       cfg,
		speech:    speech,
		logger:    deps.Logger.With().Str("component", "telegram").Logger(),
		results:   make(chan persona.Result),
		tickEvery: time.Second,
		active:    domain.PersonaDelivery,
	}
	deps.Observer = b
	b.game = game.New(deps)
	return b
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	ticker := time.NewTicker(b.tickEvery)
	defer ticker.Stop()
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return errors.New("telegram updates channel closed")
			}
			b.handleUpdate(ctx, update)
		case <-ticker.C:
			b.game.Tick()
		case res := <-b.results:
			b.deliver(res)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat.ID != b.cfg.PlayerChatID {
		b.sendText(msg.Chat.ID, msg.MessageID, "This courtroom is private.")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if !b.started {
		b.sendText(msg.Chat.ID, msg.MessageID, "The hearing has not started. Send /start.")
		return
	}

	turn, err := b.game.Submit(ctx, b.active, msg.Text)
	switch {
	case errors.Is(err, persona.ErrEmptyInput):
		return
	case errors.Is(err, persona.ErrBusy):
		b.sendText(msg.Chat.ID, msg.MessageID, "The witness is still answering.")
		return
	case errors.Is(err, persona.ErrDisabled):
		b.sendText(msg.Chat.ID, msg.MessageID, "Questioning is over. Deliver your verdict.")
		return
	case err != nil:
		b.logger.Warn().Err(err).Str("persona", b.active).Msg("submit refused")
		b.sendText(msg.Chat.ID, msg.MessageID, "This witness cannot answer right now.")
		return
	}

	b.sendChatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	b.wg.Go(func() {
		res := <-turn.Done()
		select {
		case b.results <- res:
		case <-ctx.Done():
		}
	})
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch cmd := msg.Command(); cmd {
	case "start":
		b.start(chatID)
	case domain.PersonaDelivery, domain.PersonaPatrol, domain.PersonaSecurity:
		if !b.started {
			b.sendText(chatID, msg.MessageID, "The hearing has not started. Send /start.")
			return
		}
		b.active = cmd
		p, _ := domain.LookupPersona(cmd)
		b.sendText(chatID, msg.MessageID, "You are now questioning "+p.ConversationID+".")
		b.playIntro(ctx, chatID, cmd)
	case "judge":
		if !b.game.Judge() {
			b.sendText(chatID, msg.MessageID, "The verdict can only be called during questioning.")
		}
	case "guilty":
		b.choose(chatID, verdict.Guilty)
	case "notguilty":
		b.choose(chatID, verdict.NotGuilty)
	case "status":
		b.sendText(chatID, msg.MessageID, b.statusLine())
	default:
		b.sendText(chatID, msg.MessageID, helpText)
	}
}

const helpText = `/start opens the hearing
/delivery, /patrol, /security pick the witness to question
/judge ends questioning early
/guilty, /notguilty deliver the verdict
/status shows the clock`

func (b *Bot) start(chatID int64) {
	if b.started {
		b.sendText(chatID, 0, b.statusLine())
		return
	}
	b.started = true
	if err := b.game.Start(); err != nil {
		b.logger.Error().Err(err).Msg("some witnesses are unavailable")
	}
	b.sendText(chatID, 0, fmt.Sprintf(
		"The hearing is open. You have %s to question the witnesses.\n\n%s",
		phase.FormatClock(b.game.Remaining()), helpText,
	))
}

func (b *Bot) deliver(res persona.Result) {
	reply, err := b.game.Apply(res)
	if errors.Is(err, persona.ErrStaleTurn) {
		return
	}

	name := res.Persona
	if p, ok := domain.LookupPersona(res.Persona); ok {
		name = p.ConversationID
	}
	if err != nil {
		b.sendText(b.cfg.PlayerChatID, 0, name+" did not answer. Ask again.")
		return
	}
	b.sendText(b.cfg.PlayerChatID, 0, name+": "+reply.Content)
}

func (b *Bot) playIntro(ctx context.Context, chatID int64, key string) {
	if b.speech == nil || !b.game.ClaimIntro(key) {
		return
	}
	b.sendChatAction(chatID, tgbotapi.ChatRecordVoice)
	b.wg.Go(func() {
		resp, err := b.speech.Intro(ctx, key)
		if err != nil {
			b.logger.Warn().Err(err).Str("persona", key).Msg("intro synthesis failed")
			return
		}
		voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{Name: "intro.ogg", Bytes: resp.Data})
		if _, err := b.api.Send(voice); err != nil {
			b.logger.Warn().Err(err).Msg("failed to send intro voice")
		}
	})
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat.ID != b.cfg.PlayerChatID {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Warn().Err(err).Msg("failed to answer callback")
	}
	choice, err := verdict.ParseChoice(strings.TrimPrefix(cq.Data, callbackPrefix))
	if err != nil {
		return
	}
	if b.choose(cq.Message.Chat.ID, choice) {
		markup := tgbotapi.NewEditMessageReplyMarkup(cq.Message.Chat.ID, cq.Message.MessageID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
		if _, err := b.api.Request(markup); err != nil {
			b.logger.Warn().Err(err).Msg("failed to clear verdict buttons")
		}
	}
}

func (b *Bot) choose(chatID int64, choice verdict.Choice) bool {
	outcome, err := b.game.Choose(choice)
	switch {
	case errors.Is(err, verdict.ErrAlreadyDecided):
		b.sendText(chatID, 0, "You already delivered your verdict.")
		return false
	case errors.Is(err, verdict.ErrNotDeciding):
		b.sendText(chatID, 0, "The verdict opens when questioning ends. Send /judge to end it now.")
		return false
	case err != nil:
		b.logger.Error().Err(err).Msg("verdict failed")
		return false
	}
	b.sendText(chatID, 0, fmt.Sprintf("You found the unit %s.\n\n%s", choice, outcome))
	return true
}

func (b *Bot) statusLine() string {
	if !b.started {
		return "The hearing has not started. Send /start."
	}
	p, _ := domain.LookupPersona(b.active)
	return fmt.Sprintf("Phase: %s, %s left. Questioning %s.",
		b.game.Phase(), phase.FormatClock(b.game.Remaining()), p.ConversationID)
}

func (b *Bot) OnTick(p phase.Phase, secondsRemaining int) {
	if p != phase.Interaction {
		return
	}
	switch secondsRemaining {
	case 60, 30, 10:
		b.sendText(b.cfg.PlayerChatID, 0, phase.FormatClock(secondsRemaining)+" left for questioning.")
	}
}

func (b *Bot) OnPhaseChanged(p phase.Phase) {
	switch p {
	case phase.Decision:
		msg := tgbotapi.NewMessage(b.cfg.PlayerChatID, fmt.Sprintf(
			"Questioning is over. You have %s.\n\n%s",
			phase.FormatClock(b.game.Remaining()), verdict.Question,
		))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Guilty", callbackPrefix+"guilty"),
				tgbotapi.NewInlineKeyboardButtonData("Not guilty", callbackPrefix+"not-guilty"),
			),
		)
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Warn().Err(err).Msg("failed to send verdict prompt")
		}
	case phase.Ended:
		if !b.game.Verdict().Decided() {
			b.sendText(b.cfg.PlayerChatID, 0, "The clock has stopped. The court still waits for your verdict.")
		}
	}
}

var _ phase.Observer = (*Bot)(nil)

func (b *Bot) sendText(chatID int64, replyTo int, text string) {
	chunks := splitText(text, chunkSize)
	for idx, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if idx == 0 && replyTo != 0 {
			msg.ReplyToMessageID = replyTo
		}
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Warn().Err(err).Msg("failed to send reply")
		}
	}
}

func (b *Bot) sendChatAction(chatID int64, action string) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		b.logger.Warn().Err(err).Msg("failed to send chat action")
	}
}

func splitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/chunkSize+1)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
