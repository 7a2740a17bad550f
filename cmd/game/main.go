package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"verdict-game/internal/adapter/memory"
	"verdict-game/internal/adapter/offline"
	"verdict-game/internal/adapter/openai"
	"verdict-game/internal/adapter/prompts"
	"verdict-game/internal/adapter/tui"
	"verdict-game/internal/config"
	"verdict-game/internal/logging"
	"verdict-game/internal/usecase/game"
	"verdict-game/internal/usecase/persona"
	"verdict-game/internal/usecase/phase"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateBackend(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs only go to LOG_FILE.
	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	var client persona.Client
	if cfg.Offline {
		client = offline.NewClient(800 * time.Millisecond)
	} else {
		client = openai.NewClient(cfg.OpenAIKey)
	}

	source := prompts.NewSource(cfg.PromptsDir)
	signals := tui.NewSignals()
	g := game.New(game.Deps{
		Log:     memory.NewLog(cfg.LogCapacity),
		Client:  client,
		Prompts: source,
		Settings: persona.Settings{
			Model:               cfg.Model,
			MaxCompletionTokens: cfg.MaxCompletionTokens,
			ContextLimit:        cfg.ContextLimit,
		},
		Budgets: phase.Budgets{
			InteractionSeconds: cfg.InteractionSeconds,
			DecisionSeconds:    cfg.DecisionSeconds,
		},
		Observer: signals,
		Logger:   logger,
	})
	if err := g.Start(); err != nil {
		logger.Error().Err(err).Msg("some witnesses are unavailable")
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	model := tui.New(ctx, g, signals, tui.Options{Intro: source, Logger: logger})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("ui stopped with error")
		fmt.Fprintf(os.Stderr, "verdict-game: %v\n", err)
		os.Exit(1)
	}
}
