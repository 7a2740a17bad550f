package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verdict-game/internal/adapter/memory"
	"verdict-game/internal/adapter/offline"
	"verdict-game/internal/adapter/openai"
	"verdict-game/internal/adapter/prompts"
	"verdict-game/internal/adapter/telegram"
	"verdict-game/internal/config"
	"verdict-game/internal/logging"
	"verdict-game/internal/usecase/game"
	"verdict-game/internal/usecase/persona"
	"verdict-game/internal/usecase/phase"
	"verdict-game/internal/usecase/tts"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := cfg.ValidateTelegram(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	source := prompts.NewSource(cfg.PromptsDir)

	var (
		client persona.Client
		speech *tts.Service
	)
	if cfg.Offline {
		client = offline.NewClient(800 * time.Millisecond)
	} else {
		openAIClient := openai.NewClient(cfg.OpenAIKey)
		client = openAIClient
		speech = tts.NewService(openAIClient, source, cfg)
	}

	deps := game.Deps{
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
		Logger: logger,
	}

	bot, err := telegram.NewBot(cfg, deps, speech)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init telegram bot")
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info().Int64("chat", cfg.PlayerChatID).Bool("offline", cfg.Offline).Msg("bot started")
	if err := bot.Run(ctx); err != nil {
		if ctx.Err() != nil {
			logger.Info().Err(err).Msg("shutdown")
			return
		}
		logger.Fatal().Err(err).Msg("bot stopped with error")
	}
}
