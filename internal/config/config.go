package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrMissingOpenAIKey = errors.New("openai api key is required unless OFFLINE_MODE is set")
	ErrMissingTelegram  = errors.New("telegram token and player chat id are required")
)

type Config struct {
	OpenAIKey           string
	Model               string
	MaxCompletionTokens int
	TTSModel            string
	TTSVoice            string
	TTSFormat           string
	Offline             bool
	TelegramToken       string
	PlayerChatID        int64
	PromptsDir          string
	ContextLimit        int
	LogCapacity         int
	InteractionSeconds  int
	DecisionSeconds     int
	LogLevel            string
	LogFile             string
}

var defaults = map[string]any{
	"OPENAI_MODEL":          "gpt-4.1-mini",
	"MAX_TOKENS":            500,
	"OPENAI_TTS_MODEL":      "gpt-4o-mini-tts",
	"OPENAI_TTS_VOICE":      "onyx",
	"OPENAI_TTS_FORMAT":     "opus",
	"OFFLINE_MODE":          false,
	"CONTEXT_MESSAGE_LIMIT": 25,
	"LOG_CAPACITY":          500,
	"INTERACTION_SECONDS":   120,
	"DECISION_SECONDS":      10,
	"LOG_LEVEL":             "info",
}

// Load reads settings from the environment, falling back to the dotenv file
// at path and then to defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read %s: %w", path, err)
			}
		}
	}

	cfg := Config{
		OpenAIKey:           strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		Model:               v.GetString("OPENAI_MODEL"),
		MaxCompletionTokens: positiveOr(v.GetInt("MAX_TOKENS"), 500),
		TTSModel:            v.GetString("OPENAI_TTS_MODEL"),
		TTSVoice:            v.GetString("OPENAI_TTS_VOICE"),
		TTSFormat:           v.GetString("OPENAI_TTS_FORMAT"),
		Offline:             v.GetBool("OFFLINE_MODE"),
		TelegramToken:       strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		PlayerChatID:        v.GetInt64("TELEGRAM_PLAYER_CHAT_ID"),
		PromptsDir:          strings.TrimSpace(v.GetString("PROMPTS_DIR")),
		ContextLimit:        positiveOr(v.GetInt("CONTEXT_MESSAGE_LIMIT"), 25),
		LogCapacity:         positiveOr(v.GetInt("LOG_CAPACITY"), 500),
		InteractionSeconds:  positiveOr(v.GetInt("INTERACTION_SECONDS"), 120),
		DecisionSeconds:     positiveOr(v.GetInt("DECISION_SECONDS"), 10),
		LogLevel:            strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LogFile:             strings.TrimSpace(v.GetString("LOG_FILE")),
	}

	return cfg, nil
}

// ValidateBackend reports whether a completion backend can be built.
func (c Config) ValidateBackend() error {
	if c.Offline || c.OpenAIKey != "" {
		return nil
	}
	return ErrMissingOpenAIKey
}

func (c Config) ValidateTelegram() error {
	if c.TelegramToken == "" || c.PlayerChatID == 0 {
		return ErrMissingTelegram
	}
	return c.ValidateBackend()
}

func positiveOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
