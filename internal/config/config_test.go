package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	for key := range defaults {
		s.T().Setenv(key, "")
	}
	for _, key := range []string{"OPENAI_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_PLAYER_CHAT_ID", "PROMPTS_DIR", "LOG_FILE"} {
		s.T().Setenv(key, "")
	}
}

func (s *ConfigTestSuite) writeEnv(content string) string {
	path := filepath.Join(s.dir, ".env")
	require.NoError(s.T(), os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefaultsWithoutFile() {
	cfg, err := Load(filepath.Join(s.dir, "missing.env"))
	s.Require().NoError(err)

	s.Equal("gpt-4.1-mini", cfg.Model)
	s.Equal(500, cfg.MaxCompletionTokens)
	s.Equal(25, cfg.ContextLimit)
	s.Equal(500, cfg.LogCapacity)
	s.Equal(120, cfg.InteractionSeconds)
	s.Equal(10, cfg.DecisionSeconds)
	s.Equal("info", cfg.LogLevel)
	s.False(cfg.Offline)
	s.ErrorIs(cfg.ValidateBackend(), ErrMissingOpenAIKey)
}

func (s *ConfigTestSuite) TestReadsDotEnv() {
	path := s.writeEnv(`# courtroom
OPENAI_API_KEY=sk-test
OPENAI_MODEL="gpt-4.1"
INTERACTION_SECONDS=90
TELEGRAM_BOT_TOKEN=123:abc
TELEGRAM_PLAYER_CHAT_ID=42
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal("sk-test", cfg.OpenAIKey)
	s.Equal("gpt-4.1", cfg.Model)
	s.Equal(90, cfg.InteractionSeconds)
	s.Equal(int64(42), cfg.PlayerChatID)
	s.NoError(cfg.ValidateTelegram())
}

func (s *ConfigTestSuite) TestEnvironmentWinsOverFile() {
	path := s.writeEnv("OPENAI_MODEL=from-file\n")
	s.T().Setenv("OPENAI_MODEL", "from-env")

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal("from-env", cfg.Model)
}

func (s *ConfigTestSuite) TestInvalidNumbersFallBack() {
	s.T().Setenv("DECISION_SECONDS", "soon")
	s.T().Setenv("LOG_CAPACITY", "-4")

	cfg, err := Load("")
	s.Require().NoError(err)
	s.Equal(10, cfg.DecisionSeconds)
	s.Equal(500, cfg.LogCapacity)
}

func (s *ConfigTestSuite) TestOfflineNeedsNoKey() {
	s.T().Setenv("OFFLINE_MODE", "true")

	cfg, err := Load("")
	s.Require().NoError(err)
	s.True(cfg.Offline)
	s.NoError(cfg.ValidateBackend())
	s.ErrorIs(cfg.ValidateTelegram(), ErrMissingTelegram)
}
