package internal

import (
	"chat-mock/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	req := require.New(t)
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REPLY_DELAY", "500ms")
	t.Setenv("REPLY_PROBABILITY", "1")
	t.Setenv("EXTRA_CHATS", "3")
	t.Setenv("SEED", "99")

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal("DEBUG", config.LogLevel)
	req.Equal(500*time.Millisecond, config.ReplyDelay)
	req.Equal(1.0, config.ReplyProbability)
	req.Equal(3, config.ExtraChats)
	req.Equal(int64(99), config.Seed)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	t.Setenv("REPLY_PROBABILITY", "1.5")

	_, err := LoadConfig()

	require.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		ReplyDelay:       2 * time.Second,
		ReplyProbability: 0.5,
		ExtraChats:       15,
		BufferSize:       64,
		SinkTimeout:      time.Second,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative probability", func(c *Config) { c.ReplyProbability = -0.1 }},
		{"zero delay", func(c *Config) { c.ReplyDelay = 0 }},
		{"zero sink timeout", func(c *Config) { c.SinkTimeout = 0 }},
		{"zero buffer", func(c *Config) { c.BufferSize = 0 }},
		{"negative extra chats", func(c *Config) { c.ExtraChats = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			require.ErrorIs(t, config.Validate(), errors.ErrInvalidConfig)
		})
	}
}

func TestConfig_SeedValue(t *testing.T) {
	now := time.Unix(1700000000, 0)

	require.Equal(t, now.UnixNano(), Config{}.SeedValue(now))
	require.Equal(t, int64(42), Config{Seed: 42}.SeedValue(now))
}

func TestConfig_IsNarrow(t *testing.T) {
	require.True(t, Config{TerminalWidth: 80, NarrowWidth: 100}.IsNarrow())
	require.False(t, Config{TerminalWidth: 100, NarrowWidth: 100}.IsNarrow())
}
