package internal

import (
	"chat-mock/errors"
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
	ReplyDelay       time.Duration `env:"REPLY_DELAY,default=2s"`
	ReplyProbability float64       `env:"REPLY_PROBABILITY,default=0.5"`
	ExtraChats       int           `env:"EXTRA_CHATS,default=15"`
	BufferSize       int           `env:"BUFFER_SIZE,default=64"`
	SinkTimeout      time.Duration `env:"SINK_TIMEOUT,default=1s"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	NarrowWidth      int           `env:"NARROW_WIDTH,default=100"`
	TerminalWidth    int           `env:"TERMINAL_WIDTH,default=120"`
	Seed             int64         `env:"SEED,default=0"`
	MetricInterval   time.Duration `env:"METRIC_INTERVAL,default=10s"`
	LowCapacity      int           `env:"LOW_CAPACITY_THRESHOLD,default=8"`
}

// LoadConfig reads an optional .env file then the environment.
// Variables already set in the environment win over the .env file.
func LoadConfig(files ...string) (Config, error) {
	// A missing .env is not an error: every field has a default.
	_ = godotenv.Load(files...)

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	switch {
	case c.ReplyProbability < 0 || c.ReplyProbability > 1:
		return fmt.Errorf("%w: REPLY_PROBABILITY must be within [0,1], got %v", errors.ErrInvalidConfig, c.ReplyProbability)
	case c.ReplyDelay <= 0:
		return fmt.Errorf("%w: REPLY_DELAY must be positive, got %s", errors.ErrInvalidConfig, c.ReplyDelay)
	case c.SinkTimeout <= 0:
		return fmt.Errorf("%w: SINK_TIMEOUT must be positive, got %s", errors.ErrInvalidConfig, c.SinkTimeout)
	case c.BufferSize <= 0:
		return fmt.Errorf("%w: BUFFER_SIZE must be positive, got %d", errors.ErrInvalidConfig, c.BufferSize)
	case c.LowCapacity < 0:
		return fmt.Errorf("%w: LOW_CAPACITY_THRESHOLD must not be negative, got %d", errors.ErrInvalidConfig, c.LowCapacity)
	case c.ExtraChats < 0:
		return fmt.Errorf("%w: EXTRA_CHATS must not be negative, got %d", errors.ErrInvalidConfig, c.ExtraChats)
	}
	return nil
}

// SeedValue is the seed of the mock data generator: SEED, or the current
// time when SEED is 0.
func (c Config) SeedValue(now time.Time) int64 {
	if c.Seed == 0 {
		return now.UnixNano()
	}
	return c.Seed
}

// IsNarrow reports whether the terminal is too small for the two-pane layout.
func (c Config) IsNarrow() bool {
	return c.TerminalWidth < c.NarrowWidth
}
