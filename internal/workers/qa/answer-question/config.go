// internal/workers/qa/answer-question/config.go
package answerquestion

import (
	"time"

	"nba-qa-workers/internal/common/config"
)

const defaultTimeout = 45 * time.Second

type Config struct {
	Timeout    time.Duration
	MaxRetries int
}

func NewConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Config{
		Timeout:    timeout,
		MaxRetries: wcfg.MaxRetries,
	}
}
