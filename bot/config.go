package bot

import (
	"time"

	"github.com/joeshaw/envdecode"
)

// Config is the process configuration, populated from the environment
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR,default=:8000"`
	// BaseURL is the public address join links point at
	BaseURL string `env:"BASE_URL,default=http://localhost:8000"`
	// IdleTimeout is how long a session may sit untouched before it is
	// terminated; a warning goes out at 90% of it
	IdleTimeout  time.Duration `env:"GAME_IDLE_TIMEOUT,default=10m"`
	PollInterval time.Duration `env:"POLL_INTERVAL,default=250ms"`
}

// ConfigFromEnv decodes the configuration from environment variables
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
