package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port            string        `env:"PORT"`
	DefaultProvider string        `env:"DEFAULT_PROVIDER" envDefault:"ollama"`
	DefaultModel    string        `env:"DEFAULT_MODEL" envDefault:"gemma3:4b"`
	SystemPrompt    string        `env:"SYSTEM_PROMPT"`
	OpenAIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL"`
	OllamaHost      string        `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	OllamaNumCtx    int           `env:"OLLAMA_NUM_CTX" envDefault:"8192"`
	AgentTimeout    time.Duration `env:"AGENT_TIMEOUT" envDefault:"2m"`
	AgentRetries    uint          `env:"AGENT_RETRIES" envDefault:"3"`
	GMUser          string        `env:"GM_USER"`
	GMPass          string        `env:"GM_PASS"`

	Roles               []string `env:"ROLES" envSeparator:"," envDefault:"Godfather,Mafioso,Innocent:11,Sheriff,Doctor"`
	FirstDaySpeakRounds int      `env:"FIRST_DAY_SPEAK_ROUNDS" envDefault:"1"`
	DaySpeakRounds      int      `env:"DAY_SPEAK_ROUNDS" envDefault:"3"`
	MaxDays             int      `env:"MAX_DAYS" envDefault:"30"`
	VoteTiePolicy       string   `env:"VOTE_TIE_POLICY" envDefault:"first"`
	Seed                int64    `env:"SEED"`

	TranscriptFile string `env:"TRANSCRIPT_FILE" envDefault:"game_history.txt"`
	ArchiveDB      string `env:"ARCHIVE_DB"`
	DebugDir       string `env:"DEBUG_DIR"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

func FromEnv() (Config, error) {
	c := Config{}
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.FirstDaySpeakRounds < 0 || c.DaySpeakRounds < 0 {
		return Config{}, fmt.Errorf("speak rounds must not be negative")
	}
	if c.MaxDays < 0 {
		return Config{}, fmt.Errorf("MAX_DAYS must not be negative")
	}
	return c, nil
}
