package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/kiliankoe/gptmafia/internal/game"
	"github.com/rs/zerolog"
)

type AgentConfig struct {
	Model string
	// SystemPrefix is prepended to every player's system prompt.
	SystemPrefix string
	Timeout      time.Duration
	Retries      uint
	// DebugDir receives one prompt and one response file per turn when set.
	DebugDir string
	Logger   zerolog.Logger
}

// Agent answers player turns through a Provider. It owns the turn counter
// used to name debug dumps, so two games never share numbering.
type Agent struct {
	provider   Provider
	cfg        AgentConfig
	turn       atomic.Int64
	newBackOff func() backoff.BackOff
}

func NewAgent(p Provider, cfg AgentConfig) *Agent {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Agent{
		provider: p,
		cfg:      cfg,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 30 * time.Second
			return b
		},
	}
}

// Turns is how many requests the agent has handled.
func (a *Agent) Turns() int64 { return a.turn.Load() }

func (a *Agent) Respond(ctx context.Context, req game.Request) (string, error) {
	ref := fmt.Sprintf("%s_%d", req.Player, a.turn.Add(1)-1)
	system := req.SystemPrompt
	if a.cfg.SystemPrefix != "" {
		system = a.cfg.SystemPrefix + "\n\n" + system
	}
	a.dump("prompts", "debug_prompt_"+ref+".txt", system+"\n"+req.UserPrompt)

	op := func() (string, error) {
		cctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
		out, err := a.provider.CompleteWithSystem(cctx, a.cfg.Model, system, req.UserPrompt)
		if err != nil {
			var se *StatusError
			if errors.Is(err, ErrNotConfigured) || (errors.As(err, &se) && !se.Retryable()) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		return out, nil
	}
	notify := func(err error, wait time.Duration) {
		a.cfg.Logger.Warn().Err(err).Str("player", req.Player).Str("phase", string(req.Phase)).
			Dur("wait", wait).Msg("agent request failed, retrying")
	}
	out, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(a.newBackOff()),
		backoff.WithMaxTries(a.cfg.Retries+1),
		backoff.WithNotify(notify),
	)
	if err != nil {
		return "", fmt.Errorf("agent %s: %w", a.cfg.Model, err)
	}
	a.dump("responses", "debug_response_"+ref+".txt", out)
	return out, nil
}

func (a *Agent) dump(sub, name, content string) {
	if a.cfg.DebugDir == "" {
		return
	}
	dir := filepath.Join(a.cfg.DebugDir, sub)
	if err := os.MkdirAll(dir, 0755); err != nil {
		a.cfg.Logger.Warn().Err(err).Str("dir", dir).Msg("debug dump failed")
		return
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		a.cfg.Logger.Warn().Err(err).Str("file", name).Msg("debug dump failed")
	}
}
