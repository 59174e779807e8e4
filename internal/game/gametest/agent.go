// Package gametest provides scripted agents for driving games in tests.
package gametest

import (
	"context"
	"sync"

	"github.com/kiliankoe/gptmafia/internal/game"
)

// Script answers every turn from per-phase tables keyed by player name.
// Players without an entry answer with an empty string.
type Script struct {
	Day   map[string]string
	Vote  map[string]string
	Night map[string]string
	// DayN overrides Day, Vote and Night for a given day number.
	DayN map[int]*Script
	// Err, when set, fails every call.
	Err error

	mu    sync.Mutex
	calls []game.Request
}

func (s *Script) Respond(_ context.Context, req game.Request) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	table := s
	if o, ok := s.DayN[req.Day]; ok && o != nil {
		table = o
	}
	switch req.Phase {
	case game.PhaseDay:
		return table.Day[req.Player], nil
	case game.PhaseVote:
		return table.Vote[req.Player], nil
	case game.PhaseNight:
		return table.Night[req.Player], nil
	}
	return "", nil
}

// Calls returns every request seen so far, in order.
func (s *Script) Calls() []game.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.Request(nil), s.calls...)
}

// Players returns the names of the players asked during phase on day, in order.
func (s *Script) Players(phase game.Phase, day int) []string {
	var out []string
	for _, c := range s.Calls() {
		if c.Phase == phase && c.Day == day {
			out = append(out, c.Player)
		}
	}
	return out
}

