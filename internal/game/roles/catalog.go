// Package roles holds the playable roles. Each role expresses its behaviour
// as actions registered with the game at setup.
package roles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kiliankoe/gptmafia/internal/game"
)

const (
	NameGodfather = "Godfather"
	NameMafioso   = "Mafioso"
	NameInnocent  = "Innocent"
	NameDoctor    = "Doctor"
	NameSheriff   = "Sheriff"
	NameMayor     = "Mayor"
)

var ErrUnknownRole = errors.New("unknown role")

var constructors = map[string]func() game.Role{
	strings.ToLower(NameGodfather): func() game.Role { return NewGodfather() },
	strings.ToLower(NameMafioso):   func() game.Role { return NewMafioso() },
	strings.ToLower(NameInnocent):  func() game.Role { return NewInnocent() },
	strings.ToLower(NameDoctor):    func() game.Role { return NewDoctor() },
	strings.ToLower(NameSheriff):   func() game.Role { return NewSheriff() },
	strings.ToLower(NameMayor):     func() game.Role { return NewMayor() },
}

// DefaultSetup is the classic fifteen player game.
var DefaultSetup = []string{"Godfather", "Mafioso", "Innocent:11", "Sheriff", "Doctor"}

// New builds a fresh role instance by name, case-insensitively.
func New(name string) (game.Role, error) {
	ctor, ok := constructors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
	return ctor(), nil
}

// Parse expands entries of the form "Name" or "Name:count" into role instances.
func Parse(specs []string) ([]game.Role, error) {
	var out []game.Role
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		name, count := spec, 1
		if i := strings.IndexByte(spec, ':'); i >= 0 {
			n, err := strconv.Atoi(strings.TrimSpace(spec[i+1:]))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid role count in %q", spec)
			}
			name, count = spec[:i], n
		}
		for j := 0; j < count; j++ {
			r, err := New(name)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, game.ErrNoRoles
	}
	return out, nil
}
