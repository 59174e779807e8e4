package game

import (
	"math/rand"
	"testing"
)

type stubRole struct {
	BaseRole
	shield *Player
}

func newStub(name string, align Alignment, atk AttackingPower, def DefensivePower) *stubRole {
	return &stubRole{BaseRole: BaseRole{RoleName: name, Align: align, Attack: atk, Defense: def}}
}

func (s *stubRole) Protects(target *Player) bool {
	return s.shield != nil && s.shield == target
}

func townie() *stubRole { return newStub("Townie", AlignmentTown, AttackNone, DefenseNone) }

func thug() *stubRole { return newStub("Thug", AlignmentMafia, AttackBasic, DefenseNone) }

func newTestGame(t *testing.T, names []string, roles ...Role) *Game {
	t.Helper()
	g, err := New(DefaultSettings(), nil, roles,
		WithID("test"),
		WithNames(names...),
		WithoutShuffle(),
		WithRand(rand.New(rand.NewSource(1))),
	)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}
