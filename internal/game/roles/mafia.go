package roles

import (
	"fmt"

	"github.com/kiliankoe/gptmafia/internal/game"
)

const (
	ActionKill     = "KILL"
	ActionVoteKill = "VOTEKILL"

	godfatherPriority = 100
	mafiosoPriority   = 99
)

// Godfather leads the Mafia. His kill is carried out by a living Mafioso
// when there is one.
type Godfather struct {
	game.BaseRole
}

func NewGodfather() *Godfather {
	return &Godfather{BaseRole: game.BaseRole{
		RoleName: NameGodfather,
		Align:    game.AlignmentMafia,
		Attack:   game.AttackBasic,
		Defense:  game.DefenseBasic,
		Text: game.Prompts{
			Role: "You are the Godfather, the leader of the Mafia. You decide who the Mafia kills at night " +
				"and must avoid suspicion during the day. Investigations report you as not suspicious.",
			Day: "It is the day phase. Blend in with the town, steer your Mafia and avoid being voted out. " +
				"Defend yourself or accuse others, but never reveal you are Mafia.",
			Night: "It is the night phase. Secretly choose a town member to eliminate. You have the final say on the Mafia's target.",
		},
	}}
}

func (r *Godfather) SetupActions(g *game.Game) error {
	return r.AddAction(g, r, game.NewAction(ActionKill, game.PhaseNight, godfatherPriority, r.kill))
}

func (r *Godfather) AppearsSuspicious() bool { return false }

func (r *Godfather) kill(g *game.Game, p *game.Player, content string) error {
	target, ok := nightTarget(g, p, "kill", content)
	if !ok {
		return nil
	}
	attacker := p
	if m := g.FindAlive(isMafioso); m != nil {
		attacker = m
		m.AddToHistory(fmt.Sprintf("The Godfather ordered you to kill %s.", target.Name))
	}
	g.Narrate(fmt.Sprintf("Godfather %s is attacking %s.", p.Name, target.Name))
	_, err := g.Attack(attacker, target)
	return err
}

// Mafioso is the Mafia's enforcer. He only chooses a target himself while no
// Godfather is alive.
type Mafioso struct {
	game.BaseRole
}

func NewMafioso() *Mafioso {
	return &Mafioso{BaseRole: game.BaseRole{
		RoleName: NameMafioso,
		Align:    game.AlignmentMafia,
		Attack:   game.AttackBasic,
		Defense:  game.DefenseNone,
		Text: game.Prompts{
			Role: "You are the Mafioso, the enforcer of the Mafia. You carry out the Godfather's orders at night.",
			Day: "It is the day phase. Blend in with the town, cast suspicion on others and avoid being voted out. " +
				"Defend yourself or accuse others, but never reveal you are Mafia.",
			Night: "It is the night phase. The Godfather picks the target while he lives. " +
				"If there is no Godfather, you choose the target.",
		},
	}}
}

func (r *Mafioso) SetupActions(g *game.Game) error {
	return r.AddAction(g, r, game.NewAction(ActionVoteKill, game.PhaseNight, mafiosoPriority, r.kill))
}

func (r *Mafioso) kill(g *game.Game, p *game.Player, content string) error {
	if g.FindAlive(isGodfather) != nil {
		return nil
	}
	target, ok := nightTarget(g, p, "kill", content)
	if !ok {
		return nil
	}
	g.Narrate(fmt.Sprintf("Mafioso %s is attacking %s.", p.Name, target.Name))
	_, err := g.Attack(p, target)
	return err
}

func isGodfather(r game.Role) bool {
	_, ok := r.(*Godfather)
	return ok
}

func isMafioso(r game.Role) bool {
	_, ok := r.(*Mafioso)
	return ok
}

// nightTarget resolves a named target for a night action, narrating and
// rejecting names that are unknown or already dead.
func nightTarget(g *game.Game, p *game.Player, verb, content string) (*game.Player, bool) {
	target := g.PlayerByName(content)
	if target == nil || !target.IsAlive() {
		p.AddToHistory(fmt.Sprintf("Invalid %s target.", verb))
		g.Narrate(fmt.Sprintf("%s attempted to %s an invalid target: %q.", p.Name, verb, content))
		return nil, false
	}
	return target, true
}
