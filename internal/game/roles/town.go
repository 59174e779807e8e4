package roles

import (
	"fmt"

	"github.com/kiliankoe/gptmafia/internal/game"
)

const (
	ActionHeal        = "HEAL"
	ActionInvestigate = "INVESTIGATE"
	ActionReveal      = "REVEAL"

	doctorPriority  = 1
	sheriffPriority = 10
)

type Innocent struct {
	game.BaseRole
}

func NewInnocent() *Innocent {
	return &Innocent{BaseRole: game.BaseRole{
		RoleName: NameInnocent,
		Align:    game.AlignmentTown,
		Text:     game.Prompts{Role: "You are an innocent bystander."},
	}}
}

// Doctor heals one player per night. The heal lasts until the next day starts.
type Doctor struct {
	game.BaseRole

	healing *game.Player
}

func NewDoctor() *Doctor {
	return &Doctor{BaseRole: game.BaseRole{
		RoleName: NameDoctor,
		Align:    game.AlignmentTown,
		Text: game.Prompts{
			Role:  "You are the Doctor. Each night you may choose one player to heal, protecting them from attacks.",
			Day:   "It is the day phase. Blend in with the town and work out who needs protection.",
			Night: "It is the night phase. Secretly choose a player to heal.",
		},
	}}
}

func (r *Doctor) SetupActions(g *game.Game) error {
	return r.AddAction(g, r, game.NewAction(ActionHeal, game.PhaseNight, doctorPriority, r.heal))
}

func (r *Doctor) OnDayStart(*game.Game) { r.healing = nil }

func (r *Doctor) Protects(target *game.Player) bool {
	return r.healing != nil && r.healing == target
}

// Healing is tonight's protected player, nil when none.
func (r *Doctor) Healing() *game.Player { return r.healing }

func (r *Doctor) heal(g *game.Game, p *game.Player, content string) error {
	target, ok := nightTarget(g, p, "heal", content)
	if !ok {
		return nil
	}
	r.healing = target
	g.Narrate(fmt.Sprintf("%s is healing %s.", p.Name, target.Name))
	p.AddToHistory(fmt.Sprintf("You healed %s tonight.", target.Name))
	return nil
}

// Sheriff investigates one player per night and learns whether they look
// suspicious.
type Sheriff struct {
	game.BaseRole
}

func NewSheriff() *Sheriff {
	return &Sheriff{BaseRole: game.BaseRole{
		RoleName: NameSheriff,
		Align:    game.AlignmentTown,
		Text: game.Prompts{
			Role: "You are the Sheriff. Each night you may investigate a player to learn whether they are suspicious.\n" +
				"Mafiosos show up as suspicious. Innocents and the Godfather show up as not suspicious.",
			Day:   "It is the day phase. Side with the town, share your findings carefully and help find the Mafia.",
			Night: "It is the night phase. Secretly choose a player to investigate.",
		},
	}}
}

func (r *Sheriff) SetupActions(g *game.Game) error {
	return r.AddAction(g, r, game.NewAction(ActionInvestigate, game.PhaseNight, sheriffPriority, r.investigate))
}

func (r *Sheriff) investigate(g *game.Game, p *game.Player, content string) error {
	target, ok := nightTarget(g, p, "investigate", content)
	if !ok {
		return nil
	}
	verdict := "not suspicious"
	if target.Role().AppearsSuspicious() {
		verdict = "suspicious"
	}
	p.AddToHistory(fmt.Sprintf("Your investigation shows %s is %s.", target.Name, verdict))
	g.Narrate(fmt.Sprintf("%s investigated %s: %s.", p.Name, target.Name, verdict))
	return nil
}

// Mayor may reveal himself once per game during the day. A revealed Mayor's
// vote counts double and everyone sees his role.
type Mayor struct {
	game.BaseRole

	revealed bool
}

func NewMayor() *Mayor {
	return &Mayor{BaseRole: game.BaseRole{
		RoleName: NameMayor,
		Align:    game.AlignmentTown,
		Text: game.Prompts{
			Role: "You are the Mayor. Once per game you may reveal yourself to the town, doubling your vote. " +
				"Use it wisely to help the town win.",
			Day: "It is the day phase. You may reveal yourself as Mayor with <REVEAL></REVEAL>, " +
				"doubling your vote, but it may make you a target.",
			Night: "It is the night phase. Stay alert and work out who is trustworthy.",
		},
	}}
}

func (r *Mayor) SetupActions(g *game.Game) error {
	a := game.NewAction(ActionReveal, game.PhaseDay, 0, r.reveal)
	a.Usage = "<REVEAL></REVEAL>"
	return r.AddAction(g, r, a)
}

func (r *Mayor) PubliclyRevealed() bool { return r.revealed }

func (r *Mayor) VoteWeight() int {
	if r.revealed {
		return 2
	}
	return 1
}

func (r *Mayor) reveal(g *game.Game, p *game.Player, _ string) error {
	if r.revealed {
		p.AddToHistory("You have already revealed yourself.")
		return nil
	}
	r.revealed = true
	g.Announce(fmt.Sprintf("%s has revealed themselves as the Mayor!", p.Name))
	return nil
}
