package game

import (
	"fmt"
	"strings"
)

func buildSystemPrompt(g *Game, p *Player) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s, a player in a game of Mafia.\n", p.Name)
	sb.WriteString("The game has three phases.\n")
	sb.WriteString("1. Day: players discuss what they know.\n")
	sb.WriteString("2. Vote: players vote to lynch someone.\n")
	sb.WriteString("3. Night: players use their roles in secret.\n\n")
	fmt.Fprintf(&sb, "Your role is %s.\n", p.role.Name())
	sb.WriteString("Nobody knows your role. If you expose it you may become a target.\n")
	sb.WriteString(AlignmentPrompt(p.role.Alignment()) + "\n")
	if text := p.role.Prompts().Role; text != "" {
		sb.WriteString(text + "\n")
	}
	fmt.Fprintf(&sb, "Roles in play: %s\n\n", g.RolesSummary())
	fmt.Fprintf(&sb, "You are emotional, %s and %s. ", p.traits[0], p.traits[1])
	sb.WriteString("Let those traits shape the words you choose.\n")
	return sb.String()
}

const dayRules = `DAY PHASE RULES:
- Speak ONLY inside <SPEAK>your sentence here.</SPEAK>
- Speak in the first person. No narration.
- Do not describe your own or other players' actions.
- Only mention players from the list below.
- You may stay silent with <SPEAK></SPEAK>.
Examples:
Tom is acting strange. <SPEAK>I don't trust Tom.</SPEAK>
I should stay quiet for now. <SPEAK></SPEAK>

`

const voteRules = `VOTE PHASE RULES:
- End your message with <VOTE>player name</VOTE>
- You may not vote for yourself.
- You may only vote for living players.
- Keep your reasoning outside the tag.
Examples:
I think Tom is suspicious. <VOTE>Tom</VOTE>
I have no idea who to vote for. <VOTE></VOTE>

`

// rosterPrompt lists every player from p's point of view. A role is shown
// for p itself, for the dead, between Mafia members and for revealed roles.
func rosterPrompt(g *Game, p *Player) string {
	var sb strings.Builder
	sb.WriteString("Players in the game:\n")
	for _, other := range g.players {
		known := other == p || !other.IsAlive() || other.role.PubliclyRevealed()
		if other.role.Alignment() == AlignmentMafia && p.role.Alignment() == AlignmentMafia {
			known = true
		}
		role := "Unknown role"
		if known {
			role = other.role.Name()
		}
		fmt.Fprintf(&sb, "%d %s %s %s\n", other.Index, other.Name, other.status, role)
	}
	sb.WriteString("\n")
	return sb.String()
}

func dayLogPrompt(p *Player) string {
	var sb strings.Builder
	sb.WriteString("Full day log:\n")
	if len(p.dayHistory) == 0 {
		sb.WriteString("Nothing has happened today.\n\n")
		return sb.String()
	}
	sb.WriteString(strings.Join(p.dayHistory, "\n"))
	sb.WriteString("\n\n")
	return sb.String()
}

func actionMenu(actions []*Action) string {
	var sb strings.Builder
	sb.WriteString("Available actions:\n")
	if len(actions) == 0 {
		sb.WriteString("No actions available.\n")
	}
	for _, a := range actions {
		fmt.Fprintf(&sb, "- %s, Usage: %s\n", a.Name, a.Usage)
	}
	return sb.String()
}

func buildDayPrompt(g *Game, p *Player) string {
	var sb strings.Builder
	sb.WriteString(dayRules)
	sb.WriteString(rosterPrompt(g, p))
	if text := p.role.Prompts().Day; text != "" {
		sb.WriteString(text + "\n\n")
	}
	// SPEAK is described by dayRules; only role-specific day actions go in the menu.
	var extra []*Action
	for _, a := range g.registry.PhaseActionsForRole(PhaseDay, p.role) {
		if a.Name != ActionSpeak {
			extra = append(extra, a)
		}
	}
	if len(extra) > 0 {
		sb.WriteString(actionMenu(extra))
		sb.WriteString("\n")
	}
	sb.WriteString(dayLogPrompt(p))
	fmt.Fprintf(&sb, "Your turn to speak, %s:\n", p.Name)
	return sb.String()
}

func buildVotePrompt(g *Game, p *Player) string {
	var sb strings.Builder
	sb.WriteString(voteRules)
	sb.WriteString(rosterPrompt(g, p))
	sb.WriteString(dayLogPrompt(p))
	fmt.Fprintf(&sb, "Your turn to vote, %s:\n", p.Name)
	return sb.String()
}

func buildNightPrompt(g *Game, p *Player) string {
	var sb strings.Builder
	if text := p.role.Prompts().Night; text != "" {
		sb.WriteString(text + "\n\n")
	}
	sb.WriteString(rosterPrompt(g, p))
	sb.WriteString(dayLogPrompt(p))
	var night []*Action
	for _, a := range p.role.Actions() {
		if a.Phase == PhaseNight {
			night = append(night, a)
		}
	}
	sb.WriteString(actionMenu(night))
	fmt.Fprintf(&sb, "Your turn to act, %s:\n", p.Name)
	return sb.String()
}
