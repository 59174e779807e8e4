package game

import "fmt"

type AttackOutcome int

const (
	AttackSucceeded AttackOutcome = iota + 1
	AttackBlockedByProtection
	AttackBlockedByDefense
)

func (o AttackOutcome) String() string {
	switch o {
	case AttackSucceeded:
		return "succeeded"
	case AttackBlockedByProtection:
		return "blocked by protection"
	case AttackBlockedByDefense:
		return "blocked by defense"
	}
	return "unknown"
}

// ResolveAttack decides an attack without touching any state. Protection is
// checked before the power comparison and always wins; otherwise only a
// defense strictly above the attacking power holds. Precondition violations
// return ErrInvalidOperation.
func ResolveAttack(attacker, target *Player, protectors []Role) (AttackOutcome, error) {
	if !attacker.IsAlive() {
		return 0, fmt.Errorf("%w: %s is not alive and cannot attack", ErrInvalidOperation, attacker.Name)
	}
	if !target.IsAlive() {
		return 0, fmt.Errorf("%w: %s is not alive and cannot be attacked", ErrInvalidOperation, target.Name)
	}
	power := attacker.role.AttackingPower()
	if power == AttackNone {
		return 0, fmt.Errorf("%w: %s has no attacking power", ErrInvalidOperation, attacker.Name)
	}
	for _, r := range protectors {
		if r.Protects(target) {
			return AttackBlockedByProtection, nil
		}
	}
	if int(target.role.DefensivePower()) > int(power) {
		return AttackBlockedByDefense, nil
	}
	return AttackSucceeded, nil
}

// Attack resolves attacker against target and applies the outcome: a kill
// is queued for the next day's announcement.
func (g *Game) Attack(attacker, target *Player) (AttackOutcome, error) {
	outcome, err := ResolveAttack(attacker, target, g.protectors())
	if err != nil {
		return 0, err
	}
	switch outcome {
	case AttackBlockedByProtection:
		attacker.AddToHistory(fmt.Sprintf("Your attack on %s was blocked.", target.Name))
		target.AddToHistory("You were attacked but someone protected you.")
		g.narrate(EventNarration, fmt.Sprintf("%s's attack on %s was blocked by a protection.", attacker.Name, target.Name))
	case AttackBlockedByDefense:
		attacker.AddToHistory(fmt.Sprintf("Your attack on %s was blocked.", target.Name))
		target.AddToHistory("You were attacked but your defense held.")
		g.narrate(EventNarration, fmt.Sprintf("%s's attack on %s was blocked by %s's defense.", attacker.Name, target.Name, target.role.Name()))
	case AttackSucceeded:
		target.AddToHistory("You were attacked and died.")
		g.narrate(EventDeath, fmt.Sprintf("%s attacked %s with %s power.", attacker.Name, target.Name, attacker.role.AttackingPower()))
		g.markDead(target)
		g.pendingDeaths = append(g.pendingDeaths, target)
		g.log.Info().Str("attacker", attacker.Name).Str("target", target.Name).Msg("player killed")
	}
	return outcome, nil
}

func (g *Game) protectors() []Role {
	out := make([]Role, 0, len(g.alive))
	for _, p := range g.alive {
		out = append(out, p.role)
	}
	return out
}
