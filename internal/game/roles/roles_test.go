package roles

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/kiliankoe/gptmafia/internal/game"
)

func setup(t *testing.T, names []string, specs ...string) *game.Game {
	t.Helper()
	rs, err := Parse(specs)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	g, err := game.New(game.DefaultSettings(), nil, rs,
		game.WithNames(names...),
		game.WithoutShuffle(),
		game.WithRand(rand.New(rand.NewSource(1))),
	)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

// act parses raw as p's response and invokes the named action.
func act(t *testing.T, g *game.Game, p *game.Player, tag, raw string) {
	t.Helper()
	a := g.Registry().ParseFor(p.Role(), raw).Find(tag)
	if a == nil {
		t.Fatalf("%s: no %s action in %q", p.Name, tag, raw)
	}
	if err := a.Invoke(g, p); err != nil {
		t.Fatalf("%s %s: %v", p.Name, tag, err)
	}
}

func hasLine(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}

func TestParseRoles(t *testing.T) {
	rs, err := Parse(DefaultSetup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rs) != 15 {
		t.Fatalf("expected 15 roles, got %d", len(rs))
	}
	counts := map[string]int{}
	for _, r := range rs {
		counts[r.Name()]++
	}
	if counts[NameInnocent] != 11 || counts[NameGodfather] != 1 || counts[NameSheriff] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if rs[2] == rs[3] {
		t.Fatal("each entry needs its own role instance")
	}

	if _, err := Parse([]string{"mayor", " doctor "}); err != nil {
		t.Fatalf("names are case-insensitive: %v", err)
	}
	if _, err := Parse([]string{"Witch"}); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if _, err := Parse([]string{"Innocent:0"}); err == nil {
		t.Fatal("expected error for a zero count")
	}
	if _, err := Parse([]string{"", " "}); !errors.Is(err, game.ErrNoRoles) {
		t.Fatalf("expected ErrNoRoles, got %v", err)
	}
}

func TestSheriffVerdicts(t *testing.T) {
	g := setup(t, []string{"Gus", "Max", "Sue", "Ann"}, "Godfather", "Mafioso", "Sheriff", "Innocent")
	sue := g.PlayerByName("Sue")

	act(t, g, sue, ActionInvestigate, "<INVESTIGATE>Max</INVESTIGATE>")
	act(t, g, sue, ActionInvestigate, "<INVESTIGATE>Gus</INVESTIGATE>")
	act(t, g, sue, ActionInvestigate, "<INVESTIGATE>Ann</INVESTIGATE>")

	hist := sue.History()
	for _, want := range []string{
		"Your investigation shows Max is suspicious.",
		"Your investigation shows Gus is not suspicious.",
		"Your investigation shows Ann is not suspicious.",
	} {
		if !hasLine(hist, want) {
			t.Fatalf("missing %q in %v", want, hist)
		}
	}

	act(t, g, sue, ActionInvestigate, "<INVESTIGATE>Nobody</INVESTIGATE>")
	if !hasLine(sue.History(), "Invalid investigate target.") {
		t.Fatalf("an unknown target should be rejected: %v", sue.History())
	}
}

func TestGodfatherOrdersMafioso(t *testing.T) {
	g := setup(t, []string{"Gus", "Max", "Ann", "Bob"}, "Godfather", "Mafioso", "Innocent:2")
	gus, max, ann := g.PlayerByName("Gus"), g.PlayerByName("Max"), g.PlayerByName("Ann")

	act(t, g, max, ActionVoteKill, "<VOTEKILL>Bob</VOTEKILL>")
	if !g.PlayerByName("Bob").IsAlive() {
		t.Fatal("the Mafioso must not kill while the Godfather lives")
	}

	act(t, g, gus, ActionKill, "<KILL>Ann</KILL>")
	if ann.IsAlive() {
		t.Fatal("Ann should be dead")
	}
	if !hasLine(max.History(), "The Godfather ordered you to kill Ann.") {
		t.Fatalf("the Mafioso should be told about the order: %v", max.History())
	}
	if !hasLine(g.History(), "Max attacked Ann with BASIC power.") {
		t.Fatalf("the Mafioso should be the attacker: %v", g.History())
	}
}

func TestMafiosoKillsWithoutGodfather(t *testing.T) {
	g := setup(t, []string{"Gus", "Max", "Ann", "Bob"}, "Godfather", "Mafioso", "Innocent:2")
	gus, max := g.PlayerByName("Gus"), g.PlayerByName("Max")
	if _, err := g.Attack(max, gus); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if gus.IsAlive() {
		t.Fatal("a basic attack beats basic defense")
	}

	act(t, g, max, ActionVoteKill, "<VOTEKILL>Bob</VOTEKILL>")
	if g.PlayerByName("Bob").IsAlive() {
		t.Fatal("the Mafioso should kill once the Godfather is dead")
	}
	if !hasLine(g.History(), "Mafioso Max is attacking Bob.") {
		t.Fatalf("missing narration: %v", g.History())
	}
}

func TestGodfatherAttacksAloneAndRejectsDeadTargets(t *testing.T) {
	g := setup(t, []string{"Gus", "Ann", "Bob"}, "Godfather", "Innocent:2")
	gus, ann := g.PlayerByName("Gus"), g.PlayerByName("Ann")

	act(t, g, gus, ActionKill, "<KILL>ann</KILL>")
	if ann.IsAlive() {
		t.Fatal("Ann should be dead")
	}
	act(t, g, gus, ActionKill, "<KILL>Ann</KILL>")
	if !hasLine(gus.History(), "Invalid kill target.") {
		t.Fatalf("a dead target should be rejected: %v", gus.History())
	}
	if len(g.PendingDeaths()) != 1 {
		t.Fatalf("expected a single pending death, got %v", g.PendingDeaths())
	}
}

func TestDoctorHealLastsOneNight(t *testing.T) {
	g := setup(t, []string{"Gus", "Doc", "Ann"}, "Godfather", "Doctor", "Innocent")
	doc := g.PlayerByName("Doc")
	r := doc.Role().(*Doctor)

	act(t, g, doc, ActionHeal, "<HEAL>Ann</HEAL>")
	if r.Healing() != g.PlayerByName("Ann") || !r.Protects(g.PlayerByName("Ann")) {
		t.Fatal("Ann should be protected tonight")
	}
	if r.Protects(g.PlayerByName("Gus")) {
		t.Fatal("only the healed player is protected")
	}
	r.OnDayStart(g)
	if r.Healing() != nil {
		t.Fatal("the heal should reset at day start")
	}
}

func TestMayorReveal(t *testing.T) {
	g := setup(t, []string{"May", "Gus", "Ann"}, "Mayor", "Godfather", "Innocent")
	may := g.PlayerByName("May")
	r := may.Role()

	if r.VoteWeight() != 1 || r.PubliclyRevealed() {
		t.Fatal("an unrevealed Mayor votes once and stays hidden")
	}
	act(t, g, may, ActionReveal, "Time to lead. <REVEAL></REVEAL>")
	if r.VoteWeight() != 2 || !r.PubliclyRevealed() {
		t.Fatal("a revealed Mayor votes twice and is public")
	}
	if !hasLine(g.PlayerByName("Ann").History(), "May has revealed themselves as the Mayor!") {
		t.Fatal("the reveal is announced to everyone")
	}

	act(t, g, may, ActionReveal, "<REVEAL></REVEAL>")
	reveals := 0
	for _, line := range g.History() {
		if strings.Contains(line, "revealed themselves") {
			reveals++
		}
	}
	if reveals != 1 {
		t.Fatalf("a second reveal must not be announced, got %d", reveals)
	}
}

func TestRoleTagsAreScoped(t *testing.T) {
	g := setup(t, []string{"Gus", "Ann"}, "Godfather", "Innocent")
	ann := g.PlayerByName("Ann")
	if a := g.Registry().ParseFor(ann.Role(), "<KILL>Gus</KILL>").Find(ActionKill); a != nil {
		t.Fatal("an Innocent must not be able to use KILL")
	}
}
