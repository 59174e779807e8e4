package game

// Prompts is the framing text handed to a role's agent.
type Prompts struct {
	Role  string
	Day   string
	Night string
}

// Role is the capability bundle assigned to one player for the whole game.
// New roles embed BaseRole and override only what they need; the engine and
// the registry never change when a role is added.
type Role interface {
	Name() string
	Alignment() Alignment
	AttackingPower() AttackingPower
	DefensivePower() DefensivePower
	Prompts() Prompts

	// Actions is the role's action set, fixed once SetupActions returns.
	Actions() []*Action
	SetupActions(g *Game) error

	Bind(p *Player)
	Player() *Player

	OnGameStart(g *Game)
	OnDayStart(g *Game)
	OnNightStart(g *Game)
	OnKilled(g *Game)

	// Protects reports whether the role shields target from attacks tonight.
	Protects(target *Player) bool
	// AppearsSuspicious is what an investigation of this role reports.
	AppearsSuspicious() bool
	// PubliclyRevealed makes the role visible to every player.
	PubliclyRevealed() bool
	VoteWeight() int
}

// BaseRole implements every Role method with a neutral default.
type BaseRole struct {
	RoleName string
	Align    Alignment
	Attack   AttackingPower
	Defense  DefensivePower
	Text     Prompts

	player  *Player
	actions []*Action
}

func (b *BaseRole) Name() string                   { return b.RoleName }
func (b *BaseRole) Alignment() Alignment           { return b.Align }
func (b *BaseRole) AttackingPower() AttackingPower { return b.Attack }
func (b *BaseRole) DefensivePower() DefensivePower { return b.Defense }
func (b *BaseRole) Prompts() Prompts               { return b.Text }
func (b *BaseRole) Actions() []*Action             { return b.actions }
func (b *BaseRole) SetupActions(*Game) error       { return nil }
func (b *BaseRole) Bind(p *Player)                 { b.player = p }
func (b *BaseRole) Player() *Player                { return b.player }
func (b *BaseRole) OnGameStart(*Game)              {}
func (b *BaseRole) OnDayStart(*Game)               {}
func (b *BaseRole) OnNightStart(*Game)             {}
func (b *BaseRole) OnKilled(*Game)                 {}
func (b *BaseRole) Protects(*Player) bool          { return false }
func (b *BaseRole) PubliclyRevealed() bool         { return false }
func (b *BaseRole) VoteWeight() int                { return 1 }

func (b *BaseRole) AppearsSuspicious() bool {
	return b.Align == AlignmentMafia
}

// AddAction appends a to the role's action set and registers it scoped to
// self, which must be the outer role embedding b.
func (b *BaseRole) AddAction(g *Game, self Role, a *Action) error {
	if err := g.Registry().RegisterForRole(a, self); err != nil {
		return err
	}
	b.actions = append(b.actions, a)
	return nil
}

var alignmentPrompts = map[Alignment]string{
	AlignmentTown:    "You are a member of the town, working together to eliminate threats.",
	AlignmentMafia:   "You are part of the Mafia, secretly working to eliminate the town.",
	AlignmentNeutral: "You have your own agenda, neither fully aligned with the town nor the Mafia.",
}

func AlignmentPrompt(a Alignment) string {
	if p, ok := alignmentPrompts[a]; ok {
		return p
	}
	return "You have no specific alignment."
}
