package game

import (
	"context"
	"fmt"
)

// Request is one player turn handed to the agent.
type Request struct {
	GameID       string
	Player       string
	Phase        Phase
	Day          int
	SystemPrompt string
	UserPrompt   string
}

// Agent produces the raw text of a player's turn. Errors are transport
// failures and abort the game.
type Agent interface {
	Respond(ctx context.Context, req Request) (string, error)
}

type Player struct {
	Index int
	Name  string

	role   Role
	status PlayerStatus
	traits [2]string

	history    []string
	dayHistory []string

	systemPrompt string
	game         *Game
}

func newPlayer(g *Game, index int, name string, role Role, traits [2]string) *Player {
	p := &Player{
		Index:  index,
		Name:   name,
		role:   role,
		status: StatusAlive,
		traits: traits,
		game:   g,
	}
	role.Bind(p)
	return p
}

func (p *Player) String() string {
	return fmt.Sprintf("<Player %s (%s)>", p.Name, p.role.Name())
}

func (p *Player) Role() Role           { return p.role }
func (p *Player) Status() PlayerStatus { return p.status }
func (p *Player) IsAlive() bool        { return p.status == StatusAlive }
func (p *Player) Traits() [2]string    { return p.traits }

// History is every message this player has seen, oldest first.
func (p *Player) History() []string { return append([]string(nil), p.history...) }

// DayHistory is what this player has seen since the current day began.
func (p *Player) DayHistory() []string { return append([]string(nil), p.dayHistory...) }

func (p *Player) SystemPrompt() string { return p.systemPrompt }

func (p *Player) AddToHistory(msg string) {
	p.history = append(p.history, msg)
	p.dayHistory = append(p.dayHistory, msg)
}

func (p *Player) onGameStart() {
	p.systemPrompt = buildSystemPrompt(p.game, p)
	p.dayHistory = nil
	p.role.OnGameStart(p.game)
}

func (p *Player) onDayStart() {
	p.dayHistory = nil
	p.role.OnDayStart(p.game)
}

func (p *Player) kill() {
	p.status = StatusDead
}

// Chat asks the agent for a day-phase turn.
func (p *Player) Chat(ctx context.Context) (string, error) {
	return p.respond(ctx, PhaseDay, buildDayPrompt(p.game, p))
}

// Vote asks the agent for a vote-phase turn.
func (p *Player) Vote(ctx context.Context) (string, error) {
	return p.respond(ctx, PhaseVote, buildVotePrompt(p.game, p))
}

// Night asks the agent for a night-phase turn.
func (p *Player) Night(ctx context.Context) (string, error) {
	return p.respond(ctx, PhaseNight, buildNightPrompt(p.game, p))
}

func (p *Player) respond(ctx context.Context, phase Phase, prompt string) (string, error) {
	g := p.game
	out, err := g.agent.Respond(ctx, Request{
		GameID:       g.id,
		Player:       p.Name,
		Phase:        phase,
		Day:          g.day,
		SystemPrompt: p.systemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		return "", fmt.Errorf("%s %s turn: %w", p.Name, phase, err)
	}
	return out, nil
}
