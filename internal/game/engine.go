package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	ActionSpeak = "SPEAK"
	ActionVote  = "VOTE"
)

// Game is one session. It is driven by a single goroutine through Run; no
// method is safe for concurrent use. Observers receive copies.
type Game struct {
	id       string
	settings Settings
	agent    Agent
	registry *Registry
	rng      *rand.Rand
	log      zerolog.Logger

	players []*Player
	alive   []*Player
	dead    []*Player

	phase         Phase
	day           int
	votes         *Tally
	pendingDeaths []*Player
	history       []string
	winner        Winner
	rolesSummary  string
	seq           int

	transcript Transcript
	observers  []Observer
}

type options struct {
	id         string
	rng        *rand.Rand
	names      []string
	noShuffle  bool
	transcript Transcript
	observers  []Observer
	log        *zerolog.Logger
}

type Option func(*options)

func WithID(id string) Option { return func(o *options) { o.id = id } }

func WithRand(r *rand.Rand) Option { return func(o *options) { o.rng = r } }

// WithNames fixes player names in seat order instead of drawing from the pool.
func WithNames(names ...string) Option { return func(o *options) { o.names = names } }

// WithoutShuffle assigns roles in the order given to New.
func WithoutShuffle() Option { return func(o *options) { o.noShuffle = true } }

func WithTranscript(t Transcript) Option { return func(o *options) { o.transcript = t } }

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = &l } }

// New seats one player per role and sets up every role's actions. The
// action registry is sealed before New returns.
func New(settings Settings, agent Agent, roles []Role, opts ...Option) (*Game, error) {
	if len(roles) == 0 {
		return nil, ErrNoRoles
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if settings.TiePolicy == "" {
		settings.TiePolicy = TieFirstVoted
	}

	g := &Game{
		id:         o.id,
		settings:   settings,
		agent:      agent,
		registry:   NewRegistry(),
		rng:        o.rng,
		log:        zerolog.Nop(),
		phase:      PhaseDay,
		votes:      NewTally(),
		transcript: o.transcript,
		observers:  o.observers,
	}
	if o.log != nil {
		g.log = o.log.With().Str("game", g.id).Logger()
	}

	names := o.names
	if len(names) == 0 {
		var err error
		if names, err = PickNames(g.rng, len(roles)); err != nil {
			return nil, err
		}
	}
	if len(names) < len(roles) {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughNames, len(names), len(roles))
	}

	g.rolesSummary = summarizeRoles(roles)
	seats := append([]Role(nil), roles...)
	if !o.noShuffle {
		g.rng.Shuffle(len(seats), func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })
	}

	if err := g.registry.Register(NewAction(ActionSpeak, PhaseDay, 0, speakAction)); err != nil {
		return nil, err
	}
	if err := g.registry.Register(NewAction(ActionVote, PhaseVote, 0, voteAction)); err != nil {
		return nil, err
	}

	for i, role := range seats {
		traits := [2]string{PickPersonality(g.rng), PickPersonality(g.rng)}
		p := newPlayer(g, i+1, names[i], role, traits)
		g.players = append(g.players, p)
		g.alive = append(g.alive, p)
	}
	for _, p := range g.players {
		if err := p.role.SetupActions(g); err != nil {
			return nil, fmt.Errorf("setup %s actions: %w", p.role.Name(), err)
		}
	}
	g.registry.Seal()
	return g, nil
}

func summarizeRoles(roles []Role) string {
	counts := map[string]int{}
	var order []string
	for _, r := range roles {
		if counts[r.Name()] == 0 {
			order = append(order, r.Name())
		}
		counts[r.Name()]++
	}
	parts := make([]string, 0, len(order))
	for _, name := range order {
		parts = append(parts, fmt.Sprintf("%dx %s", counts[name], name))
	}
	return strings.Join(parts, ", ")
}

func (g *Game) ID() string             { return g.id }
func (g *Game) Phase() Phase           { return g.phase }
func (g *Game) Day() int               { return g.day }
func (g *Game) Settings() Settings     { return g.settings }
func (g *Game) Registry() *Registry    { return g.registry }
func (g *Game) Votes() *Tally          { return g.votes }
func (g *Game) Winner() Winner         { return g.winner }
func (g *Game) RolesSummary() string   { return g.rolesSummary }
func (g *Game) Logger() zerolog.Logger { return g.log }

func (g *Game) Players() []*Player       { return append([]*Player(nil), g.players...) }
func (g *Game) AlivePlayers() []*Player  { return append([]*Player(nil), g.alive...) }
func (g *Game) DeadPlayers() []*Player   { return append([]*Player(nil), g.dead...) }
func (g *Game) PendingDeaths() []*Player { return append([]*Player(nil), g.pendingDeaths...) }

// History is the public log, oldest first.
func (g *Game) History() []string { return append([]string(nil), g.history...) }

// PlayerByName matches names case-insensitively, ignoring surrounding space.
func (g *Game) PlayerByName(name string) *Player {
	name = strings.TrimSpace(name)
	for _, p := range g.players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// FindAlive returns the first living player whose role matches.
func (g *Game) FindAlive(match func(Role) bool) *Player {
	for _, p := range g.alive {
		if match(p.role) {
			return p
		}
	}
	return nil
}

// Narrate appends msg to the public log only.
func (g *Game) Narrate(msg string) { g.narrate(EventNarration, msg) }

// Announce tells every player msg and appends it to the public log.
func (g *Game) Announce(msg string) { g.announce(EventAnnouncement, msg) }

func (g *Game) narrate(kind EventKind, msg string) {
	g.history = append(g.history, msg)
	g.seq++
	ev := Event{GameID: g.id, Seq: g.seq, Day: g.day, Phase: g.phase, Kind: kind, Text: msg, At: time.Now().UTC()}
	for _, o := range g.observers {
		o.OnEvent(ev)
	}
	g.log.Debug().Int("day", g.day).Str("phase", string(g.phase)).Msg(msg)
}

func (g *Game) announce(kind EventKind, msg string) {
	for _, p := range g.players {
		p.AddToHistory(msg)
	}
	g.narrate(kind, msg)
}

func (g *Game) markDead(p *Player) {
	p.kill()
	for i, a := range g.alive {
		if a == p {
			g.alive = append(g.alive[:i], g.alive[i+1:]...)
			break
		}
	}
	for _, d := range g.dead {
		if d == p {
			return
		}
	}
	g.dead = append(g.dead, p)
}

// Snapshot copies the observable state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{GameID: g.id, Phase: g.phase, Day: g.day, Winner: g.winner}
	for _, p := range g.players {
		v := PlayerView{Index: p.Index, Name: p.Name, Status: p.status.String()}
		if !p.IsAlive() || p.role.PubliclyRevealed() || g.winner != WinnerNone {
			v.Role = p.role.Name()
		}
		s.Players = append(s.Players, v)
	}
	return s
}

func (g *Game) checkpoint() error {
	snap := g.Snapshot()
	for _, o := range g.observers {
		o.OnSnapshot(snap)
	}
	if g.transcript == nil {
		return nil
	}
	if err := g.transcript.Checkpoint(g.History()); err != nil {
		g.log.Error().Err(err).Msg("transcript checkpoint failed")
		return fmt.Errorf("checkpoint transcript: %w", err)
	}
	return nil
}

// Run plays the game to its end. Agent failures abort the game; the
// transcript keeps everything up to the failure.
func (g *Game) Run(ctx context.Context) (Winner, error) {
	if err := g.start(); err != nil {
		return WinnerNone, err
	}
	winner, err := g.loop(ctx)
	if err != nil {
		g.Narrate(fmt.Sprintf("The game was aborted: %v", err))
		if cerr := g.checkpoint(); cerr != nil {
			g.log.Error().Err(cerr).Msg("final checkpoint failed")
		}
		return WinnerNone, err
	}
	return winner, g.finish(winner)
}

func (g *Game) loop(ctx context.Context) (Winner, error) {
	for {
		if w := CheckWinner(g.alive); w != WinnerNone {
			return w, nil
		}
		if err := g.dayPhase(ctx); err != nil {
			return WinnerNone, err
		}
		if w := CheckWinner(g.alive); w != WinnerNone {
			return w, nil
		}
		if err := g.nightPhase(ctx); err != nil {
			return WinnerNone, err
		}
		if g.settings.MaxDays > 0 && g.day >= g.settings.MaxDays && CheckWinner(g.alive) == WinnerNone {
			g.log.Warn().Int("day", g.day).Msg("day limit reached")
			return WinnerDraw, nil
		}
	}
}

func (g *Game) start() error {
	g.Narrate("Game started with the following players:")
	for _, p := range g.players {
		g.Narrate(fmt.Sprintf("<%d> %s - %s", p.Index, p.Name, p.role.Name()))
	}
	for _, p := range g.players {
		p.onGameStart()
	}
	g.log.Info().Int("players", len(g.players)).Str("roles", g.rolesSummary).Msg("game started")
	return g.checkpoint()
}

func (g *Game) finish(w Winner) error {
	g.winner = w
	switch w {
	case WinnerMafia:
		g.announce(EventResult, "Mafia wins!")
	case WinnerTown:
		g.announce(EventResult, "Town wins!")
	default:
		g.announce(EventResult, fmt.Sprintf("No winner after %d days. The game is a draw.", g.day))
	}
	g.log.Info().Str("winner", string(w)).Int("day", g.day).Msg("game over")
	return g.checkpoint()
}

func (g *Game) dayPhase(ctx context.Context) error {
	g.phase = PhaseDay
	g.day++
	first := g.day == 1
	g.log.Info().Int("day", g.day).Int("alive", len(g.alive)).Msg("day begins")

	for _, p := range g.alive {
		p.onDayStart()
	}
	g.announce(EventPhase, fmt.Sprintf("Day %d begins!", g.day))

	if len(g.pendingDeaths) > 0 {
		g.Announce("The following players have died:")
		for _, p := range g.pendingDeaths {
			g.announce(EventDeath, fmt.Sprintf("%s was a %s.", p.Name, p.role.Name()))
			g.onPlayerKilled(p)
		}
		g.pendingDeaths = nil
	}
	if err := g.checkpoint(); err != nil {
		return err
	}

	rounds := g.settings.DaySpeakRounds
	if first {
		rounds = g.settings.FirstDaySpeakRounds
	}
	for i := 0; i < rounds; i++ {
		g.Narrate(fmt.Sprintf("Chatting round %d of %d.", i+1, rounds))
		if err := g.chatRound(ctx); err != nil {
			return err
		}
	}
	if err := g.checkpoint(); err != nil {
		return err
	}

	if first {
		return nil
	}

	g.Announce("Voting phase is ongoing. Players are voting.")
	if err := g.votingPhase(ctx); err != nil {
		return err
	}
	g.Announce("Voting phase has ended. You may no longer vote.")
	return g.checkpoint()
}

func (g *Game) chatRound(ctx context.Context) error {
	order := g.AlivePlayers()
	g.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, p := range order {
		raw, err := p.Chat(ctx)
		if err != nil {
			return err
		}
		resp := g.registry.ParseFor(p.role, raw)
		spoke := false
		for _, a := range resp.Actions {
			if a.Phase != PhaseDay {
				continue
			}
			if a.Name == ActionSpeak {
				spoke = true
			}
			if err := a.Invoke(g, p); err != nil {
				return err
			}
		}
		if !spoke {
			g.Narrate(fmt.Sprintf("%s stayed silent.", p.Name))
		}
	}
	return nil
}

func (g *Game) votingPhase(ctx context.Context) error {
	g.phase = PhaseVote
	g.votes.Reset()

	for _, p := range g.AlivePlayers() {
		raw, err := p.Vote(ctx)
		if err != nil {
			return err
		}
		resp := g.registry.ParseFor(p.role, raw)
		a := resp.Find(ActionVote)
		if a == nil {
			g.announce(EventVote, fmt.Sprintf("%s has abstained from voting.", p.Name))
			continue
		}
		if err := a.Invoke(g, p); err != nil {
			return err
		}
	}

	name := g.votes.Leader(g.settings.TiePolicy)
	g.log.Info().Int("day", g.day).Strs("candidates", g.votes.Names()).Str("lynched", name).Msg("votes counted")
	if target := g.PlayerByName(name); target != nil && name != "" {
		g.announce(EventDeath, fmt.Sprintf("%s has been lynched!", target.Name))
		g.announce(EventDeath, fmt.Sprintf("%s was a %s.", target.Name, target.role.Name()))
		g.onPlayerKilled(target)
	} else {
		g.Announce("No one was voted out this round.")
	}
	g.votes.Reset()
	return nil
}

func (g *Game) onPlayerKilled(p *Player) {
	g.markDead(p)
	p.role.OnKilled(g)
}

type nightTurn struct {
	player *Player
	action *Action
}

// nightWorklist pairs every living player with each of their night actions,
// ordered by ascending priority.
func (g *Game) nightWorklist() []nightTurn {
	var turns []nightTurn
	for _, p := range g.alive {
		for _, a := range p.role.Actions() {
			if a.Phase == PhaseNight {
				turns = append(turns, nightTurn{player: p, action: a})
			}
		}
	}
	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].action.Priority < turns[j].action.Priority
	})
	return turns
}

func (g *Game) nightPhase(ctx context.Context) error {
	g.phase = PhaseNight
	g.announce(EventPhase, fmt.Sprintf("Night %d begins!", g.day))
	for _, p := range g.AlivePlayers() {
		p.role.OnNightStart(g)
	}

	acted := make(map[*Player]bool)
	for _, turn := range g.nightWorklist() {
		p := turn.player
		if acted[p] || !p.IsAlive() {
			continue
		}
		acted[p] = true

		raw, err := p.Night(ctx)
		if err != nil {
			return err
		}
		resp := g.registry.ParseFor(p.role, raw)
		used := false
		for _, a := range resp.Actions {
			if a.Phase != PhaseNight {
				continue
			}
			used = true
			if err := a.Invoke(g, p); err != nil {
				return err
			}
		}
		if !used {
			g.Narrate(fmt.Sprintf("%s did nothing tonight.", p.Name))
		}
	}
	return g.checkpoint()
}

func speakAction(g *Game, p *Player, content string) error {
	if content == "" {
		g.Narrate(fmt.Sprintf("%s stayed silent.", p.Name))
		return nil
	}
	g.announce(EventSpeech, fmt.Sprintf("%s: %s", p.Name, content))
	return nil
}

func voteAction(g *Game, p *Player, content string) error {
	target := g.PlayerByName(content)
	if target == nil || !target.IsAlive() || target == p {
		g.announce(EventVote, fmt.Sprintf("%s has abstained from voting.", p.Name))
		return nil
	}
	g.announce(EventVote, fmt.Sprintf("%s voted to lynch %s.", p.Name, target.Name))
	g.votes.Add(target.Name, p.role.VoteWeight())
	return nil
}
