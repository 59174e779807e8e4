package game

import (
	"errors"
	"time"
)

type Phase string

const (
	PhaseDay   Phase = "DAY"
	PhaseVote  Phase = "VOTE"
	PhaseNight Phase = "NIGHT"
)

var (
	ErrInvalidOperation = errors.New("invalid operation")
	ErrDuplicateAction  = errors.New("duplicate action tag")
	ErrRegistrySealed   = errors.New("action registry is sealed")
	ErrNotEnoughNames   = errors.New("not enough names for players")
	ErrNoRoles          = errors.New("no roles to assign")
)

type Alignment int

const (
	AlignmentTown Alignment = iota + 1
	AlignmentMafia
	AlignmentNeutral
)

func (a Alignment) String() string {
	switch a {
	case AlignmentTown:
		return "town"
	case AlignmentMafia:
		return "mafia"
	case AlignmentNeutral:
		return "neutral"
	}
	return "unknown"
}

// AttackingPower is ordered: a higher value beats every lower DefensivePower.
type AttackingPower int

const (
	AttackNone AttackingPower = iota
	AttackBasic
	AttackPowerful
	AttackUnstoppable
)

func (p AttackingPower) String() string {
	switch p {
	case AttackNone:
		return "NONE"
	case AttackBasic:
		return "BASIC"
	case AttackPowerful:
		return "POWERFUL"
	case AttackUnstoppable:
		return "UNSTOPPABLE"
	}
	return "UNKNOWN"
}

type DefensivePower int

const (
	DefenseNone DefensivePower = iota
	DefenseBasic
	DefensePowerful
	DefenseInvincible
)

func (p DefensivePower) String() string {
	switch p {
	case DefenseNone:
		return "NONE"
	case DefenseBasic:
		return "BASIC"
	case DefensePowerful:
		return "POWERFUL"
	case DefenseInvincible:
		return "INVINCIBLE"
	}
	return "UNKNOWN"
}

type PlayerStatus int

const (
	StatusAlive PlayerStatus = iota + 1
	StatusDead
)

func (s PlayerStatus) String() string {
	if s == StatusAlive {
		return "Alive"
	}
	return "Dead"
}

type Winner string

const (
	WinnerNone  Winner = ""
	WinnerTown  Winner = "Town"
	WinnerMafia Winner = "Mafia"
	WinnerDraw  Winner = "Draw"
)

// Settings are the tunable rules of one game session.
type Settings struct {
	FirstDaySpeakRounds int
	DaySpeakRounds      int
	// MaxDays ends the game in a draw once exceeded. Zero means no limit.
	MaxDays   int
	TiePolicy TiePolicy
}

func DefaultSettings() Settings {
	return Settings{
		FirstDaySpeakRounds: 1,
		DaySpeakRounds:      3,
		MaxDays:             30,
		TiePolicy:           TieFirstVoted,
	}
}

type EventKind string

const (
	EventNarration    EventKind = "narration"
	EventAnnouncement EventKind = "announcement"
	EventSpeech       EventKind = "speech"
	EventVote         EventKind = "vote"
	EventDeath        EventKind = "death"
	EventPhase        EventKind = "phase"
	EventResult       EventKind = "result"
)

// Event is one line of the public history as seen by observers.
type Event struct {
	GameID string    `json:"gameId"`
	Seq    int       `json:"seq"`
	Day    int       `json:"day"`
	Phase  Phase     `json:"phase"`
	Kind   EventKind `json:"kind"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

type PlayerView struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Role   string `json:"role,omitempty"` // set only once public (dead or revealed)
}

// Snapshot is an immutable copy of the observable game state.
type Snapshot struct {
	GameID  string       `json:"gameId"`
	Phase   Phase        `json:"phase"`
	Day     int          `json:"day"`
	Players []PlayerView `json:"players"`
	Winner  Winner       `json:"winner,omitempty"`
}
