package game

import (
	"fmt"
	"strings"
)

// TiePolicy decides a lynch when several names share the highest count.
type TiePolicy string

const (
	// TieFirstVoted lynches the tied name that received its first vote earliest.
	TieFirstVoted TiePolicy = "first"
	// TieNoLynch lynches nobody on a tie.
	TieNoLynch TiePolicy = "none"
)

func ParseTiePolicy(s string) (TiePolicy, error) {
	switch TiePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case TieFirstVoted, "":
		return TieFirstVoted, nil
	case TieNoLynch:
		return TieNoLynch, nil
	}
	return "", fmt.Errorf("unknown vote tie policy %q", s)
}

// Tally counts votes per target name and remembers the order in which names
// first received a vote.
type Tally struct {
	counts map[string]int
	order  []string
}

func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

func (t *Tally) Add(name string, weight int) {
	if _, ok := t.counts[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counts[name] += weight
}

func (t *Tally) Count(name string) int { return t.counts[name] }

func (t *Tally) Len() int { return len(t.order) }

func (t *Tally) Reset() {
	t.counts = make(map[string]int)
	t.order = nil
}

// Names returns the voted names in first-vote order.
func (t *Tally) Names() []string { return append([]string(nil), t.order...) }

// Leader returns the name to lynch, or "" when there were no votes or the
// policy refuses to break a tie.
func (t *Tally) Leader(policy TiePolicy) string {
	best, max := "", 0
	tied := false
	for _, name := range t.order {
		switch c := t.counts[name]; {
		case c > max:
			best, max, tied = name, c, false
		case c == max:
			tied = true
		}
	}
	if max == 0 {
		return ""
	}
	if tied && policy == TieNoLynch {
		return ""
	}
	return best
}
