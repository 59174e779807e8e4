package game

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Handler runs an action for player p with the content extracted from its tag.
type Handler func(g *Game, p *Player, content string) error

// Action binds a tag to a phase, a night priority and a handler. Lower
// priority values resolve first.
type Action struct {
	Name     string
	Usage    string
	Phase    Phase
	Priority int
	Handler  Handler

	content string
}

func NewAction(name string, phase Phase, priority int, h Handler) *Action {
	return &Action{
		Name:     name,
		Usage:    fmt.Sprintf("<%s>NAME</%s>", name, name),
		Phase:    phase,
		Priority: priority,
		Handler:  h,
	}
}

// Content returns the extracted content waiting for the next Invoke.
func (a *Action) Content() string { return a.content }

// Invoke runs the handler with the pending content and clears it, even when
// the handler fails.
func (a *Action) Invoke(g *Game, p *Player) error {
	content := a.content
	a.content = ""
	if a.Handler == nil {
		return nil
	}
	return a.Handler(g, p, content)
}

func (a *Action) bind(content string) *Action {
	b := *a
	b.content = content
	return &b
}

func (a *Action) String() string {
	return fmt.Sprintf("<Action %s phase=%s priority=%d>", a.Name, a.Phase, a.Priority)
}

// ParsedResponse is an agent response with the actions recognised in it, in
// textual order.
type ParsedResponse struct {
	Raw     string
	Actions []*Action
}

// Find returns the first recognised action with the given tag.
func (r ParsedResponse) Find(name string) *Action {
	for _, a := range r.Actions {
		if a.Name == name {
			return a
		}
	}
	return nil
}

var tagPattern = regexp.MustCompile(`(?s)<(\w+)>(.*?)</(\w+)>`)

// Registry holds the global actions every player may use and the actions
// scoped to a single role instance.
type Registry struct {
	global map[string]*Action
	order  []*Action
	scoped map[Role]map[string]*Action
	sealed bool
}

func NewRegistry() *Registry {
	return &Registry{
		global: make(map[string]*Action),
		scoped: make(map[Role]map[string]*Action),
	}
}

func (r *Registry) Register(a *Action) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if _, ok := r.global[a.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, a.Name)
	}
	for _, tags := range r.scoped {
		if _, ok := tags[a.Name]; ok {
			return fmt.Errorf("%w: %s already registered for a role", ErrDuplicateAction, a.Name)
		}
	}
	r.global[a.Name] = a
	r.order = append(r.order, a)
	return nil
}

// RegisterForRole scopes a to one role instance. Two roles of the same kind
// may register the same tag; a role may not shadow a global tag.
func (r *Registry) RegisterForRole(a *Action, role Role) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if _, ok := r.global[a.Name]; ok {
		return fmt.Errorf("%w: %s is a global action", ErrDuplicateAction, a.Name)
	}
	tags := r.scoped[role]
	if tags == nil {
		tags = make(map[string]*Action)
		r.scoped[role] = tags
	}
	if _, ok := tags[a.Name]; ok {
		return fmt.Errorf("%w: %s for %s", ErrDuplicateAction, a.Name, role.Name())
	}
	tags[a.Name] = a
	r.order = append(r.order, a)
	return nil
}

// Seal freezes the registry once every role has set up its actions.
func (r *Registry) Seal() { r.sealed = true }

// Parse recognises global tags only.
func (r *Registry) Parse(raw string) ParsedResponse {
	return r.ParseFor(nil, raw)
}

// ParseFor recognises global tags plus the tags scoped to role. Unknown or
// malformed tags are ignored. When a tag occurs more than once the last
// occurrence wins.
func (r *Registry) ParseFor(role Role, raw string) ParsedResponse {
	raw = strings.TrimSpace(raw)
	out := ParsedResponse{Raw: raw}

	type hit struct {
		pos    int
		action *Action
	}
	last := make(map[string]hit)
	for _, m := range tagPattern.FindAllStringSubmatchIndex(raw, -1) {
		open := raw[m[2]:m[3]]
		closing := raw[m[6]:m[7]]
		if open != closing {
			continue
		}
		a := r.lookup(role, open)
		if a == nil {
			continue
		}
		last[open] = hit{pos: m[0], action: a.bind(strings.TrimSpace(raw[m[4]:m[5]]))}
	}

	hits := make([]hit, 0, len(last))
	for _, h := range last {
		hits = append(hits, h)
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	for _, h := range hits {
		out.Actions = append(out.Actions, h.action)
	}
	return out
}

func (r *Registry) lookup(role Role, tag string) *Action {
	if a, ok := r.global[tag]; ok {
		return a
	}
	if role != nil {
		return r.scoped[role][tag]
	}
	return nil
}

// PhaseActions lists every registered action, global or scoped, valid in phase.
func (r *Registry) PhaseActions(phase Phase) []*Action {
	var out []*Action
	for _, a := range r.order {
		if a.Phase == phase {
			out = append(out, a)
		}
	}
	return out
}

// PhaseActionsForRole lists the global actions and the actions of role valid in phase.
func (r *Registry) PhaseActionsForRole(phase Phase, role Role) []*Action {
	var out []*Action
	for _, a := range r.order {
		if a.Phase != phase {
			continue
		}
		if _, ok := r.global[a.Name]; ok && r.global[a.Name] == a {
			out = append(out, a)
			continue
		}
		if role != nil && r.scoped[role][a.Name] == a {
			out = append(out, a)
		}
	}
	return out
}
