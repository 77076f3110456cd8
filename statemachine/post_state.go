package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"food-share-api/models"
)

// ErrInvalidTransition is returned when a post is not in the state an action starts from.
var ErrInvalidTransition = errors.New("invalid transition")

// Variant selects which lifecycle a deployment runs.
type Variant string

const (
	// VariantReceiver: Pending → Collected → Booked, receivers book collected food.
	VariantReceiver Variant = "receiver"
	// VariantPickup: Pending → Picked → Collected, volunteers carry food to the end.
	VariantPickup Variant = "pickup"
)

// Action names a step a user can trigger on a post.
type Action string

const (
	ActionAccept    Action = "accept"
	ActionCollected Action = "collected"
	ActionBook      Action = "book"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	Action Action            `json:"action"`
	From   models.PostStatus `json:"from"`
	To     models.PostStatus `json:"to"`
	Actor  models.UserRole   `json:"actor"`
}

var variantTransitions = map[Variant][]Transition{
	VariantReceiver: {
		// Volunteer picks up a pending donation and reports it collected
		{Action: ActionAccept, From: models.StatusPending, To: models.StatusCollected, Actor: models.RoleVolunteer},
		// Receiver books collected food
		{Action: ActionBook, From: models.StatusCollected, To: models.StatusBooked, Actor: models.RoleReceiver},
	},
	VariantPickup: {
		{Action: ActionAccept, From: models.StatusPending, To: models.StatusPicked, Actor: models.RoleVolunteer},
		{Action: ActionCollected, From: models.StatusPicked, To: models.StatusCollected, Actor: models.RoleVolunteer},
	},
}

// actionKey is used to look up valid transitions quickly
type actionKey struct {
	Action Action
	Actor  models.UserRole
}

// Machine is the post lifecycle for one variant. It is immutable after New.
type Machine struct {
	variant     Variant
	transitions []Transition
	byAction    map[actionKey]Transition
	statuses    []models.PostStatus
}

// ParseVariant maps a configuration value to a Variant. Empty means receiver.
func ParseVariant(raw string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(raw))) {
	case "", VariantReceiver:
		return VariantReceiver, nil
	case VariantPickup:
		return VariantPickup, nil
	default:
		return "", fmt.Errorf("unknown lifecycle variant %q (want %q or %q)", raw, VariantReceiver, VariantPickup)
	}
}

// New builds the machine for variant.
func New(variant Variant) (*Machine, error) {
	transitions, ok := variantTransitions[variant]
	if !ok {
		return nil, fmt.Errorf("unknown lifecycle variant %q", variant)
	}
	m := &Machine{
		variant:     variant,
		transitions: transitions,
		byAction:    make(map[actionKey]Transition, len(transitions)),
	}
	seen := map[models.PostStatus]bool{}
	for _, t := range transitions {
		m.byAction[actionKey{t.Action, t.Actor}] = t
		for _, s := range []models.PostStatus{t.From, t.To} {
			if !seen[s] {
				seen[s] = true
				m.statuses = append(m.statuses, s)
			}
		}
	}
	return m, nil
}

// Roles lists the roles that can sign up for this lifecycle: donors, plus
// every role that performs a transition.
func (m *Machine) Roles() []models.UserRole {
	roles := []models.UserRole{models.RoleDonor}
	for _, t := range m.transitions {
		known := false
		for _, r := range roles {
			if r == t.Actor {
				known = true
				break
			}
		}
		if !known {
			roles = append(roles, t.Actor)
		}
	}
	return roles
}

// Variant returns the configured variant.
func (m *Machine) Variant() Variant { return m.variant }

// Supports reports whether action exists in this variant for any actor.
func (m *Machine) Supports(action Action) bool {
	for _, t := range m.transitions {
		if t.Action == action {
			return true
		}
	}
	return false
}

// Step returns the transition an actor triggers with action.
func (m *Machine) Step(action Action, actor models.UserRole) (Transition, bool) {
	t, ok := m.byAction[actionKey{action, actor}]
	return t, ok
}

// ValidTransitionsFrom returns all valid next states from a given state
func (m *Machine) ValidTransitionsFrom(status models.PostStatus) []models.PostStatus {
	var nexts []models.PostStatus
	for _, t := range m.transitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func (m *Machine) CanTransition(from, to models.PostStatus, actor models.UserRole) error {
	for _, t := range m.transitions {
		if t.From == from && t.To == to && t.Actor == actor {
			return nil
		}
	}
	return fmt.Errorf("%w: %s → %s is not allowed for %s; valid transitions from %s are: %s",
		ErrInvalidTransition, from, to, actor, from, m.describeValidFrom(from))
}

// Statuses lists every status of the variant in lifecycle order.
func (m *Machine) Statuses() []models.PostStatus {
	out := make([]models.PostStatus, len(m.statuses))
	copy(out, m.statuses)
	return out
}

// Terminal lists statuses with no outgoing transition.
func (m *Machine) Terminal() []models.PostStatus {
	var out []models.PostStatus
	for _, s := range m.statuses {
		if len(m.ValidTransitionsFrom(s)) == 0 {
			out = append(out, s)
		}
	}
	return out
}

// Transitions returns the full state machine for documentation
func (m *Machine) Transitions() []Transition {
	out := make([]Transition, len(m.transitions))
	copy(out, m.transitions)
	return out
}

func (m *Machine) describeValidFrom(status models.PostStatus) string {
	nexts := m.ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
