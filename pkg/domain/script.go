package domain

import (
	"fmt"
	"strings"
)

// Script is the ordered, immutable sequence of turns that defines one session.
// The host owns it; the engine only reads it.
type Script struct {
	ID    string  `json:"id" yaml:"id"`
	Title string  `json:"title,omitempty" yaml:"title,omitempty"`
	Turns []Turn  `json:"turns" yaml:"turns"`
	Roles RoleSet `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// Len returns the number of turns.
func (s Script) Len() int {
	return len(s.Turns)
}

// RoleSet returns the script roles, falling back to DefaultRoles when none are declared.
func (s Script) RoleSet() RoleSet {
	if len(s.Roles) == 0 {
		return DefaultRoles()
	}
	return s.Roles
}

// Role returns the role of a speaker.
func (s Script) Role(sp Speaker) Role {
	if r, ok := s.RoleSet().Lookup(sp); ok {
		return r
	}
	return Role{Label: string(sp), Human: sp == SpeakerHuman}
}

// IsHuman reports whether the turn is an input slot for the participant.
func (s Script) IsHuman(t Turn) bool {
	return s.Role(t.Speaker).Human
}

// IsNarration reports whether the turn is clerk/system narration.
func (s Script) IsNarration(t Turn) bool {
	return s.Role(t.Speaker).Narration
}

// HumanTurns counts the input slots of the script.
func (s Script) HumanTurns() int {
	n := 0
	for _, t := range s.Turns {
		if s.IsHuman(t) {
			n++
		}
	}
	return n
}

// Validate checks the structural invariants of the script.
func (s Script) Validate() error {
	if len(s.Turns) == 0 {
		return ErrEmptyScript
	}

	roles := s.RoleSet()
	seen := make(map[string]int, len(s.Turns))
	for i, t := range s.Turns {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("%w: turn %d has no id", ErrInvalidScript, i)
		}
		if prev, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate turn id %q at positions %d and %d", ErrInvalidScript, t.ID, prev, i)
		}
		seen[t.ID] = i

		role, ok := roles.Lookup(t.Speaker)
		if !ok {
			return fmt.Errorf("%w: turn %q has unknown speaker %q", ErrInvalidScript, t.ID, t.Speaker)
		}
		if role.Human && role.Narration {
			return fmt.Errorf("%w: role %q cannot be both human and narration", ErrInvalidScript, t.Speaker)
		}
		if role.Human && strings.TrimSpace(t.Content) != "" {
			return fmt.Errorf("%w: human turn %q must not carry authored content", ErrInvalidScript, t.ID)
		}
		if !role.Human && strings.TrimSpace(t.Content) == "" {
			return fmt.Errorf("%w: turn %q has no content", ErrInvalidScript, t.ID)
		}
	}
	return nil
}
