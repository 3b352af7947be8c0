package pet

import (
	"fmt"
	"time"
)

// EntityKind is the sort of nuisance in the room
type EntityKind string

const (
	EntityMess EntityKind = "mess"
	EntityPest EntityKind = "pest"
)

// Position is a point in normalized room coordinates, both axes in [0,1].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) distance2(q Position) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// NuisanceEntity is a mess or pest waiting to be cleared
type NuisanceEntity struct {
	ID        string          `json:"id"`
	Kind      EntityKind      `json:"kind"`
	Position  Position        `json:"position"`
	CreatedAt time.Time       `json:"created_at"`
	State     ResolutionState `json:"state"`
}

// Clearing reports whether the entity is in its clearing delay.
func (e NuisanceEntity) Clearing() bool {
	return e.State == StateResolving
}

// entitySet is the room's nuisance collection, kept in spawn order.
type entitySet struct {
	items []*NuisanceEntity
}

func (s *entitySet) count(kind EntityKind) int {
	n := 0
	for _, e := range s.items {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (s *entitySet) find(kind EntityKind, id string) *NuisanceEntity {
	for _, e := range s.items {
		if e.Kind == kind && e.ID == id {
			return e
		}
	}
	return nil
}

func (s *entitySet) positions(kind EntityKind) []Position {
	var out []Position
	for _, e := range s.items {
		if e.Kind == kind {
			out = append(out, e.Position)
		}
	}
	return out
}

func (s *entitySet) add(e *NuisanceEntity) {
	s.items = append(s.items, e)
}

func (s *entitySet) remove(id string) bool {
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *entitySet) clear() {
	s.items = nil
}

// snapshot copies the entities of kind for read-only use.
func (s *entitySet) snapshot(kind EntityKind) []NuisanceEntity {
	out := []NuisanceEntity{}
	for _, e := range s.items {
		if e.Kind == kind {
			out = append(out, *e)
		}
	}
	return out
}

func (s *entitySet) restore(items []NuisanceEntity) error {
	s.items = nil
	for i := range items {
		e := items[i]
		if e.Kind != EntityMess && e.Kind != EntityPest {
			return fmt.Errorf("entity %s: unknown kind %q", e.ID, e.Kind)
		}
		// A clear interrupted by shutdown starts over
		e.State = StateIdle
		s.items = append(s.items, &e)
	}
	return nil
}
