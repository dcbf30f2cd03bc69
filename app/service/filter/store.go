package filter

import (
	"slices"
	"sync"

	"goodstore/app/model"
)

// Store owns a venue collection and the filter applied to it. The visible
// subset is recomputed eagerly whenever either input changes.
type Store struct {
	mu      sync.RWMutex
	venues  []model.Venue
	state   State
	visible []model.Venue
}

func NewStore(venues []model.Venue) *Store {
	s := &Store{
		venues: slices.Clone(venues),
		state:  DefaultState(),
	}
	s.visible = DeriveVisible(s.venues, s.state)

	return s
}

func (s *Store) SetFilter(field Field, value string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.With(field, value)
	if err != nil {
		return s.state, err
	}

	s.state = next
	s.visible = DeriveVisible(s.venues, s.state)

	return s.state, nil
}

func (s *Store) Replace(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
	s.visible = DeriveVisible(s.venues, s.state)
}

func (s *Store) SetVenues(venues []model.Venue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.venues = slices.Clone(venues)
	s.visible = DeriveVisible(s.venues, s.state)
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *Store) Visible() []model.Venue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.visible)
}
