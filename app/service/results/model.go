package results

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"goodstore/app/model"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/oops"
)

type Chip string

const (
	ChipOpen   Chip = "open"
	ChipNearby Chip = "nearby"
	ChipCheap  Chip = "cheap"
	ChipRating Chip = "rating"
)

var chips = []Chip{ChipOpen, ChipNearby, ChipCheap, ChipRating}

type SortKey string

const (
	SortDistance SortKey = "distance"
	SortRating   SortKey = "rating"
	SortPrice    SortKey = "price"
	SortPopular  SortKey = "popular"
)

var sortKeys = []SortKey{SortDistance, SortRating, SortPrice, SortPopular}

var (
	ErrNotFound   = errors.New("venue not found")
	ErrUnknownKey = errors.New("unknown key")
)

// Model combines the latest result rows with presentation state. Chips are
// stored only; they do not filter rows.
type Model struct {
	mu       sync.RWMutex
	rows     []model.Venue
	selected *model.Venue
	active   map[Chip]struct{}
	sortKey  SortKey
}

func New() *Model {
	return &Model{
		active:  make(map[Chip]struct{}),
		sortKey: SortDistance,
	}
}

// SetRows replaces the rows. The selection survives even if the selected
// venue is no longer among them.
func (m *Model) SetRows(rows []model.Venue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = slices.Clone(rows)
}

func (m *Model) Select(id string) (model.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := pie.FindFirstUsing(m.rows, func(v model.Venue) bool {
		return v.ID == id
	})
	if idx < 0 {
		return model.Venue{}, oops.
			Code("not_found").
			With("id", id).
			Wrapf(ErrNotFound, "venue %q", id)
	}

	selected := m.rows[idx]
	m.selected = &selected

	return selected, nil
}

func (m *Model) Selected() (model.Venue, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.selected == nil {
		return model.Venue{}, false
	}

	return *m.selected, true
}

func (m *Model) ToggleChip(chip Chip) (bool, error) {
	if !slices.Contains(chips, chip) {
		return false, oops.
			Code("unknown_chip").
			With("chip", chip).
			Wrapf(ErrUnknownKey, "chip %q", chip)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.active[chip]; ok {
		delete(m.active, chip)
		return false, nil
	}

	m.active[chip] = struct{}{}

	return true, nil
}

func (m *Model) ActiveChips() []Chip {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return pie.Filter(chips, func(c Chip) bool {
		_, ok := m.active[c]
		return ok
	})
}

func (m *Model) SetSort(key SortKey) error {
	if !slices.Contains(sortKeys, key) {
		return oops.
			Code("unknown_sort").
			With("sort", key).
			Wrapf(ErrUnknownKey, "sort key %q", key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sortKey = key

	return nil
}

func (m *Model) SortKey() SortKey {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sortKey
}

// Rows returns the rows ordered by the active sort key. Distance and
// popularity have no data behind them yet and keep the backend order.
func (m *Model) Rows() []model.Venue {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch m.sortKey {
	case SortRating:
		return pie.SortStableUsing(slices.Clone(m.rows), func(a, b model.Venue) bool {
			return a.Rating > b.Rating
		})
	case SortPrice:
		return pie.SortStableUsing(slices.Clone(m.rows), cheaper)
	default:
		return slices.Clone(m.rows)
	}
}

func cheaper(a, b model.Venue) bool {
	if a.PriceTier.Rank() != b.PriceTier.Rank() {
		return a.PriceTier.Rank() < b.PriceTier.Rank()
	}

	pa, pb := priceOf(a), priceOf(b)
	switch {
	case pa == 0:
		return false
	case pb == 0:
		return true
	default:
		return pa < pb
	}
}

// priceOf prefers AveragePrice and falls back to the digits of the display
// price ("8,000원" -> 8000). Zero means unknown.
func priceOf(v model.Venue) int {
	if v.AveragePrice > 0 {
		return v.AveragePrice
	}

	n := 0
	for _, r := range strings.TrimSpace(v.Price) {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		}
	}

	return n
}
