package splitter

import "sync"

const DefaultMinPane = 100

// ComputeSplit maps a pointer offset inside the container to the fractions
// of the map pane (top) and the list pane (bottom). Both panes keep at least
// minPane units; a container too small for that is split evenly.
func ComputeSplit(pointerY, containerHeight, minPane float64) (float64, float64) {
	if minPane < 0 {
		minPane = 0
	}

	if containerHeight <= 0 || containerHeight < 2*minPane {
		return 0.5, 0.5
	}

	top := min(max(pointerY, minPane), containerHeight-minPane)
	mapFraction := top / containerHeight

	return mapFraction, 1 - mapFraction
}

// Layout remembers the current split between drags.
type Layout struct {
	mu      sync.RWMutex
	minPane float64
	ratio   float64
}

func NewLayout(minPane float64) *Layout {
	return &Layout{
		minPane: minPane,
		ratio:   0.5,
	}
}

func (l *Layout) Drag(pointerY, containerHeight float64) (float64, float64) {
	mapFraction, listFraction := ComputeSplit(pointerY, containerHeight, l.minPane)

	l.mu.Lock()
	l.ratio = mapFraction
	l.mu.Unlock()

	return mapFraction, listFraction
}

// Heights converts the stored ratio to pane heights for a container.
func (l *Layout) Heights(containerHeight float64) (float64, float64) {
	l.mu.RLock()
	ratio := l.ratio
	l.mu.RUnlock()

	mapHeight := containerHeight * ratio
	return mapHeight, containerHeight - mapHeight
}

func (l *Layout) Ratio() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.ratio
}
