package sessions

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"goodstore/app/model"
	"goodstore/app/service/filter"
	"goodstore/app/service/results"
	"goodstore/app/service/session"
	"goodstore/app/service/viewport"
	"goodstore/app/util/splitter"
)

// Workspace is everything one user sees: the query session, the local
// filter, the result list, the map and the pane split.
type Workspace struct {
	id       string
	ctx      context.Context
	renderer viewport.Renderer

	controller *session.Controller
	filters    *filter.Store
	results    *results.Model
	layout     *splitter.Layout

	mu       sync.Mutex
	viewport *viewport.Synchronizer
	command  viewport.Command
	lastSeen time.Time
}

// View is the JSON shape of a workspace.
type View struct {
	session.Snapshot
	Visible    []model.Venue    `json:"visibleVenues"`
	Selected   *model.Venue     `json:"selected"`
	Chips      []results.Chip   `json:"activeChips"`
	SortKey    results.SortKey  `json:"sortKey"`
	SplitRatio float64          `json:"splitRatio"`
	Map        viewport.Command `json:"map"`
}

type Selection struct {
	Venue model.Venue      `json:"venue"`
	Map   viewport.Command `json:"map"`
}

func (w *Workspace) ID() string {
	return w.id
}

func (w *Workspace) touch() {
	w.mu.Lock()
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lastSeen
}

func (w *Workspace) View() View {
	w.mu.Lock()
	command := w.command
	w.mu.Unlock()

	view := View{
		Visible:    w.filters.Visible(),
		Chips:      w.results.ActiveChips(),
		SortKey:    w.results.SortKey(),
		SplitRatio: w.layout.Ratio(),
		Map:        command,
	}

	w.controller.Inspect(func(snapshot session.Snapshot) {
		view.Snapshot = snapshot
		view.Rows = w.results.Rows()
	})

	if selected, ok := w.results.Selected(); ok {
		view.Selected = &selected
	}

	return view
}

// SetFilter updates the local filter and the filters the next question is
// sent with.
func (w *Workspace) SetFilter(field filter.Field, value string) (filter.State, error) {
	state, err := w.filters.SetFilter(field, value)
	if err != nil {
		return state, err
	}

	w.controller.SetFilters(state)

	return state, nil
}

func (w *Workspace) SetInput(text string) {
	w.controller.SetInput(text)
}

// Submit asks the question with the current filters. A blank question falls
// back to the stored input text. The answer is applied in the background.
func (w *Workspace) Submit(question string) (<-chan session.Outcome, error) {
	if strings.TrimSpace(question) == "" {
		w.controller.SetFilters(w.filters.State())
		return w.watch(w.controller.SubmitPending(w.ctx))
	}

	return w.watch(w.controller.Submit(w.ctx, question, w.filters.State()))
}

func (w *Workspace) watch(outcomes <-chan session.Outcome, err error) (<-chan session.Outcome, error) {
	if err != nil {
		return nil, err
	}

	done := make(chan session.Outcome, 1)

	go func() {
		defer close(done)

		outcome, ok := <-outcomes
		if !ok {
			return
		}

		if outcome.Succeeded {
			w.render()
		}

		done <- outcome
	}()

	return done, nil
}

// Select marks a result row and recenters the map on it.
func (w *Workspace) Select(id string) (Selection, error) {
	venue, err := w.results.Select(id)
	if err != nil {
		return Selection{}, err
	}

	w.mu.Lock()
	w.command = w.viewport.Compute(&venue)
	command := w.command
	w.mu.Unlock()

	w.render()

	return Selection{Venue: venue, Map: command}, nil
}

func (w *Workspace) ToggleChip(chip results.Chip) (bool, error) {
	return w.results.ToggleChip(chip)
}

func (w *Workspace) SetSort(key results.SortKey) error {
	return w.results.SetSort(key)
}

func (w *Workspace) Drag(pointerY, containerHeight float64) (float64, float64) {
	return w.layout.Drag(pointerY, containerHeight)
}

func (w *Workspace) Frame() viewport.Frame {
	w.mu.Lock()
	command := w.command
	w.mu.Unlock()

	return viewport.NewFrame(w.results.Rows(), command)
}

func (w *Workspace) render() {
	if w.renderer == nil {
		return
	}

	frame := w.Frame()
	w.renderer.Render(w.id, frame)

	slog.Debug("Frame queued", "session", w.id, "markers", len(frame.Markers))
}
