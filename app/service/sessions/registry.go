package sessions

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"goodstore/app/client/assistant"
	"goodstore/app/config"
	"goodstore/app/model"
	"goodstore/app/service/filter"
	"goodstore/app/service/results"
	"goodstore/app/service/session"
	"goodstore/app/service/venues"
	"goodstore/app/service/viewport"
	"goodstore/app/util/splitter"

	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const sweepInterval = time.Minute

var ErrNotFound = errors.New("session not found")

var _ do.Shutdownable = (*Registry)(nil)

type Options struct {
	Timeout     time.Duration
	IdleTTL     time.Duration
	SelectZoom  int
	InitialZoom int
	MinPane     float64
}

// Registry keeps the workspaces of active sessions in memory.
type Registry struct {
	ctx      context.Context
	backend  session.Backend
	venues   func() []model.Venue
	renderer viewport.Renderer
	opts     Options

	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

func New(di *do.Injector) (*Registry, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewRegistry(
		do.MustInvoke[context.Context](di),
		do.MustInvoke[*assistant.Client](di),
		do.MustInvoke[*venues.Service](di).All,
		do.MustInvoke[*viewport.Queue](di),
		Options{
			Timeout:     cfg.Session.Timeout,
			IdleTTL:     cfg.Session.IdleTTL,
			SelectZoom:  cfg.Map.SelectZoom,
			InitialZoom: cfg.Map.InitialZoom,
			MinPane:     cfg.Map.MinPane,
		},
	), nil
}

func NewRegistry(
	ctx context.Context,
	backend session.Backend,
	collection func() []model.Venue,
	renderer viewport.Renderer,
	opts Options,
) *Registry {
	return &Registry{
		ctx:        ctx,
		backend:    backend,
		venues:     collection,
		renderer:   renderer,
		opts:       opts,
		workspaces: make(map[string]*Workspace),
	}
}

func (r *Registry) Create() *Workspace {
	id := uuid.NewString()
	synchronizer := viewport.NewSynchronizer(r.opts.SelectZoom, r.opts.InitialZoom)

	var collection []model.Venue
	if r.venues != nil {
		collection = r.venues()
	}

	w := &Workspace{
		id:         id,
		ctx:        r.ctx,
		renderer:   r.renderer,
		controller: session.New(id, r.backend, r.opts.Timeout),
		filters:    filter.NewStore(collection),
		results:    results.New(),
		layout:     splitter.NewLayout(r.opts.MinPane),
		viewport:   synchronizer,
		command:    synchronizer.Initial(),
		lastSeen:   time.Now(),
	}

	w.controller.OnSuccess(w.results.SetRows)

	r.mu.Lock()
	r.workspaces[id] = w
	r.mu.Unlock()

	slog.Info("Session created", "session", id)

	return w
}

func (r *Registry) Get(id string) (*Workspace, error) {
	r.mu.RLock()
	w, ok := r.workspaces[id]
	r.mu.RUnlock()

	if !ok {
		return nil, oops.
			Code("session_not_found").
			With("session", id).
			Wrapf(ErrNotFound, "session %q", id)
	}

	w.touch()

	return w, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[id]; !ok {
		return oops.
			Code("session_not_found").
			With("session", id).
			Wrapf(ErrNotFound, "session %q", id)
	}

	delete(r.workspaces, id)
	slog.Info("Session deleted", "session", id)

	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.workspaces)
}

// Sweep drops sessions idle for longer than the configured TTL. Sessions
// with a question in flight are kept.
func (r *Registry) Sweep(now time.Time) int {
	if r.opts.IdleTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, w := range r.workspaces {
		if w.controller.Loading() || now.Sub(w.idleSince()) < r.opts.IdleTTL {
			continue
		}

		delete(r.workspaces, id)
		removed++
	}

	if removed > 0 {
		slog.Info("Idle sessions dropped", "count", removed)
	}

	return removed
}

func (r *Registry) RunCleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

func (r *Registry) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.workspaces)

	return nil
}
