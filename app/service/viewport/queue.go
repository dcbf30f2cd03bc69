package viewport

import (
	"context"
	"log/slog"
	"sync"

	"goodstore/app/config"

	"github.com/samber/do"
)

// Renderer receives frames fire-and-forget.
type Renderer interface {
	Render(sessionID string, frame Frame)
}

var _ do.Shutdownable = (*Queue)(nil)
var _ Renderer = (*Queue)(nil)

type Job struct {
	SessionID string
	Frame     Frame
}

// Queue buffers frames for a slow consumer and drops new ones when full.
type Queue struct {
	mu     sync.RWMutex
	closed bool
	queue  chan Job
}

func NewQueue(di *do.Injector) (*Queue, error) {
	cfg := do.MustInvoke[*config.Config](di)
	return NewQueueSize(cfg.Map.RenderBuffer), nil
}

func NewQueueSize(size int) *Queue {
	return &Queue{
		queue: make(chan Job, size),
	}
}

func (q *Queue) Render(sessionID string, frame Frame) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return
	}

	select {
	case q.queue <- Job{SessionID: sessionID, Frame: frame}:
	default:
		slog.Warn("render queue is full", "session", sessionID)
	}
}

func (q *Queue) Channel() <-chan Job {
	return q.queue
}

// Run hands every queued frame to sink until ctx is done or the queue closes.
func (q *Queue) Run(ctx context.Context, sink func(Job)) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.queue:
			if !ok {
				return
			}
			sink(job)
		}
	}
}

func (q *Queue) Shutdown() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.queue)
	}

	return nil
}

// LogSink is the default consumer; the actual map lives in the client.
func LogSink(job Job) {
	attrs := []any{
		"session", job.SessionID,
		"markers", len(job.Frame.Markers),
		"zoom", job.Frame.Zoom,
	}
	if job.Frame.Center != nil {
		attrs = append(attrs, "lat", job.Frame.Center.Lat, "lon", job.Frame.Center.Lon)
	}

	slog.Debug("Map frame", attrs...)
}
