package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"goodstore/app/client/assistant"
	"goodstore/app/model"
	"goodstore/app/service/filter"

	"github.com/samber/oops"
)

const defaultTimeout = 30 * time.Second

const (
	FailureText  = "죄송합니다. 답변을 가져오는 중 문제가 발생했습니다. 잠시 후 다시 시도해주세요."
	NoAnswerText = "답변이 없습니다."
)

type Backend interface {
	Ask(ctx context.Context, req assistant.Request) (*assistant.Response, error)
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	ID        string        `json:"id"`
	Filters   filter.State  `json:"filters"`
	InputText string        `json:"inputText"`
	Loading   bool          `json:"isLoading"`
	History   []Entry       `json:"history"`
	Rows      []model.Venue `json:"resultRows"`
}

// Ticket identifies one accepted submit between BeginSubmit and CompleteSubmit.
type Ticket struct {
	seq     uint64
	Request assistant.Request
}

type Outcome struct {
	Entry     Entry
	Succeeded bool
}

// Controller owns one query session. Only one question may be in flight at
// a time; a second submit is rejected with ErrBusy.
type Controller struct {
	id      string
	backend Backend
	timeout time.Duration

	mu        sync.RWMutex
	filters   filter.State
	inputText string
	loading   bool
	seq       uint64
	inflight  uint64
	history   History
	rows      []model.Venue
	onSuccess func(rows []model.Venue)
}

func New(id string, backend Backend, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Controller{
		id:      id,
		backend: backend,
		timeout: timeout,
		filters: filter.DefaultState(),
	}
}

func (c *Controller) ID() string {
	return c.id
}

// OnSuccess registers fn to receive the rows of every successful answer.
// fn runs under the session lock, in the same step that clears loading.
func (c *Controller) OnSuccess(fn func(rows []model.Venue)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onSuccess = fn
}

func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inputText = text
}

func (c *Controller) SetFilters(state filter.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filters = state
}

// Submit validates and records the question synchronously, then asks the
// backend in the background. The returned channel yields the outcome once.
func (c *Controller) Submit(ctx context.Context, question string, filters filter.State) (<-chan Outcome, error) {
	ticket, err := c.BeginSubmit(question, filters)
	if err != nil {
		return nil, err
	}

	done := make(chan Outcome, 1)

	go func() {
		defer close(done)
		done <- c.run(ctx, ticket)
	}()

	return done, nil
}

// SubmitPending submits the stored input text with the current filters.
func (c *Controller) SubmitPending(ctx context.Context) (<-chan Outcome, error) {
	c.mu.RLock()
	question, filters := c.inputText, c.filters
	c.mu.RUnlock()

	return c.Submit(ctx, question, filters)
}

func (c *Controller) BeginSubmit(question string, filters filter.State) (Ticket, error) {
	question = strings.TrimSpace(question)

	if err := validate(question, filters); err != nil {
		return Ticket{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		return Ticket{}, oops.
			Code("busy").
			With("session", c.id).
			Wrapf(ErrBusy, "session %s", c.id)
	}

	c.seq++
	c.inflight = c.seq
	c.loading = true
	c.filters = filters
	c.inputText = ""
	c.history.add(RoleUser, question, false)

	return Ticket{
		seq: c.seq,
		Request: assistant.Request{
			Question: question,
			Filters: assistant.Filters{
				IndutyType: filters.CategoryCode,
				EmdType:    filters.RegionCode,
			},
		},
	}, nil
}

// CompleteSubmit records the outcome of the request started by ticket. A
// transport error becomes an assistant entry with FailureText; the previous
// rows are kept.
func (c *Controller) CompleteSubmit(ticket Ticket, resp *assistant.Response, reqErr error) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loading || ticket.seq != c.inflight {
		return Outcome{}, oops.
			Code("unknown_ticket").
			With("session", c.id).
			Wrapf(ErrUnknownTicket, "ticket %d", ticket.seq)
	}

	c.loading = false
	c.inflight = 0

	if reqErr == nil && resp == nil {
		reqErr = errors.New("empty response")
	}

	if reqErr != nil {
		return Outcome{Entry: c.history.add(RoleAssistant, FailureText, true)}, nil
	}

	c.rows = resp.Venues()
	if c.onSuccess != nil {
		c.onSuccess(slices.Clone(c.rows))
	}

	text := NoAnswerText
	if resp.Answer != nil {
		text = strings.TrimSpace(*resp.Answer)
	}

	return Outcome{
		Entry:     c.history.add(RoleAssistant, text, false),
		Succeeded: true,
	}, nil
}

type askResult struct {
	resp *assistant.Response
	err  error
}

func (c *Controller) run(ctx context.Context, ticket Ticket) Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resultChan := make(chan askResult, 1)

	go func() {
		resp, err := c.backend.Ask(ctx, ticket.Request)
		resultChan <- askResult{resp, err}
	}()

	var result askResult

	select {
	case result = <-resultChan:
	case <-ctx.Done():
		result.err = fmt.Errorf("request abandoned: %w", context.Cause(ctx))
	}

	if result.err != nil {
		slog.Warn("Query failed",
			"session", c.id,
			"question", ticket.Request.Question,
			"duration", time.Since(start),
			"error", result.err,
		)
	}

	outcome, err := c.CompleteSubmit(ticket, result.resp, result.err)
	if err != nil {
		slog.Error("Failed to complete query", "session", c.id, "error", err)
		return outcome
	}

	slog.Info("Query completed",
		"session", c.id,
		"question", ticket.Request.Question,
		"succeeded", outcome.Succeeded,
		"duration", time.Since(start),
	)

	return outcome
}

func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loading
}

func (c *Controller) Rows() []model.Venue {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.rows)
}

func (c *Controller) History() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.history.Entries()
}

func (c *Controller) VisibleHistory() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.history.Visible())
}

// Transcript renders the visible history as plain text.
func (c *Controller) Transcript() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.history.format()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snapshot()
}

// Inspect calls fn with a snapshot while holding the read lock, so state
// fed by OnSuccess can be read consistently with it.
func (c *Controller) Inspect(fn func(Snapshot)) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fn(c.snapshot())
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		ID:        c.id,
		Filters:   c.filters,
		InputText: c.inputText,
		Loading:   c.loading,
		History:   c.history.Entries(),
		Rows:      slices.Clone(c.rows),
	}
}
