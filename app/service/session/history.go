package session

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/elliotchance/pie/v2"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Entry struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	// Failure marks synthetic assistant replies produced from a failed request
	Failure bool `json:"failure,omitempty"`
}

// History is append-only; timestamps strictly increase.
type History struct {
	entries []Entry
	now     func() time.Time
}

func (h *History) add(role Role, text string, failure bool) Entry {
	ts := h.clock()
	if n := len(h.entries); n > 0 && !ts.After(h.entries[n-1].Timestamp) {
		ts = h.entries[n-1].Timestamp.Add(time.Nanosecond)
	}

	entry := Entry{
		Role:      role,
		Text:      text,
		Timestamp: ts,
		Failure:   failure,
	}
	h.entries = append(h.entries, entry)

	return entry
}

func (h *History) clock() time.Time {
	if h.now != nil {
		return h.now()
	}

	return time.Now()
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Entries() []Entry {
	return slices.Clone(h.entries)
}

// Visible drops assistant entries without text. They stay in Entries.
func (h *History) Visible() []Entry {
	return pie.Filter(h.entries, func(e Entry) bool {
		return e.Role != RoleAssistant || strings.TrimSpace(e.Text) != ""
	})
}

func (h *History) format() string {
	if len(h.entries) == 0 {
		return "No messages"
	}

	var builder strings.Builder

	for _, e := range h.Visible() {
		builder.WriteString(fmt.Sprintf("%s - %s: %s\n", formatTime(e.Timestamp), e.Role, e.Text))
	}

	return builder.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return t.Format("15:04:05")
}
