// Package report assembles the per-run check results into an ordered,
// human-readable summary.
package report

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdhwiz/brickwatch/internal/registry"
	"github.com/jdhwiz/brickwatch/internal/stock"
)

// Outcome records the result of one check attempt. Exactly one Outcome is
// produced per target per run, in registry order.
type Outcome struct {
	Target      registry.Target `json:"target"`
	State       stock.State     `json:"state"`
	Title       string          `json:"title,omitempty"`
	ErrorDetail string          `json:"error_detail,omitempty"`
	Notified    bool            `json:"notified"`
	CheckedAt   time.Time       `json:"checked_at"`
}

// Report is the ordered result of one full run. It lives in memory for the
// duration of the run only; nothing is checkpointed.
type Report struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcomes   []Outcome `json:"outcomes"`
}

// New starts an empty report with a fresh run ID.
func New() *Report {
	return &Report{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// Append adds one outcome, preserving insertion order.
func (r *Report) Append(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Finish stamps the report complete.
func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// Render formats the report for the console: one block per target with
// position, product, state, URL and error detail if any.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Stock check %s - %d targets\n", r.StartedAt.Format("2006-01-02 15:04:05"), len(r.Outcomes))
	b.WriteString(strings.Repeat("=", 70))
	b.WriteString("\n")

	for _, o := range r.Outcomes {
		fmt.Fprintf(&b, "[%d] %s\n", o.Target.Position, o.Target.ProductName())
		fmt.Fprintf(&b, "  Status: %s\n", o.State)
		fmt.Fprintf(&b, "  URL: %s\n", o.Target.URL)
		if o.ErrorDetail != "" {
			fmt.Fprintf(&b, "  Error: %s\n", o.ErrorDetail)
		}
	}

	return b.String()
}

// Summary formats the report as the body of the consolidated end-of-run
// notification.
func (r *Report) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Stock Check Summary - %s\n\n", r.StartedAt.Format("2006-01-02 15:04:05"))
	for _, o := range r.Outcomes {
		fmt.Fprintf(&b, "[%d] %s\n", o.Target.Position, o.Target.ProductName())
		fmt.Fprintf(&b, "  Status: %s\n", o.State)
		fmt.Fprintf(&b, "  URL: %s\n", o.Target.URL)
		if o.ErrorDetail != "" {
			fmt.Fprintf(&b, "  Error: %s\n", o.ErrorDetail)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Store holds the most recent completed report for read-only consumers such
// as the status API.
type Store struct {
	mu     sync.RWMutex
	latest *Report
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Set(r *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = r
}

// Latest returns the most recent report, or nil when no run has completed.
func (s *Store) Latest() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
