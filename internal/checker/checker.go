// Package checker drives one run: fetch each target in registry order,
// classify the page text, notify on states of interest and assemble the run
// report. One target's failure never touches another target's check.
package checker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jdhwiz/brickwatch/internal/artifacts"
	"github.com/jdhwiz/brickwatch/internal/fetcher"
	"github.com/jdhwiz/brickwatch/internal/ledger"
	"github.com/jdhwiz/brickwatch/internal/notify"
	"github.com/jdhwiz/brickwatch/internal/ratelimit"
	"github.com/jdhwiz/brickwatch/internal/registry"
	"github.com/jdhwiz/brickwatch/internal/report"
	"github.com/jdhwiz/brickwatch/internal/stock"
)

// ErrNoTargets aborts a run before any target is processed. An empty
// registry is a setup mistake, not a valid empty run.
var ErrNoTargets = errors.New("no targets configured")

// failureRecorder is implemented by rate limiters that adapt their pacing
// to check outcomes.
type failureRecorder interface {
	RecordSuccess()
	RecordFailure()
}

type Options struct {
	// NotifyStates is the set of states that trigger a per-target alert.
	NotifyStates map[stock.State]bool
	// SendSummary controls the consolidated end-of-run notification.
	SendSummary bool
}

type Checker struct {
	fetcher     fetcher.Fetcher
	notifier    notify.Notifier
	ledger      *ledger.Ledger
	limiter     ratelimit.RateLimiter
	artifacts   *artifacts.Store
	policy      map[stock.State]bool
	sendSummary bool
	logger      *slog.Logger
}

// New wires a checker. notifier, ledger and artifactStore may be nil:
// notifications are then disabled, sent unconditionally, or snapshots
// skipped, respectively.
func New(f fetcher.Fetcher, n notify.Notifier, led *ledger.Ledger, limiter ratelimit.RateLimiter, store *artifacts.Store, opts Options) *Checker {
	return &Checker{
		fetcher:     f,
		notifier:    n,
		ledger:      led,
		limiter:     limiter,
		artifacts:   store,
		policy:      opts.NotifyStates,
		sendSummary: opts.SendSummary,
		logger:      slog.Default().With("component", "checker"),
	}
}

// Run processes every target strictly in order, one at a time, pausing after
// each attempt. The returned report always holds one outcome per processed
// target, in input order. Run fails only on an empty target list or on
// context cancellation; in the latter case the partial report is returned
// alongside the error.
func (c *Checker) Run(ctx context.Context, targets []registry.Target) (*report.Report, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	rep := report.New()
	c.logger.Info("starting run", "run_id", rep.ID, "targets", len(targets))

	for _, target := range targets {
		outcome := c.CheckTarget(ctx, target)
		c.recordPacing(outcome.State)

		if c.shouldNotify(outcome) {
			outcome.Notified = c.sendAlert(ctx, outcome)
		}

		rep.Append(outcome)
		c.logger.Info("target checked",
			"position", target.Position,
			"product", target.ProductName(),
			"state", outcome.State,
			"notified", outcome.Notified,
		)

		// The pause is unconditional: it runs after every attempt,
		// including the last, however long the attempt took.
		if err := c.limiter.Pause(ctx); err != nil {
			rep.Finish()
			return rep, err
		}
	}

	rep.Finish()
	c.sendSummaryReport(ctx, rep)

	return rep, nil
}

// CheckTarget performs one fetch+classify attempt. It never fails: fetch
// errors are contained as an ERROR outcome.
func (c *Checker) CheckTarget(ctx context.Context, target registry.Target) report.Outcome {
	outcome := report.Outcome{
		Target:    target,
		CheckedAt: time.Now().UTC(),
	}

	result, err := c.fetcher.Fetch(ctx, target.URL)
	if err != nil {
		c.logger.Warn("fetch failed", "url", target.URL, "error", err)
		outcome.State = stock.StateError
		outcome.ErrorDetail = err.Error()
		return outcome
	}

	c.saveArtifacts(target, result)

	outcome.State = stock.Classify(result.Text)
	outcome.Title = result.Title

	if outcome.State == stock.StateUnknown {
		c.logger.Warn("no classification rule matched", "url", target.URL)
	}
	if outcome.State == stock.StateBlocked {
		c.logger.Warn("anti-bot challenge detected, see saved page snapshot",
			"url", target.URL, "product", target.ProductName())
	}

	return outcome
}

func (c *Checker) shouldNotify(o report.Outcome) bool {
	if c.notifier == nil || !c.policy[o.State] {
		return false
	}
	if c.ledger != nil && !c.ledger.ShouldNotify(o.Target.URL, o.State) {
		c.logger.Debug("alert suppressed, state unchanged since last notification",
			"url", o.Target.URL, "state", o.State)
		return false
	}
	return true
}

func (c *Checker) sendAlert(ctx context.Context, o report.Outcome) bool {
	if err := c.notifier.Send(ctx, notify.AlertSubject(o), notify.AlertBody(o)); err != nil {
		c.logger.Warn("notification failed", "url", o.Target.URL, "error", err)
		return false
	}

	if c.ledger != nil {
		if err := c.ledger.MarkNotified(o.Target.URL, o.State); err != nil {
			c.logger.Warn("failed to persist notification ledger", "error", err)
		}
	}

	return true
}

func (c *Checker) sendSummaryReport(ctx context.Context, rep *report.Report) {
	if !c.sendSummary || c.notifier == nil {
		return
	}

	if err := c.notifier.Send(ctx, notify.SummarySubject(), rep.Summary()); err != nil {
		c.logger.Warn("summary notification failed", "error", err)
		return
	}
	c.logger.Info("summary notification sent", "run_id", rep.ID)
}

func (c *Checker) recordPacing(state stock.State) {
	rec, ok := c.limiter.(failureRecorder)
	if !ok {
		return
	}

	switch state {
	case stock.StateError, stock.StateBlocked:
		rec.RecordFailure()
	default:
		rec.RecordSuccess()
	}
}

func (c *Checker) saveArtifacts(target registry.Target, result *fetcher.Result) {
	if c.artifacts == nil {
		return
	}
	if err := c.artifacts.Save(target.ProductName(), result.Title, result.HTML, result.Text); err != nil {
		c.logger.Warn("failed to save page snapshot", "product", target.ProductName(), "error", err)
	}
}
