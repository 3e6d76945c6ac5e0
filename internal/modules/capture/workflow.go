// Package capture drives the entry of one cash-closing record across five
// ordered stages and hands the finished record to persistence.
//
// Navigation is free: Next, Previous and JumpTo never check what has been
// filled in. Everything is checked once, by Submit, from the Review stage.
// While Submit waits on persistence, every edit and move returns
// ErrSubmissionPending.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
	"github.com/georgemunganga/cloture-backend/internal/modules/session"
)

var (
	// ErrNotInReview is returned by Submit outside the Review stage. Nothing changes.
	ErrNotInReview = errors.New("submit is only available from the review step")
	// ErrSubmissionPending is returned while a previous Submit is still waiting
	// on the persistence service.
	ErrSubmissionPending = errors.New("a submission is already in progress")
)

// Submitter stores a finished record and returns it with its id.
type Submitter interface {
	CreateTransaction(ctx context.Context, rec closing.Record) (*closing.Record, error)
}

// Result is what a successful Submit returns.
type Result struct {
	Stored *closing.Record
	Report closing.Report
}

// Workflow holds one record being captured. It is safe for concurrent use, but
// a single agent is expected to drive it.
type Workflow struct {
	mu        sync.Mutex
	submitter Submitter
	agent     string
	step      Step
	record    closing.Record
	pending   bool
}

// New starts an empty capture at Details. The agent identity is read from sess
// once, here.
func New(sess session.Session, submitter Submitter) *Workflow {
	w := &Workflow{submitter: submitter, agent: sess.Pseudo}
	w.reset()
	return w
}

func (w *Workflow) reset() {
	w.record = closing.Record{Agent: w.agent}
	w.step = Details
}

// Current returns the active stage.
func (w *Workflow) Current() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Record returns a copy of the record as entered so far.
func (w *Workflow) Record() closing.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.record
}

// edit runs fn under the lock unless a submission is in flight. A pending
// record is frozen until the Submitter answers.
func (w *Workflow) edit(fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending {
		return ErrSubmissionPending
	}
	return fn()
}

// Next advances one stage, stopping at Review.
func (w *Workflow) Next() (Step, error) {
	var cur Step
	err := w.edit(func() error {
		if w.step < Review {
			w.step++
		}
		cur = w.step
		return nil
	})
	return cur, err
}

// Previous goes back one stage, stopping at Details.
func (w *Workflow) Previous() (Step, error) {
	var cur Step
	err := w.edit(func() error {
		if w.step > Details {
			w.step--
		}
		cur = w.step
		return nil
	})
	return cur, err
}

// JumpTo moves straight to s.
func (w *Workflow) JumpTo(s Step) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStep, int(s))
	}
	return w.edit(func() error {
		w.step = s
		return nil
	})
}

func (w *Workflow) SetClosingNumber(v string) error {
	return w.edit(func() error {
		w.record.ClosingNumber = strings.TrimSpace(v)
		return nil
	})
}

// SetDate takes a YYYY-MM-DD date. An empty value clears the date.
func (w *Workflow) SetDate(raw string) error {
	raw = strings.TrimSpace(raw)
	return w.edit(func() error {
		if raw == "" {
			w.record.Date = closing.Record{}.Date
			return nil
		}
		d, err := closing.ParseDate(raw)
		if err != nil {
			return err
		}
		w.record.Date = d
		return nil
	})
}

// SetPointOfSale stores the site code. Unknown codes are kept and reported
// at submission.
func (w *Workflow) SetPointOfSale(p closing.PointOfSale) error {
	return w.edit(func() error {
		w.record.PointOfSale = p
		return nil
	})
}

// SetAmount stores raw input for a monetary field. Input that is not a number,
// or that cannot be stored, is kept as 0. total_ttc cannot be set: it follows
// the pre-tax total and the tax.
func (w *Workflow) SetAmount(f closing.Field, raw string) error {
	v := closing.ParseAmount(raw)
	return w.edit(func() error {
		return w.record.SetAmount(f, v)
	})
}

// Check returns what Submit would report for the current record, without
// submitting it.
func (w *Workflow) Check() (closing.Report, error) {
	rec := w.Record()
	return closing.Reconcile(rec), closing.Validate(rec)
}

// Submit validates the record and hands it to the Submitter. On success the
// workflow starts over with an empty record at Details. On any failure the
// record and the stage are left as they were.
func (w *Workflow) Submit(ctx context.Context) (*Result, error) {
	w.mu.Lock()
	if w.step != Review {
		w.mu.Unlock()
		return nil, ErrNotInReview
	}
	if w.pending {
		w.mu.Unlock()
		return nil, ErrSubmissionPending
	}
	rec := w.record
	if err := closing.Validate(rec); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.pending = true
	w.mu.Unlock()

	report := closing.Reconcile(rec)
	stored, err := w.submitter.CreateTransaction(ctx, rec)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = false
	if err != nil {
		return nil, fmt.Errorf("submit transaction %s: %w", rec.ClosingNumber, err)
	}
	w.reset()
	return &Result{Stored: stored, Report: report}, nil
}
