package capture

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
	"github.com/georgemunganga/cloture-backend/internal/modules/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	err      error
	received []closing.Record
	block    chan struct{}
	entered  chan struct{}
}

func (f *fakeSubmitter) CreateTransaction(_ context.Context, rec closing.Record) (*closing.Record, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, rec)
	if f.err != nil {
		return nil, f.err
	}
	rec.ID = uuid.New()
	return &rec, nil
}

var agent = session.Session{UserID: "u-1", Pseudo: "koffi", Role: session.RoleAgent}

// fill walks every stage and enters a balanced record.
func fill(t *testing.T, w *Workflow) {
	t.Helper()
	require.NoError(t, w.SetClosingNumber(" CL-9 "))
	require.NoError(t, w.SetDate("2024-03-06"))
	require.NoError(t, w.SetPointOfSale(closing.PointMFF))

	next(t, w)
	require.NoError(t, w.SetAmount(closing.FieldBillet, "300"))
	require.NoError(t, w.SetAmount(closing.FieldXbag, "18"))

	next(t, w)
	require.NoError(t, w.SetAmount(closing.FieldEspeces, "200"))
	require.NoError(t, w.SetAmount(closing.FieldCB, "118"))

	next(t, w)
	require.NoError(t, w.SetAmount(closing.FieldTotalHorsTaxes, "300"))
	require.NoError(t, w.SetAmount(closing.FieldMontantDeLaTaxe, "18"))

	next(t, w)
	require.Equal(t, Review, w.Current())
}

func next(t *testing.T, w *Workflow) Step {
	t.Helper()
	s, err := w.Next()
	require.NoError(t, err)
	return s
}

func previous(t *testing.T, w *Workflow) Step {
	t.Helper()
	s, err := w.Previous()
	require.NoError(t, err)
	return s
}

func TestWorkflow_Navigation(t *testing.T) {
	w := New(agent, &fakeSubmitter{})
	assert.Equal(t, Details, w.Current())

	assert.Equal(t, TransactionTypes, next(t, w))
	assert.Equal(t, Details, previous(t, w))
	assert.Equal(t, Details, previous(t, w), "Previous stops at Details")

	require.NoError(t, w.JumpTo(Review))
	assert.Equal(t, Review, w.Current())
	assert.Equal(t, Review, next(t, w), "Next stops at Review")

	require.NoError(t, w.JumpTo(PaymentMethods))
	assert.Equal(t, PaymentMethods, w.Current())

	err := w.JumpTo(Step(7))
	assert.ErrorIs(t, err, ErrUnknownStep)
	assert.Equal(t, PaymentMethods, w.Current())
}

func TestWorkflow_NextDoesNotRequireFields(t *testing.T) {
	w := New(agent, &fakeSubmitter{})
	for i := 0; i < 4; i++ {
		next(t, w)
	}
	assert.Equal(t, Review, w.Current())
}

func TestWorkflow_SubmitOutsideReviewIsNoop(t *testing.T) {
	sub := &fakeSubmitter{}
	w := New(agent, sub)
	fill(t, w)
	require.NoError(t, w.JumpTo(Totals))
	before := w.Record()

	for _, s := range []Step{Details, TransactionTypes, PaymentMethods, Totals} {
		require.NoError(t, w.JumpTo(s))
		res, err := w.Submit(context.Background())
		assert.ErrorIs(t, err, ErrNotInReview)
		assert.Nil(t, res)
		assert.Equal(t, s, w.Current())
	}
	assert.Equal(t, before, w.Record())
	assert.Empty(t, sub.received)
}

func TestWorkflow_SubmitSuccessResets(t *testing.T) {
	sub := &fakeSubmitter{}
	w := New(agent, sub)
	fill(t, w)

	res, err := w.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Stored)
	assert.True(t, res.Report.Balanced())

	require.Len(t, sub.received, 1)
	sent := sub.received[0]
	assert.Equal(t, "CL-9", sent.ClosingNumber)
	assert.Equal(t, "koffi", sent.Agent)
	assert.Equal(t, "2024-03-06", sent.DateString())
	assert.Equal(t, "318", sent.TotalTTC.String())

	assert.Equal(t, Details, w.Current())
	after := w.Record()
	assert.Equal(t, "", after.ClosingNumber)
	assert.False(t, after.HasDate())
	assert.Equal(t, closing.PointOfSale(""), after.PointOfSale)
	for _, f := range closing.MonetaryFields() {
		v, _ := after.Amount(f)
		assert.True(t, v.IsZero(), "%s should be reset", f)
	}
	assert.Equal(t, "koffi", after.Agent)
}

func TestWorkflow_SubmitFailureKeepsState(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("connection refused")}
	w := New(agent, sub)
	fill(t, w)
	before := w.Record()

	res, err := w.Submit(context.Background())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, sub.err)

	assert.Equal(t, Review, w.Current())
	assert.Equal(t, before, w.Record())

	// The same record can be submitted again once the service recovers.
	sub.err = nil
	_, err = w.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, sub.received, 2)
}

func TestWorkflow_ValidationBlocksSubmission(t *testing.T) {
	sub := &fakeSubmitter{}
	w := New(agent, sub)
	require.NoError(t, w.JumpTo(Review))

	_, err := w.Submit(context.Background())
	var verr *closing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(closing.FieldClosingNumber, closing.RuleRequired))
	assert.True(t, verr.Has(closing.FieldDate, closing.RuleRequired))
	assert.True(t, verr.Has(closing.FieldPointOfSale, closing.RuleRequired))
	assert.Empty(t, sub.received)
	assert.Equal(t, Review, w.Current())
}

func TestWorkflow_PaymentDiscrepancyDoesNotBlock(t *testing.T) {
	sub := &fakeSubmitter{}
	w := New(agent, sub)
	fill(t, w)
	require.NoError(t, w.SetAmount(closing.FieldCB, "0"))

	report, err := w.Check()
	require.NoError(t, err)
	assert.True(t, report.HasWarnings())

	res, err := w.Submit(context.Background())
	require.NoError(t, err)
	sig, ok := res.Report.Find(closing.SignalPaymentDiscrepancy)
	require.True(t, ok)
	assert.Equal(t, "200", sig.Actual.String())
}

func TestWorkflow_SecondSubmitWhilePending(t *testing.T) {
	sub := &fakeSubmitter{block: make(chan struct{}), entered: make(chan struct{})}
	w := New(agent, sub)
	fill(t, w)

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		done <- err
	}()
	<-sub.entered

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionPending)

	close(sub.block)
	require.NoError(t, <-done)
	assert.Len(t, sub.received, 1)
}

func TestWorkflow_EditsBlockedWhilePending(t *testing.T) {
	sub := &fakeSubmitter{
		err:     errors.New("connection refused"),
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	w := New(agent, sub)
	fill(t, w)
	before := w.Record()

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		done <- err
	}()
	<-sub.entered

	assert.ErrorIs(t, w.JumpTo(Details), ErrSubmissionPending)
	assert.ErrorIs(t, w.SetClosingNumber("EDITED"), ErrSubmissionPending)
	assert.ErrorIs(t, w.SetDate("2024-01-01"), ErrSubmissionPending)
	assert.ErrorIs(t, w.SetPointOfSale(closing.PointADP), ErrSubmissionPending)
	assert.ErrorIs(t, w.SetAmount(closing.FieldCB, "50"), ErrSubmissionPending)
	_, err := w.Next()
	assert.ErrorIs(t, err, ErrSubmissionPending)
	_, err = w.Previous()
	assert.ErrorIs(t, err, ErrSubmissionPending)

	close(sub.block)
	require.Error(t, <-done)

	assert.Equal(t, Review, w.Current())
	assert.Equal(t, before, w.Record())

	// Edits are accepted again once the call has returned.
	require.NoError(t, w.SetClosingNumber("CL-10"))
	assert.Equal(t, "CL-10", w.Record().ClosingNumber)
}

func TestWorkflow_OversizedAmountBecomesZero(t *testing.T) {
	w := New(agent, &fakeSubmitter{})
	require.NoError(t, w.SetAmount(closing.FieldTotalHorsTaxes, "1e200000000"))
	require.NoError(t, w.SetAmount(closing.FieldMontantDeLaTaxe, "18"))
	assert.True(t, w.Record().TotalHorsTaxes.IsZero())
	assert.Equal(t, "18", w.Record().TotalTTC.String())
}

func TestWorkflow_MalformedAmountBecomesZero(t *testing.T) {
	w := New(agent, &fakeSubmitter{})
	require.NoError(t, w.SetAmount(closing.FieldEspeces, "12"))
	require.NoError(t, w.SetAmount(closing.FieldEspeces, "douze"))
	assert.True(t, w.Record().Especes.IsZero())
}

func TestWorkflow_TotalTTCFollowsTotals(t *testing.T) {
	w := New(agent, &fakeSubmitter{})
	require.NoError(t, w.SetAmount(closing.FieldTotalHorsTaxes, "100.50"))
	require.NoError(t, w.SetAmount(closing.FieldMontantDeLaTaxe, "18.09"))
	assert.Equal(t, "118.59", w.Record().TotalTTC.String())

	err := w.SetAmount(closing.FieldTotalTTC, "5")
	assert.ErrorIs(t, err, closing.ErrDerivedField)
	assert.Equal(t, "118.59", w.Record().TotalTTC.String())
}

func TestWorkflow_SetDate(t *testing.T) {
	w := New(agent, &fakeSubmitter{})
	require.NoError(t, w.SetDate("2024-02-29"))
	assert.Equal(t, "2024-02-29", w.Record().DateString())

	assert.Error(t, w.SetDate("29/02/2024"))
	assert.Equal(t, "2024-02-29", w.Record().DateString())

	require.NoError(t, w.SetDate(""))
	assert.False(t, w.Record().HasDate())
}

func TestWorkflow_AgentReadOnce(t *testing.T) {
	sess := agent
	w := New(sess, &fakeSubmitter{})
	sess.Clear()
	assert.Equal(t, "koffi", w.Record().Agent)
}
