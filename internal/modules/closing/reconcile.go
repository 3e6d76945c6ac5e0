package closing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SignalKind classifies a reconciliation outcome.
type SignalKind string

const (
	SignalCalculationError   SignalKind = "calculation_error"
	SignalPaymentDiscrepancy SignalKind = "payment_discrepancy"
	SignalBalanced           SignalKind = "balanced"
)

// Severity tells the caller whether a signal blocks submission.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Signal is one reconciliation finding. Expected and Actual carry the two
// compared totals; both are zero on a balanced signal.
type Signal struct {
	Kind     SignalKind      `json:"kind"`
	Severity Severity        `json:"severity"`
	Message  string          `json:"message"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
}

// Report is the outcome of Reconcile.
type Report struct {
	Signals []Signal `json:"signals"`
}

// HasErrors reports whether a blocking signal was emitted.
func (r Report) HasErrors() bool { return r.has(SeverityError) }

// HasWarnings reports whether a non-blocking discrepancy was emitted.
func (r Report) HasWarnings() bool { return r.has(SeverityWarning) }

// Balanced reports whether every cross-check passed.
func (r Report) Balanced() bool {
	return len(r.Signals) == 1 && r.Signals[0].Kind == SignalBalanced
}

// Find returns the first signal of the given kind.
func (r Report) Find(kind SignalKind) (Signal, bool) {
	for _, s := range r.Signals {
		if s.Kind == kind {
			return s, true
		}
	}
	return Signal{}, false
}

func (r Report) has(sev Severity) bool {
	for _, s := range r.Signals {
		if s.Severity == sev {
			return true
		}
	}
	return false
}

// Reconcile cross-checks the three independently entered totals of a record:
// the tax-inclusive total against pre-tax total plus tax, and against the sum
// of the payment methods. Both checks use the absolute Tolerance. The record
// is never modified.
func Reconcile(r Record) Report {
	var report Report

	expectedTTC := r.ExpectedTTC()
	if !withinTolerance(r.TotalTTC, expectedTTC) {
		report.Signals = append(report.Signals, Signal{
			Kind:     SignalCalculationError,
			Severity: SeverityError,
			Message: fmt.Sprintf("Erreur de calcul : le total TTC (%s) ne correspond pas au total HT + taxe (%s)",
				FormatAmount(r.TotalTTC), FormatAmount(expectedTTC)),
			Expected: expectedTTC,
			Actual:   r.TotalTTC,
		})
	}

	paymentSum := r.PaymentSum()
	if !withinTolerance(r.TotalTTC, paymentSum) {
		report.Signals = append(report.Signals, Signal{
			Kind:     SignalPaymentDiscrepancy,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Écart de paiement : le total TTC (%s) ne correspond pas à la somme des modes de paiement (%s)",
				FormatAmount(r.TotalTTC), FormatAmount(paymentSum)),
			Expected: r.TotalTTC,
			Actual:   paymentSum,
		})
	}

	if len(report.Signals) == 0 {
		report.Signals = append(report.Signals, Signal{
			Kind:     SignalBalanced,
			Severity: SeveritySuccess,
			Message:  "Transaction équilibrée",
		})
	}
	return report
}
