package closing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Tolerance is the absolute gap, in currency units, under which two totals are
// considered equal.
var Tolerance = decimal.New(1, -2)

// RequiredFields must be non-empty before a record may be submitted. Nothing
// enforces them while the record is being filled in.
var RequiredFields = []Field{FieldClosingNumber, FieldDate, FieldPointOfSale}

// withinTolerance reports whether |a-b| <= Tolerance.
func withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// Validate checks a record before it is handed to persistence. It returns nil
// or a *ValidationError listing every broken rule. The payment-method sum is
// not checked here: see Reconcile.
func Validate(r Record) error {
	var violations []Violation

	for _, f := range RequiredFields {
		if isEmpty(r, f) {
			violations = append(violations, Violation{
				Field:   f,
				Rule:    RuleRequired,
				Message: fmt.Sprintf("%s is required", f),
			})
		}
	}
	if r.PointOfSale != "" && !r.PointOfSale.Valid() {
		violations = append(violations, Violation{
			Field:   FieldPointOfSale,
			Rule:    RulePointOfSale,
			Message: fmt.Sprintf("unknown point_de_vente: %s", r.PointOfSale),
		})
	}

	// Bounds come first: the total check below does arithmetic on the amounts.
	storable := true
	for _, f := range MonetaryFields() {
		v, _ := r.Amount(f)
		if !Storable(v) {
			storable = false
			violations = append(violations, Violation{
				Field:   f,
				Rule:    RuleAmountRange,
				Message: fmt.Sprintf("%s must have at most %d integer digits and %d decimals", f, AmountIntegerDigits, AmountScale),
			})
			continue
		}
		if v.IsNegative() {
			violations = append(violations, Violation{
				Field:   f,
				Rule:    RuleNegativeAmount,
				Message: fmt.Sprintf("%s must be >= 0, got %s", f, v.String()),
			})
		}
	}

	if !storable {
		return &ValidationError{Violations: violations}
	}
	if expected := r.ExpectedTTC(); !withinTolerance(r.TotalTTC, expected) {
		violations = append(violations, Violation{
			Field:   FieldTotalTTC,
			Rule:    RuleTotalMismatch,
			Message: fmt.Sprintf("total_ttc %s does not match total_hors_taxes + montant_de_la_taxe = %s", FormatAmount(r.TotalTTC), FormatAmount(expected)),
		})
	}

	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

func isEmpty(r Record, f Field) bool {
	switch f {
	case FieldClosingNumber:
		return strings.TrimSpace(r.ClosingNumber) == ""
	case FieldDate:
		return !r.HasDate()
	case FieldPointOfSale:
		return r.PointOfSale == ""
	}
	return false
}
