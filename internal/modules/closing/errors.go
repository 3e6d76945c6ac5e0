package closing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no transaction matches the requested id.
	ErrNotFound = errors.New("transaction not found")
	// ErrDerivedField is returned when a caller tries to set total_ttc directly.
	ErrDerivedField = errors.New("total_ttc is derived from total_hors_taxes and montant_de_la_taxe")
)

// UnknownFieldError reports a field name outside the record's vocabulary.
type UnknownFieldError struct {
	Field Field
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown amount field: %s", e.Field)
}

// Rule identifies the invariant a Violation breaks.
type Rule string

const (
	RuleTotalMismatch  Rule = "TOTAL_TTC_MISMATCH"
	RuleNegativeAmount Rule = "NEGATIVE_AMOUNT"
	RuleAmountRange    Rule = "AMOUNT_OUT_OF_RANGE"
	RuleRequired       Rule = "REQUIRED"
	RulePointOfSale    Rule = "UNKNOWN_POINT_DE_VENTE"
)

// Violation is one broken invariant on one field.
type Violation struct {
	Field   Field  `json:"field"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// ValidationError blocks submission of a record; it lists every violation found.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "invalid transaction: " + strings.Join(msgs, "; ")
}

// Has reports whether a violation of rule was recorded for field.
func (e *ValidationError) Has(field Field, rule Rule) bool {
	for _, v := range e.Violations {
		if v.Field == field && v.Rule == rule {
			return true
		}
	}
	return false
}
