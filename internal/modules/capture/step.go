package capture

import (
	"errors"
	"fmt"

	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
)

// ErrUnknownStep is returned for a Step value outside the five known stages.
var ErrUnknownStep = errors.New("unknown capture step")

// Step is one stage of the capture form.
type Step int

const (
	Details Step = iota
	TransactionTypes
	PaymentMethods
	Totals
	Review
)

var stepTitles = [...]string{
	Details:          "Détails de l'opération",
	TransactionTypes: "Types de Transaction",
	PaymentMethods:   "Modes de Paiement",
	Totals:           "Totaux",
	Review:           "Récapitulatif & Validation",
}

// Steps returns the stages in the order an agent walks through them.
func Steps() []Step {
	return []Step{Details, TransactionTypes, PaymentMethods, Totals, Review}
}

func (s Step) Valid() bool {
	return s >= Details && s <= Review
}

// Title is the heading shown for the stage.
func (s Step) Title() string {
	if !s.Valid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepTitles[s]
}

func (s Step) String() string { return s.Title() }

// Fields lists the record fields collected at the stage. Review shows every
// field of the record.
func (s Step) Fields() ([]closing.Field, error) {
	switch s {
	case Details:
		return []closing.Field{closing.FieldClosingNumber, closing.FieldDate, closing.FieldPointOfSale}, nil
	case TransactionTypes:
		return append([]closing.Field(nil), closing.TransactionTypes...), nil
	case PaymentMethods:
		return append([]closing.Field(nil), closing.PaymentMethods...), nil
	case Totals:
		return append([]closing.Field(nil), closing.TotalFields...), nil
	case Review:
		fields := []closing.Field{closing.FieldClosingNumber, closing.FieldDate, closing.FieldPointOfSale}
		return append(fields, closing.MonetaryFields()...), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownStep, int(s))
}
