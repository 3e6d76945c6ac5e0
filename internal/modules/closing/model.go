package closing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// PointOfSale is the site code where a closing originated.
type PointOfSale string

const (
	PointADL1 PointOfSale = "ADL1"
	PointADL2 PointOfSale = "ADL2"
	PointADP  PointOfSale = "ADP"
	PointMFF  PointOfSale = "MFF"
	PointFCV  PointOfSale = "FCV"
)

var pointLabels = map[PointOfSale]string{
	PointADL1: "ADL 1",
	PointADL2: "ADL 2",
	PointADP:  "ADP",
	PointMFF:  "MFF",
	PointFCV:  "FCV",
}

// PointsOfSale lists the known site codes in menu order.
func PointsOfSale() []PointOfSale {
	return []PointOfSale{PointADL1, PointADL2, PointADP, PointMFF, PointFCV}
}

// Valid reports whether p is a known site code.
func (p PointOfSale) Valid() bool {
	_, ok := pointLabels[p]
	return ok
}

// Label returns the display label of the site, or the raw code when unknown.
func (p PointOfSale) Label() string {
	if l, ok := pointLabels[p]; ok {
		return l
	}
	return string(p)
}

// Field names a user-entered attribute of a Record, using its wire name.
type Field string

const (
	FieldClosingNumber Field = "numero_de_cloture"
	FieldDate          Field = "date"
	FieldPointOfSale   Field = "point_de_vente"

	FieldBillet        Field = "billet"
	FieldVenteDiverses Field = "vente_diverses"
	FieldReajustement  Field = "reajustement"
	FieldXbag          Field = "xbag"
	FieldPenalite      Field = "penalite"
	FieldRemboursement Field = "remboursement"

	FieldEspeces  Field = "especes"
	FieldMobile   Field = "mobile"
	FieldCB       Field = "cb"
	FieldVirement Field = "virement"
	FieldCheque   Field = "cheque"

	FieldTotalHorsTaxes  Field = "total_hors_taxes"
	FieldMontantDeLaTaxe Field = "montant_de_la_taxe"
	FieldTotalTTC        Field = "total_ttc"
)

// TransactionTypes are the transaction-type amount fields in entry order.
var TransactionTypes = []Field{
	FieldBillet, FieldVenteDiverses, FieldReajustement, FieldXbag, FieldPenalite, FieldRemboursement,
}

// PaymentMethods are the payment-method amount fields in entry order.
var PaymentMethods = []Field{
	FieldEspeces, FieldMobile, FieldCB, FieldVirement, FieldCheque,
}

// TotalFields are the totals, the last one being derived.
var TotalFields = []Field{
	FieldTotalHorsTaxes, FieldMontantDeLaTaxe, FieldTotalTTC,
}

// MonetaryFields returns every amount field of a Record.
func MonetaryFields() []Field {
	fields := make([]Field, 0, len(TransactionTypes)+len(PaymentMethods)+len(TotalFields))
	fields = append(fields, TransactionTypes...)
	fields = append(fields, PaymentMethods...)
	return append(fields, TotalFields...)
}

// Record is one agent cash-closing event.
type Record struct {
	ID            uuid.UUID          `json:"id"`
	ClosingNumber string             `json:"numero_de_cloture"`
	Date          openapi_types.Date `json:"date"`
	PointOfSale   PointOfSale        `json:"point_de_vente"`
	Agent         string             `json:"agent"`

	Billet        decimal.Decimal `json:"billet"`
	VenteDiverses decimal.Decimal `json:"vente_diverses"`
	Reajustement  decimal.Decimal `json:"reajustement"`
	Xbag          decimal.Decimal `json:"xbag"`
	Penalite      decimal.Decimal `json:"penalite"`
	Remboursement decimal.Decimal `json:"remboursement"`

	Especes  decimal.Decimal `json:"especes"`
	Mobile   decimal.Decimal `json:"mobile"`
	CB       decimal.Decimal `json:"cb"`
	Virement decimal.Decimal `json:"virement"`
	Cheque   decimal.Decimal `json:"cheque"`

	TotalHorsTaxes  decimal.Decimal `json:"total_hors_taxes"`
	MontantDeLaTaxe decimal.Decimal `json:"montant_de_la_taxe"`
	TotalTTC        decimal.Decimal `json:"total_ttc"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// amountRef returns a pointer to the amount stored for f, or nil for non-monetary fields.
func (r *Record) amountRef(f Field) *decimal.Decimal {
	switch f {
	case FieldBillet:
		return &r.Billet
	case FieldVenteDiverses:
		return &r.VenteDiverses
	case FieldReajustement:
		return &r.Reajustement
	case FieldXbag:
		return &r.Xbag
	case FieldPenalite:
		return &r.Penalite
	case FieldRemboursement:
		return &r.Remboursement
	case FieldEspeces:
		return &r.Especes
	case FieldMobile:
		return &r.Mobile
	case FieldCB:
		return &r.CB
	case FieldVirement:
		return &r.Virement
	case FieldCheque:
		return &r.Cheque
	case FieldTotalHorsTaxes:
		return &r.TotalHorsTaxes
	case FieldMontantDeLaTaxe:
		return &r.MontantDeLaTaxe
	case FieldTotalTTC:
		return &r.TotalTTC
	}
	return nil
}

// Amount returns the value of a monetary field and whether f is one.
func (r Record) Amount(f Field) (decimal.Decimal, bool) {
	ref := r.amountRef(f)
	if ref == nil {
		return decimal.Zero, false
	}
	return *ref, true
}

// SetAmount stores v in a user-entered monetary field. The derived total_ttc
// is refreshed when one of its operands changes.
func (r *Record) SetAmount(f Field, v decimal.Decimal) error {
	if f == FieldTotalTTC {
		return ErrDerivedField
	}
	ref := r.amountRef(f)
	if ref == nil {
		return &UnknownFieldError{Field: f}
	}
	*ref = v
	if f == FieldTotalHorsTaxes || f == FieldMontantDeLaTaxe {
		r.ComputeTotalTTC()
	}
	return nil
}

// ExpectedTTC is total_hors_taxes + montant_de_la_taxe.
func (r Record) ExpectedTTC() decimal.Decimal {
	return r.TotalHorsTaxes.Add(r.MontantDeLaTaxe)
}

// ComputeTotalTTC sets the derived total_ttc.
func (r *Record) ComputeTotalTTC() {
	r.TotalTTC = r.ExpectedTTC()
}

// PaymentSum is the sum of the five payment-method amounts.
func (r Record) PaymentSum() decimal.Decimal {
	sum := decimal.Zero
	for _, f := range PaymentMethods {
		v, _ := r.Amount(f)
		sum = sum.Add(v)
	}
	return sum
}

// HasDate reports whether the calendar date has been entered.
func (r Record) HasDate() bool {
	return !r.Date.Time.IsZero()
}

// DateString formats the calendar date as YYYY-MM-DD, or "" when unset.
func (r Record) DateString() string {
	if !r.HasDate() {
		return ""
	}
	return r.Date.Time.Format(openapi_types.DateFormat)
}

// UnmarshalJSON reads a record from the wire. An empty or null date leaves
// the date unset, so validation reports it as missing. An absent date keeps
// whatever r already holds.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		Date json.RawMessage `json:"date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Date == nil {
		return nil
	}

	var raw *string
	if err := json.Unmarshal(aux.Date, &raw); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		r.Date = openapi_types.Date{}
		return nil
	}
	d, err := ParseDate(strings.TrimSpace(*raw))
	if err != nil {
		return err
	}
	r.Date = d
	return nil
}

// NewDate wraps a time as a calendar date, dropping the clock part.
func NewDate(t time.Time) openapi_types.Date {
	y, m, d := t.Date()
	return openapi_types.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (openapi_types.Date, error) {
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		return openapi_types.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return openapi_types.Date{Time: t}, nil
}

// ListResponse is the body of GET /transactions.
type ListResponse struct {
	Transactions []Record `json:"transactions"`
}
