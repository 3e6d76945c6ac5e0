// Package report groups stored closings by point of sale or payment method
// over a week or a month, and renders the result as CSV.
package report

import (
	"errors"
	"fmt"

	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
	"github.com/shopspring/decimal"
)

// ErrUnknownDimension is returned for a grouping other than the two supported ones.
var ErrUnknownDimension = errors.New("unknown report type")

// Dimension is the attribute records are grouped by.
type Dimension string

const (
	ByPointOfSale   Dimension = "point_de_vente"
	ByPaymentMethod Dimension = "type_paiement"
)

// ParseDimension accepts the wire names of the dimensions. An empty value
// means ByPointOfSale.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case "", ByPointOfSale:
		return ByPointOfSale, nil
	case ByPaymentMethod:
		return ByPaymentMethod, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownDimension, s)
}

// Entry is one line of a report. Value is a count for ByPointOfSale and an
// amount for ByPaymentMethod.
type Entry struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Filter keeps the records dated inside p, in their input order.
func Filter(records []closing.Record, p Period) []closing.Record {
	out := make([]closing.Record, 0, len(records))
	for _, r := range records {
		if r.HasDate() && p.Contains(r.Date.Time) {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate filters records to the period and groups them by dim. Groups come
// out in the order they are first met.
func Aggregate(records []closing.Record, p *Period, dim Dimension) ([]Entry, error) {
	if p == nil {
		return nil, ErrPeriodRequired
	}
	filtered := Filter(records, *p)
	switch dim {
	case ByPointOfSale:
		return countByPointOfSale(filtered), nil
	case ByPaymentMethod:
		return sumByPaymentMethod(filtered), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, dim)
}

func countByPointOfSale(records []closing.Record) []Entry {
	index := map[closing.PointOfSale]int{}
	var entries []Entry
	for _, r := range records {
		i, ok := index[r.PointOfSale]
		if !ok {
			i = len(entries)
			index[r.PointOfSale] = i
			entries = append(entries, Entry{Label: string(r.PointOfSale), Value: decimal.Zero})
		}
		entries[i].Value = entries[i].Value.Add(decimal.NewFromInt(1))
	}
	return entries
}

// sumByPaymentMethod totals each payment method, skipping methods that sum to zero.
func sumByPaymentMethod(records []closing.Record) []Entry {
	var entries []Entry
	for _, f := range closing.PaymentMethods {
		sum := decimal.Zero
		for _, r := range records {
			v, _ := r.Amount(f)
			sum = sum.Add(v)
		}
		if sum.IsZero() {
			continue
		}
		entries = append(entries, Entry{Label: string(f), Value: sum})
	}
	return entries
}

// sumByPointOfSale totals total_ttc per point of sale.
func sumByPointOfSale(records []closing.Record) []Entry {
	index := map[closing.PointOfSale]int{}
	var entries []Entry
	for _, r := range records {
		i, ok := index[r.PointOfSale]
		if !ok {
			i = len(entries)
			index[r.PointOfSale] = i
			entries = append(entries, Entry{Label: string(r.PointOfSale), Value: decimal.Zero})
		}
		entries[i].Value = entries[i].Value.Add(r.TotalTTC)
	}
	return entries
}
