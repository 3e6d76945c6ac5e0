package report

import (
	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
	"github.com/shopspring/decimal"
)

// Overview is the dashboard summary of a set of closings.
type Overview struct {
	Count                int             `json:"nombre_transactions"`
	Revenue              decimal.Decimal `json:"chiffre_affaires"`
	Average              decimal.Decimal `json:"moyenne"`
	RevenueByPointOfSale []Entry         `json:"par_point_de_vente"`
	ByPaymentMethod      []Entry         `json:"par_type_paiement"`
}

// Summarize computes the overview. Revenue is the sum of total_ttc and the
// average is rounded to two decimals.
func Summarize(records []closing.Record) Overview {
	o := Overview{
		Count:                len(records),
		Revenue:              decimal.Zero,
		Average:              decimal.Zero,
		RevenueByPointOfSale: sumByPointOfSale(records),
		ByPaymentMethod:      sumByPaymentMethod(records),
	}
	for _, r := range records {
		o.Revenue = o.Revenue.Add(r.TotalTTC)
	}
	if o.Count > 0 {
		o.Average = o.Revenue.Div(decimal.NewFromInt(int64(o.Count))).Round(2)
	}
	return o
}
