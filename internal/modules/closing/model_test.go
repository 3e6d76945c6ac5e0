package closing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_SetAmountRecomputesTTC(t *testing.T) {
	var rec Record
	require.NoError(t, rec.SetAmount(FieldTotalHorsTaxes, dec("100.10")))
	assert.True(t, rec.TotalTTC.Equal(dec("100.10")))

	require.NoError(t, rec.SetAmount(FieldMontantDeLaTaxe, dec("18.02")))
	assert.True(t, rec.TotalTTC.Equal(dec("118.12")))

	require.NoError(t, rec.SetAmount(FieldEspeces, dec("50")))
	assert.True(t, rec.TotalTTC.Equal(dec("118.12")), "payment fields do not touch the total")
}

func TestRecord_SetAmountRejectsDerivedAndUnknown(t *testing.T) {
	var rec Record
	assert.ErrorIs(t, rec.SetAmount(FieldTotalTTC, dec("1")), ErrDerivedField)

	err := rec.SetAmount(FieldDate, dec("1"))
	var unknown *UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, FieldDate, unknown.Field)
}

func TestRecord_PaymentSum(t *testing.T) {
	rec := Record{
		Especes:  dec("10"),
		Mobile:   dec("20.5"),
		CB:       dec("30"),
		Virement: dec("0.25"),
		Cheque:   dec("4"),
	}
	assert.True(t, rec.PaymentSum().Equal(dec("64.75")))
	assert.True(t, Record{}.PaymentSum().Equal(decimal.Zero))
}

func TestRecord_AmountCoversEveryMonetaryField(t *testing.T) {
	rec := sampleRecord()
	for _, f := range MonetaryFields() {
		_, ok := rec.Amount(f)
		assert.True(t, ok, "field %s", f)
	}
	_, ok := rec.Amount(FieldClosingNumber)
	assert.False(t, ok)
}

func TestRecord_JSONUsesWireNames(t *testing.T) {
	decimal.MarshalJSONWithoutQuotes = true
	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = false })

	raw, err := json.Marshal(sampleRecord())
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "CL-2024-001", m["numero_de_cloture"])
	assert.Equal(t, "2024-03-04", m["date"])
	assert.Equal(t, "ADP", m["point_de_vente"])
	assert.Equal(t, float64(1180), m["total_ttc"], "amounts travel as JSON numbers")

	var back Record
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "2024-03-04", back.DateString())
	assert.True(t, back.TotalTTC.Equal(dec("1180")))
}

func TestRecord_QuotedAmountsDecode(t *testing.T) {
	assert.False(t, decimal.MarshalJSONWithoutQuotes, "importing closing leaves the encoding to the program")

	raw, err := json.Marshal(sampleRecord())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total_ttc":"1180"`)

	var back Record
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.TotalTTC.Equal(dec("1180")))
}

func TestRecord_UnmarshalDate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "calendar date", body: `{"date":"2024-03-05"}`, want: "2024-03-05"},
		{name: "empty string", body: `{"date":""}`, want: ""},
		{name: "blank string", body: `{"date":"  "}`, want: ""},
		{name: "null", body: `{"date":null}`, want: ""},
		{name: "absent keeps previous", body: `{"numero_de_cloture":"CL-3"}`, want: "2024-03-04"},
		{name: "day first", body: `{"date":"05/03/2024"}`, wantErr: true},
		{name: "not a string", body: `{"date":20240305}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleRecord()
			err := json.Unmarshal([]byte(tt.body), &rec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.DateString())
		})
	}
}

func TestRecord_UnmarshalKeepsOtherFields(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{"numero_de_cloture":"CL-4","date":"","cb":12.5}`), &rec))
	assert.Equal(t, "CL-4", rec.ClosingNumber)
	assert.False(t, rec.HasDate())
	assert.True(t, rec.CB.Equal(dec("12.5")))
}

func TestPointOfSale(t *testing.T) {
	assert.Len(t, PointsOfSale(), 5)
	seen := map[PointOfSale]bool{}
	for _, p := range PointsOfSale() {
		assert.True(t, p.Valid())
		assert.False(t, seen[p], "duplicate site code %s", p)
		seen[p] = true
	}
	assert.Equal(t, "ADL 2", PointADL2.Label())
	assert.False(t, PointOfSale("XYZ").Valid())
	assert.Equal(t, "XYZ", PointOfSale("XYZ").Label())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", Record{Date: d}.DateString())

	_, err = ParseDate("31/03/2024")
	assert.Error(t, err)
	assert.Equal(t, "", Record{}.DateString())
}
