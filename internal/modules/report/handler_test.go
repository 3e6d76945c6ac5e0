package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openGuard struct{}

func (openGuard) Identify(next http.Handler) http.Handler       { return next }
func (openGuard) RequireSession(next http.Handler) http.Handler { return next }
func (openGuard) RequireAdmin(next http.Handler) http.Handler   { return next }

func newTestRouter(src Source) *chi.Mux {
	router := chi.NewRouter()
	NewHandler(NewService(src)).RegisterRoutes(router, openGuard{})
	return router
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func sampleSource() staticSource {
	a := rec(closing.PointADP, "2024-03-04")
	a.Especes = dec("100")
	a.TotalTTC = dec("100")
	b := rec(closing.PointADL1, "2024-03-05")
	b.Virement = dec("40")
	b.TotalTTC = dec("40")
	c := rec(closing.PointADP, "2024-03-06")
	c.Especes = dec("10")
	c.TotalTTC = dec("10")
	d := rec(closing.PointFCV, "2024-04-02")
	d.Cheque = dec("5")
	d.TotalTTC = dec("5")
	return staticSource{records: []closing.Record{a, b, c, d}}
}

func TestHandler_Aggregate(t *testing.T) {
	router := newTestRouter(sampleSource())

	rr := get(router, "/rapports?type=point_de_vente&periode=semaine&debut=2024-03-04")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Type    string  `json:"type"`
		Entries []Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "point_de_vente", body.Type)
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "ADP", body.Entries[0].Label)
	assert.Equal(t, "2", body.Entries[0].Value.String())
}

func TestHandler_AggregateByPaymentMethodForMonth(t *testing.T) {
	router := newTestRouter(sampleSource())

	rr := get(router, "/rapports?type=type_paiement&periode=mois&mois=2024-03")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Entries []Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "especes", body.Entries[0].Label)
	assert.Equal(t, "110", body.Entries[0].Value.String())
	assert.Equal(t, "virement", body.Entries[1].Label)
}

func TestHandler_BadQueries(t *testing.T) {
	router := newTestRouter(sampleSource())

	for _, path := range []string{
		"/rapports",
		"/rapports?periode=semaine",
		"/rapports?periode=annee&debut=2024-03-04",
		"/rapports?periode=semaine&debut=2024-3-4x",
		"/rapports?type=agent&periode=mois&mois=2024-03",
		"/rapports/export?type=point_de_vente",
	} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, get(router, path).Code)
		})
	}
}

func TestHandler_Export(t *testing.T) {
	router := newTestRouter(sampleSource())

	rr := get(router, "/rapports/export?type=point_de_vente&periode=semaine&debut=2024-03-04")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="rapport.csv"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "Label;Valeur\nADP;2\nADL1;1", rr.Body.String())
}

func TestHandler_ExportWindows1252(t *testing.T) {
	router := newTestRouter(sampleSource())

	rr := get(router, "/rapports/export?type=type_paiement&periode=mois&mois=2024-04&charset=windows-1252")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=windows-1252", rr.Header().Get("Content-Type"))
	assert.Equal(t, "Label;Valeur\ncheque;5", rr.Body.String())
}

func TestHandler_Overview(t *testing.T) {
	router := newTestRouter(sampleSource())

	rr := get(router, "/rapports/synthese")
	require.Equal(t, http.StatusOK, rr.Code)
	var all Overview
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	assert.Equal(t, 4, all.Count)
	assert.Equal(t, "155", all.Revenue.String())

	rr = get(router, "/rapports/synthese?periode=mois&mois=2024-04")
	require.Equal(t, http.StatusOK, rr.Code)
	var april Overview
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &april))
	assert.Equal(t, 1, april.Count)
}

func TestHandler_SourceFailure(t *testing.T) {
	router := newTestRouter(staticSource{err: errSourceDown})
	rr := get(router, "/rapports?periode=mois&mois=2024-03")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
