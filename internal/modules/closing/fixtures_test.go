package closing

import (
	"net/http"
	"time"

	"github.com/georgemunganga/cloture-backend/internal/modules/session"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// sampleRecord is balanced: 1000 + 180 = 1180 = 1000 cash + 180 mobile.
func sampleRecord() Record {
	return Record{
		ClosingNumber:   "CL-2024-001",
		Date:            NewDate(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)),
		PointOfSale:     PointADP,
		Agent:           "koffi",
		Billet:          dec("900"),
		VenteDiverses:   dec("280"),
		Especes:         dec("1000"),
		Mobile:          dec("180"),
		TotalHorsTaxes:  dec("1000"),
		MontantDeLaTaxe: dec("180"),
		TotalTTC:        dec("1180"),
	}
}

// passGuard lets every request through with a fixed session.
type passGuard struct{ sess session.Session }

func (g passGuard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), g.sess)))
	})
}

func (g passGuard) Identify(next http.Handler) http.Handler {
	return g.RequireSession(next)
}

func (g passGuard) RequireAdmin(next http.Handler) http.Handler {
	return g.RequireSession(next)
}
