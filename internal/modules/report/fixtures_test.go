package report

import (
	"context"
	"errors"
	"time"

	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(pv closing.PointOfSale, day string) closing.Record {
	return closing.Record{
		ClosingNumber: "CL-" + day,
		Date:          closing.NewDate(date(day)),
		PointOfSale:   pv,
	}
}

type staticSource struct {
	records []closing.Record
	err     error
}

func (s staticSource) List(context.Context) ([]closing.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

var errSourceDown = errors.New("database unavailable")
