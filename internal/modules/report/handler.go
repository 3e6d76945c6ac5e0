package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/georgemunganga/cloture-backend/internal/modules/session"
	"github.com/go-chi/chi/v5"
)

const charsetWindows1252 = "windows-1252"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the report endpoints. They are reserved to administrators.
func (h *Handler) RegisterRoutes(r chi.Router, guard session.Guard) {
	r.Route("/rapports", func(r chi.Router) {
		r.Use(guard.RequireAdmin)
		r.Get("/", h.aggregate)
		r.Get("/export", h.export)
		r.Get("/synthese", h.overview)
	})
}

type aggregateResponse struct {
	Type    Dimension `json:"type"`
	Periode string    `json:"periode"`
	Entries []Entry   `json:"entries"`
}

func (h *Handler) aggregate(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}
	entries, err := h.service.Aggregate(r.Context(), q)
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	respond(w, http.StatusOK, aggregateResponse{Type: q.Dimension, Periode: q.Period.String(), Entries: entries})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}
	text, err := h.service.Export(r.Context(), q)
	if err != nil {
		respondError(w, err)
		return
	}

	body := []byte(text)
	charset := "utf-8"
	if strings.EqualFold(r.URL.Query().Get("charset"), charsetWindows1252) {
		if body, err = EncodeWindows1252(text); err != nil {
			respondError(w, err)
			return
		}
		charset = charsetWindows1252
	}

	w.Header().Set("Content-Type", "text/csv; charset="+charset)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	var p *Period
	if values.Get("periode") != "" {
		parsed, err := parsePeriod(values)
		if err != nil {
			respondError(w, err)
			return
		}
		p = parsed
	}
	o, err := h.service.Overview(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

// ParseQuery reads type, periode, debut and mois from a report URL.
func ParseQuery(values url.Values) (Query, error) {
	dim, err := ParseDimension(values.Get("type"))
	if err != nil {
		return Query{}, err
	}
	p, err := parsePeriod(values)
	if err != nil {
		return Query{}, err
	}
	return Query{Dimension: dim, Period: p}, nil
}

func parsePeriod(values url.Values) (*Period, error) {
	var (
		p   Period
		err error
	)
	switch PeriodKind(values.Get("periode")) {
	case PeriodWeek:
		if values.Get("debut") == "" {
			return nil, ErrPeriodRequired
		}
		p, err = ParseWeek(values.Get("debut"))
	case PeriodMonth:
		if values.Get("mois") == "" {
			return nil, ErrPeriodRequired
		}
		p, err = ParseMonth(values.Get("mois"))
	default:
		return nil, ErrPeriodRequired
	}
	if err != nil {
		return nil, &badRequestError{err: err}
	}
	return &p, nil
}

type badRequestError struct{ err error }

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func respondError(w http.ResponseWriter, err error) {
	var bad *badRequestError
	switch {
	case errors.Is(err, ErrPeriodRequired), errors.Is(err, ErrUnknownDimension), errors.As(err, &bad):
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
