package closing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/cloture-backend/internal/modules/session"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the transaction endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, guard session.Guard) {
	r.Route("/transactions", func(r chi.Router) {
		r.With(guard.RequireSession).Post("/", h.create) // POST   /transactions

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAdmin)
			r.Get("/", h.list)          // GET    /transactions
			r.Get("/{id}", h.get)       // GET    /transactions/{id}
			r.Patch("/{id}", h.update)  // PATCH  /transactions/{id}
			r.Delete("/{id}", h.delete) // DELETE /transactions/{id}
		})
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sess, _ := session.FromContext(r.Context())
	stored, _, err := h.service.Create(r.Context(), sess, rec)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, stored)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, ListResponse{Transactions: records})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rec)
}

// update merges the body over the stored record, so both partial and full
// payloads are accepted.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	rec := *existing
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	updated, _, err := h.service.Update(r.Context(), id, rec)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"success": true})
}

func respondError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond(w, http.StatusBadRequest, map[string]interface{}{
			"error":      verr.Error(),
			"violations": verr.Violations,
		})
	case errors.Is(err, ErrNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
