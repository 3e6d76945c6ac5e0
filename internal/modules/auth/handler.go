package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/georgemunganga/cloture-backend/internal/logger"
	"github.com/georgemunganga/cloture-backend/internal/modules/session"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts connexion publicly and deconnexion behind guard.
func (h *Handler) RegisterRoutes(router chi.Router, guard session.Guard) {
	router.Post("/users/connexion", h.login)
	router.With(guard.RequireSession).Post("/users/deconnexion", h.logout)
}

// LoginResponse is the body returned by /users/connexion.
type LoginResponse struct {
	User  session.Session `json:"user"`
	Token string          `json:"token"`
}

// LogoutResponse is the body returned by /users/deconnexion.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pseudo   string `json:"pseudo"`
		Password string `json:"mot_de_passe"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sess, err := h.service.Login(r.Context(), req.Pseudo, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("pseudo", req.Pseudo).Msg("login failed")
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	log := logger.FromContext(r.Context())
	log.Info().Str("pseudo", sess.Pseudo).Str("role", string(sess.Role)).Msg("connexion")
	respond(w, http.StatusOK, LoginResponse{User: sess, Token: sess.Token})
}

// logout ends the caller's own session. Only an administrator may name
// another pseudo in the body.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	caller, _ := session.FromContext(r.Context())

	var req struct {
		Pseudo string `json:"pseudo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond(w, http.StatusBadRequest, LogoutResponse{Message: err.Error()})
		return
	}

	target := caller.Pseudo
	if req.Pseudo != "" && req.Pseudo != caller.Pseudo {
		if !caller.IsAdmin() {
			respond(w, http.StatusForbidden, LogoutResponse{Message: "administrator role required"})
			return
		}
		target = req.Pseudo
	}

	if err := h.service.Logout(r.Context(), target); err != nil {
		if errors.Is(err, ErrUnknownUser) {
			respond(w, http.StatusNotFound, LogoutResponse{Message: err.Error()})
			return
		}
		respond(w, http.StatusInternalServerError, LogoutResponse{Message: err.Error()})
		return
	}
	respond(w, http.StatusOK, LogoutResponse{Success: true, Message: "Déconnexion réussie"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
