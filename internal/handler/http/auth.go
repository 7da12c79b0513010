package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-session-gate/internal/adapter"
	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/internal/service"
	"github.com/MKhiriev/go-session-gate/internal/utils"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var creds credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.sessions.Login(ctx, creds.Email, creds.Password); err != nil {
		switch {
		case errors.Is(err, adapter.ErrInvalidCredentials):
			log.Err(err).Msg("invalid email/password")
			http.Error(w, "invalid email/password", http.StatusUnauthorized)
			return
		case errors.Is(err, adapter.ErrBadRequest):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during sign-in")
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}
	}

	log.Debug().Str("email", creds.Email).Msg("sign-in accepted")

	// The session user appears via the provider subscription; the workflow
	// itself has nothing to return.
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var creds credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.sessions.Signup(ctx, creds.Email, creds.Password, creds.Name); err != nil {
		switch {
		case errors.Is(err, adapter.ErrEmailTaken):
			log.Err(err).Msg("email already registered")
			http.Error(w, "email already registered", http.StatusConflict)
			return
		case errors.Is(err, adapter.ErrBadRequest):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrProfileWrite):
			log.Err(err).Msg("profile record write failed after signup")
			http.Error(w, "account created, profile write failed", http.StatusInternalServerError)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during sign-up")
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}
	}

	user, err := h.sessions.CurrentUser()
	if err != nil || user == nil {
		log.Err(err).Msg("no session user after sign-up")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, user, http.StatusCreated)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := h.sessions.Logout(ctx); err != nil {
		log.Err(err).Msg("sign-out failed, session kept")
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// signInPage and signUpPage are the redirect destinations the guards point
// at. They only describe the form; submission goes to the POST routes.
func (h *Handler) signInPage(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{
		"page":   "sign-in",
		"submit": "/auth/login",
		"from":   r.URL.Query().Get("from"),
	}, http.StatusOK)
}

func (h *Handler) signUpPage(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, map[string]string{
		"page":   "sign-up",
		"submit": "/auth/register",
	}, http.StatusOK)
}
