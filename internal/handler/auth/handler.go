package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	authService "github.com/pixelsmith/playground/internal/service/auth"
	"github.com/pixelsmith/playground/pkg/utils"
)

// Handler exposes signup and login.
type Handler struct {
	authSvc *authService.Service
}

func New(authSvc *authService.Service) *Handler {
	return &Handler{authSvc: authSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", h.handleSignup)
	r.Post("/auth/login", h.handleLogin)
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignup creates the account and immediately issues a token so the
// client can proceed without a second round trip.
func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.authSvc.Signup(r.Context(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrEmailRequired):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, authService.ErrEmailTaken):
			utils.RespondError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("[auth] signup failed: %v", err)
			utils.RespondErrorDetail(w, http.StatusInternalServerError, "signup failed", err)
		}
		return
	}

	token, err := h.authSvc.IssueToken(u.ID)
	if err != nil {
		log.Printf("[auth] token issue failed: %v", err)
		utils.RespondErrorDetail(w, http.StatusInternalServerError, "signup failed", err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authSvc.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrEmailRequired):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, authService.ErrInvalidCredentials):
			utils.RespondError(w, http.StatusUnauthorized, err.Error())
		default:
			log.Printf("[auth] login failed: %v", err)
			utils.RespondErrorDetail(w, http.StatusInternalServerError, "login failed", err)
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}
