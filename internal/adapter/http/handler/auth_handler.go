package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/finboard/internal/adapter/http/dto"
	"github.com/iho/finboard/internal/adapter/http/middleware"
	"github.com/iho/finboard/internal/infrastructure/metrics"
	"github.com/iho/finboard/internal/usecase"
)

// AuthHandler handles registration, login and PIN management.
type AuthHandler struct {
	userUC  *usecase.UserUseCase
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userUC *usecase.UserUseCase, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{userUC: userUC, metrics: m}
}

// Register creates a new user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Register(r.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Login authenticates a user and issues a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, token, err := h.userUC.Authenticate(r.Context(), usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.metrics.AuthAttempts.WithLabelValues("failure").Inc()
		writeError(w, mapDomainError(err), "failed to authenticate", err.Error())

		return
	}

	h.metrics.AuthAttempts.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userUC.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get user", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// SetPin configures the action PIN for destructive operations.
func (h *AuthHandler) SetPin(w http.ResponseWriter, r *http.Request) {
	var req dto.SetPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.userUC.SetPin(r.Context(), userID, req.Pin); err != nil {
		writeError(w, mapDomainError(err), "failed to set pin", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
