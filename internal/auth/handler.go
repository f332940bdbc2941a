package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/perci-aceron/expensetracker-backend/internal/user"
)

// UserPayloadProvider builds the profile payload attached to login and
// refresh responses. Satisfied by the user handler.
type UserPayloadProvider interface {
	UserPayload(user *user.User) map[string]interface{}
}

type Handler struct {
	authService Service
	payload     UserPayloadProvider
}

func NewHandler(authService Service, payload UserPayloadProvider) *Handler {
	return &Handler{
		authService: authService,
		payload:     payload,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	existingUser, accessToken, refreshToken, sid, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respondError(w, http.StatusForbidden, "Invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"sid":          sid,
			"user":         h.payload.UserPayload(existingUser),
		},
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authService.Logout(userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, ErrUserNotFound.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SID == "" {
		respondError(w, http.StatusBadRequest, "sid is required")
		return
	}

	existingUser, accessToken, refreshToken, err := h.authService.RefreshTokens(req.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			respondError(w, http.StatusUnauthorized, "Session not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"sid":          existingUser.SID,
			"user":         h.payload.UserPayload(existingUser),
		},
	})
}
