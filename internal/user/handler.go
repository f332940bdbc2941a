package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
)

// CategoriesProvider resolves the grouped category picklist returned alongside
// user profile payloads.
type CategoriesProvider interface {
	GetGroupedCategories(userID string) (domain.GroupedCategories, error)
}

type Handler struct {
	userService Service
	categories  CategoriesProvider
}

func NewHandler(userService Service, categories CategoriesProvider) *Handler {
	return &Handler{
		userService: userService,
		categories:  categories,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		log.Printf("JSON encoding error: %v", err)
		return
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

// UserPayload is the profile shape shared by register, login and current-user
// responses.
func (h *Handler) UserPayload(user *User) map[string]interface{} {
	payload := map[string]interface{}{
		"id":                user.ID,
		"name":              user.Name,
		"email":             user.Email,
		"avatarURL":         user.AvatarURL,
		"currency":          user.Currency,
		"verified":          user.Verified,
		"transactionsTotal": user.TransactionsTotal,
	}

	grouped, err := h.categories.GetGroupedCategories(user.ID)
	if err != nil {
		log.Printf("Error fetching categories for user %s: %v", user.ID, err)
		return payload
	}
	payload["categories"] = grouped
	return payload
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			respondError(w, http.StatusConflict, err.Error())
			return
		} else if errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrMissingFields) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not register user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "User registered. Verification email sent.",
		"data": map[string]interface{}{
			"user": h.UserPayload(user),
		},
	})
}

func (h *Handler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	verificationToken := r.PathValue("verificationToken")
	if verificationToken == "" {
		respondError(w, http.StatusBadRequest, "Verification token is required")
		return
	}

	err := h.userService.VerifyEmail(verificationToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not verify email")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Verification successful",
	})
}

func (h *Handler) HandleResendVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	err := h.userService.ResendVerificationEmail(req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		} else if errors.Is(err, ErrAlreadyVerified) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not resend verification email")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Verification email sent",
	})
}

func (h *Handler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not fetch user data")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"user": h.UserPayload(user),
		},
	})
}

func (h *Handler) HandleUpdateInfo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Currency *string `json:"currency"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userService.UpdateInfo(userID, req.Name, req.Currency)
	if err != nil {
		if errors.Is(err, ErrNoFieldsToUpdate) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		} else if errors.Is(err, ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not update user info")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"user": h.UserPayload(user),
		},
	})
}

func (h *Handler) HandleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AvatarURL string `json:"avatarURL"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AvatarURL == "" {
		respondError(w, http.StatusBadRequest, "avatarURL is required")
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.userService.UpdateAvatar(userID, req.AvatarURL); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not update avatar")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"avatarURL": req.AvatarURL,
		},
	})
}

func (h *Handler) HandleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.userService.DeleteAvatar(userID); err != nil {
		if errors.Is(err, ErrNoAvatar) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		} else if errors.Is(err, ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not delete avatar")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
