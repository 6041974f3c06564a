package handlers

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/identity"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Store    *store.Store
	Identity *identity.Resolver
}

type userPayload struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	FoodPartner string `json:"food_partner"`
	FullName    string `json:"full_name"`
	SRCode      string `json:"sr_code"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		FoodPartner: u.FoodPartner,
		FullName:    u.FullName,
		SRCode:      u.SRCode,
	}
}

// Basic email validation regex
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Role        string `json:"role"`
		FoodPartner string `json:"food_partner"`
		FullName    string `json:"full_name"`
		SRCode      string `json:"sr_code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" || req.FullName == "" || req.SRCode == "" {
		writeError(w, http.StatusBadRequest, "All fields required")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		writeError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}
	if req.Role == "" {
		req.Role = "member"
	}
	if req.Role != "staff" {
		req.FoodPartner = ""
	}

	if taken, err := h.Store.UsernameExists(req.Username); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	} else if taken {
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if taken, err := h.Store.EmailExists(req.Email); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	} else if taken {
		writeError(w, http.StatusBadRequest, "Email already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashed),
		Role:        req.Role,
		FoodPartner: req.FoodPartner,
		FullName:    req.FullName,
		SRCode:      req.SRCode,
	}
	if err := h.Store.CreateUser(user); err != nil {
		slog.Error("Failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	// Signing up logs the user in
	if err := h.Identity.Login(w, r, user.ID); err != nil {
		slog.Error("Failed to save session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Account created successfully",
		"user":    toUserPayload(user),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	user, err := h.Store.GetUserByUsername(req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.Identity.Login(w, r, user.ID); err != nil {
		slog.Error("Failed to save session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	slog.Info("Login successful", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"user":    toUserPayload(user),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Identity.Logout(w, r); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Check reports whether the request carries an authenticated account.
// It is the branching point for all authenticated-vs-anonymous behavior.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"authenticated": false,
			"user":          nil,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          toUserPayload(user),
	})
}

func (h *AuthHandler) currentUser(r *http.Request) *models.User {
	id := h.Identity.AccountID(r)
	if id == 0 {
		return nil
	}
	user, err := h.Store.GetUserByID(id)
	if err != nil {
		slog.Error("Failed to load user", "user_id", id, "error", err)
		return nil
	}
	return user
}

// RequireRole guards staff and admin routes. 401 when anonymous, 403 on
// role mismatch; neither is retryable by the client.
func (h *AuthHandler) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.currentUser(r)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if user.Role != role {
			writeError(w, http.StatusForbidden, "Insufficient role")
			return
		}
		next(w, r)
	}
}
