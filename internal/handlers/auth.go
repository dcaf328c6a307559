package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tatangdev/Mern-Invoice-App/internal/auth"
	"github.com/tatangdev/Mern-Invoice-App/internal/db"
	"github.com/tatangdev/Mern-Invoice-App/internal/httpx"
	"github.com/tatangdev/Mern-Invoice-App/internal/models"
	"github.com/tatangdev/Mern-Invoice-App/internal/validation"
)

// AuthHandler issues tokens; everything past it trusts the user id the
// middleware puts into the request context.
type AuthHandler struct {
	DB       *gorm.DB
	Secret   string
	TokenTTL time.Duration
}

func NewAuthHandler(conn *gorm.DB, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{DB: conn, Secret: secret, TokenTTL: ttl}
}

func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(h.Secret))
		r.Get("/me", h.me)
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	v := validation.Violations{}
	validation.Required("email", req.Email, v)
	validation.Required("password", req.Password, v)
	validation.Required("fullName", req.FullName, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	user := models.User{Email: req.Email, Password: string(hash), FullName: strings.TrimSpace(req.FullName)}
	if err := h.DB.Create(&user).Error; err != nil {
		if db.IsDuplicateKey(err) {
			httpx.JSONError(w, http.StatusConflict, "email_already_registered", nil)
			return
		}
		slog.Error("create user", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	token, err := auth.GenerateToken(h.Secret, user.ID, user.Email, h.TokenTTL)
	if err != nil {
		slog.Error("generate token", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	slog.Info("user registered", "userId", user.ID)
	httpx.Data(w, http.StatusCreated, authResponse{Token: token, User: &user})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "email_and_password_required", nil)
		return
	}

	// Unknown email and wrong password return the same response on purpose.
	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		slog.Error("lookup user", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}

	token, err := auth.GenerateToken(h.Secret, user.ID, user.Email, h.TokenTTL)
	if err != nil {
		slog.Error("generate token", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	slog.Info("user logged in", "userId", user.ID)
	httpx.Data(w, http.StatusOK, authResponse{Token: token, User: &user})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		slog.Error("load current user", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.Data(w, http.StatusOK, &user)
}
