package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopmart/storefront/internal/models"
	"github.com/shopmart/storefront/internal/service"
)

type UserService interface {
	// Register creates new customer account
	Register(ctx context.Context, login, name, password string) (*models.User, error)
}

type AuthService interface {
	// Login checks credentials and returns signed auth token
	Login(ctx context.Context, login, password string) (string, error)
}

// UserHandler represents HTTP handler for user-related requests
type UserHandler struct {
	svc   UserService
	token service.TokenService
}

// NewUserHandler creates new UserHandler instance
func NewUserHandler(svc UserService, token service.TokenService) *UserHandler {
	return &UserHandler{svc: svc, token: token}
}

type registerRequest struct {
	Login    string `json:"login"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterUser registers new user and sets auth cookie
// 201 — user registered;
// 400 — bad request format;
// 409 — login already taken;
// 500 — internal server error.
func (uh *UserHandler) RegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Login == "" || req.Password == "" {
			http.Error(w, "login and password are required", http.StatusBadRequest)
			return
		}

		user, err := uh.svc.Register(r.Context(), req.Login, req.Name, req.Password)
		if err != nil {
			if errors.Is(err, models.ErrConflictData) {
				http.Error(w, "login already taken", http.StatusConflict)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		token, err := uh.token.CreateToken(user)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		setAuthCookie(w, token)
		w.WriteHeader(http.StatusCreated)
	}
}

// AuthHandler represents HTTP handler for authentication requests
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler creates new AuthHandler instance
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginUser authenticates user and sets auth cookie
// 200 — user authenticated;
// 400 — bad request format;
// 401 — invalid login/password pair;
// 500 — internal server error.
func (ah *AuthHandler) LoginUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		token, err := ah.svc.Login(r.Context(), req.Login, req.Password)
		if err != nil {
			if errors.Is(err, models.ErrInvalidCredentials) {
				http.Error(w, "invalid login or password", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		setAuthCookie(w, token)
		w.WriteHeader(http.StatusOK)
	}
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}
