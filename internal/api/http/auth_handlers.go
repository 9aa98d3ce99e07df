package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	auth "github.com/tixomirkin/one-test/internal/auth/middleware"
	"github.com/tixomirkin/one-test/internal/form"
)

// POST /auth/register  { "username": "...", "email": "...", "password": "..." }
func RegisterHandler(store form.Store, a *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username" validate:"required,min=2,max=64"`
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required,min=8,max=72"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if _, err := store.UserByEmail(r.Context(), req.Email); err == nil {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash password", http.StatusInternalServerError)
			return
		}
		u, err := store.CreateUser(r.Context(), req.Username, req.Email, string(hash))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tok, err := a.IssueJWT(u.ID, u.Email)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"access_token": tok, "user": form.UserInfo{ID: u.ID, Username: u.Username, Email: u.Email}})
	}
}

// POST /auth/login  { "email": "...", "password": "..." }
func LoginHandler(store form.Store, a *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		u, err := store.UserByEmail(r.Context(), req.Email)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT(u.ID, u.Email)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"access_token": tok, "user": form.UserInfo{ID: u.ID, Username: u.Username, Email: u.Email}})
	}
}

// GET /me
func MeHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		u, err := store.UserByID(r.Context(), uid)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		writeJSON(w, form.UserInfo{ID: u.ID, Username: u.Username, Email: u.Email})
	}
}

// PATCH /me  { "username": "...", "email": "..." }
func UpdateMeHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		var req struct {
			Username string `json:"username" validate:"required,min=2,max=64"`
			Email    string `json:"email" validate:"required,email"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := store.UpdateUser(r.Context(), uid, req.Username, req.Email); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// POST /me/password  { "old_password": "...", "new_password": "..." }
func ChangePasswordHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		var req struct {
			OldPassword string `json:"old_password" validate:"required"`
			NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		u, err := store.UserByID(r.Context(), uid)
		if err != nil {
			if errors.Is(err, form.ErrNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash password", http.StatusInternalServerError)
			return
		}
		if err := store.UpdatePassword(r.Context(), uid, string(hash)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// GET /users/search?q= searches usernames/emails for the access dialog.
func SearchUsersHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if len(q) < 2 {
			writeJSON(w, []form.UserInfo{})
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		users, err := store.SearchUsers(r.Context(), q, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, users)
	}
}
