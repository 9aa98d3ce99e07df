package http

import (
	"net/http"

	"github.com/tixomirkin/one-test/internal/access"
	auth "github.com/tixomirkin/one-test/internal/auth/middleware"
	"github.com/tixomirkin/one-test/internal/form"
)

// GET /forms/{formID}/access
func ListGrantsHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		formID, ok := urlID(r, "formID")
		if !ok {
			http.Error(w, "bad form id", http.StatusBadRequest)
			return
		}
		if !resolver.CanManageAccess(r.Context(), uid, formID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		grants, err := store.ListGrants(r.Context(), formID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, grants)
	}
}

// POST /forms/{formID}/access  { "user_id": 7, "role": "editor" }
//
// Granting to the owner is rejected: the owner's role is implicit and a
// grant row for them would be shadowed by the ownership check anyway.
func AddGrantHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		formID, ok := urlID(r, "formID")
		if !ok {
			http.Error(w, "bad form id", http.StatusBadRequest)
			return
		}
		if !resolver.CanManageAccess(r.Context(), uid, formID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req struct {
			UserID int64     `json:"user_id" validate:"required,gt=0"`
			Role   form.Role `json:"role" validate:"required"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if !req.Role.Grantable() {
			http.Error(w, "bad role", http.StatusBadRequest)
			return
		}
		f, err := store.GetForm(r.Context(), formID)
		if err != nil {
			http.Error(w, "form not found", http.StatusNotFound)
			return
		}
		if req.UserID == f.OwnerID {
			http.Error(w, "user is the owner", http.StatusBadRequest)
			return
		}
		if _, err := store.UserByID(r.Context(), req.UserID); err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		if err := store.UpsertGrant(r.Context(), formID, req.UserID, req.Role); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// DELETE /forms/{formID}/access/{userID}
func RemoveGrantHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		formID, ok := urlID(r, "formID")
		targetID, ok2 := urlID(r, "userID")
		if !ok || !ok2 {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if !resolver.CanManageAccess(r.Context(), uid, formID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err := store.RemoveGrant(r.Context(), formID, targetID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// PUT /forms/{formID}/visibility  { "is_public": true }
func SetVisibilityHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		formID, ok := urlID(r, "formID")
		if !ok {
			http.Error(w, "bad form id", http.StatusBadRequest)
			return
		}
		if !resolver.CanManageAccess(r.Context(), uid, formID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req struct {
			IsPublic bool `json:"is_public"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := store.SetFormPublic(r.Context(), formID, req.IsPublic); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true, "is_public": req.IsPublic})
	}
}
