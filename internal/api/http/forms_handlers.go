package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tixomirkin/one-test/internal/access"
	auth "github.com/tixomirkin/one-test/internal/auth/middleware"
	"github.com/tixomirkin/one-test/internal/form"
	"github.com/tixomirkin/one-test/internal/metrics"
	syncx "github.com/tixomirkin/one-test/internal/sync"
)

// POST /forms  { "title": "...", "description": "...", "is_test": false }
func CreateFormHandler(store form.Store, m *metrics.Metrics, events *syncx.EventRepo, siteID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		var req struct {
			Title       string `json:"title" validate:"required,max=255"`
			Description string `json:"description" validate:"max=255"`
			IsTest      bool   `json:"is_test"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		f, err := store.CreateForm(r.Context(), uid, req.Title, req.Description, req.IsTest)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if m != nil {
			m.FormsCreated.Inc()
		}
		if events != nil {
			data, _ := json.Marshal(map[string]any{"owner_id": uid, "is_test": f.IsTest})
			_ = events.Append(r.Context(), syncx.Event{
				SiteID: siteID, Type: "form.created",
				Key: strconv.FormatInt(f.ID, 10), DataJSON: string(data),
			})
		}
		writeJSONStatus(w, http.StatusCreated, f)
	}
}

// GET /forms lists the forms the caller owns or can view results for.
func ListFormsHandler(store form.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		forms, err := store.ListFormsWithResultsAccess(r.Context(), uid)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, forms)
	}
}

// GET /forms/{formID} returns the full form with answer keys, for editors.
func GetFormHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		id, ok := urlID(r, "formID")
		if !ok {
			http.Error(w, "bad form id", http.StatusBadRequest)
			return
		}
		if !resolver.CanEditForm(r.Context(), uid, id) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		full, err := store.FullForm(r.Context(), id)
		if err != nil {
			if errors.Is(err, form.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, full)
	}
}

// PATCH /forms/{formID}
func UpdateFormHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		id, ok := urlID(r, "formID")
		if !ok {
			http.Error(w, "bad form id", http.StatusBadRequest)
			return
		}
		if !resolver.CanEditForm(r.Context(), uid, id) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req struct {
			Title          string `json:"title" validate:"required,max=255"`
			Description    string `json:"description" validate:"max=255"`
			IsTest         bool   `json:"is_test"`
			SuccessMessage string `json:"success_message" validate:"max=1000"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		err := store.UpdateForm(r.Context(), id, form.FormUpdate{
			Title:          req.Title,
			Description:    req.Description,
			IsTest:         req.IsTest,
			SuccessMessage: req.SuccessMessage,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// GET /f/{slug} is the taker-facing form. Requires the form to be public or
// the caller to hold any role on it; everything else is a generic not-found.
// Answer keys are always stripped.
func PublicFormHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if !resolver.IsPublicBySlug(r.Context(), slug) && !resolver.CanTakeFormBySlug(r.Context(), uid, slug) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		full, err := store.FullFormBySlug(r.Context(), slug)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		full.StripAnswerKeys()
		writeJSON(w, full)
	}
}
