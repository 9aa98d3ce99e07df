package http

import (
	"net/http"

	"github.com/tixomirkin/one-test/internal/access"
	auth "github.com/tixomirkin/one-test/internal/auth/middleware"
	"github.com/tixomirkin/one-test/internal/form"
)

// GET /forms/{formID}/results
//
// Results are visible to readers and above, and to anyone on public forms.
func FormResultsHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		formID, ok := urlID(r, "formID")
		if !ok {
			http.Error(w, "bad form id", http.StatusBadRequest)
			return
		}
		f, err := store.GetForm(r.Context(), formID)
		if err != nil {
			http.Error(w, "form not found", http.StatusNotFound)
			return
		}
		if !f.IsPublic && !resolver.CanViewResults(r.Context(), uid, formID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		attempts, err := store.ListAttempts(r.Context(), formID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, form.FormResults{
			FormID:   f.ID,
			Title:    f.Title,
			Attempts: attempts,
		})
	}
}
