package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tixomirkin/one-test/internal/attempt"
	auth "github.com/tixomirkin/one-test/internal/auth/middleware"
)

// POST /f/{slug}/attempts
//
// Every failure mode answers with the same 404: a caller probing slugs
// cannot distinguish a missing form from one they may not take.
func SubmitAttemptHandler(recorder *attempt.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		slug := chi.URLParam(r, "slug")

		var sub attempt.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		out := recorder.SubmitBySlug(r.Context(), slug, uid, sub)
		if !out.OK {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, out)
	}
}
