package http

import (
	"errors"
	"net/http"

	"github.com/tixomirkin/one-test/internal/access"
	auth "github.com/tixomirkin/one-test/internal/auth/middleware"
	"github.com/tixomirkin/one-test/internal/form"
)

// POST /forms/{formID}/questions  { "question_type": "single" }
func AddQuestionHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		formID, ok := urlID(r, "formID")
		if !ok {
			http.Error(w, "bad form id", http.StatusBadRequest)
			return
		}
		if !resolver.CanEditForm(r.Context(), uid, formID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req struct {
			QuestionType form.QuestionType `json:"question_type" validate:"required"`
		}
		if err := decodeValid(r, &req); err != nil || !req.QuestionType.Valid() {
			http.Error(w, "bad question type", http.StatusBadRequest)
			return
		}
		q, err := store.AddQuestion(r.Context(), formID, req.QuestionType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSONStatus(w, http.StatusCreated, q)
	}
}

// PATCH /forms/{formID}/questions/{questionID}
func UpdateQuestionHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		formID, ok := urlID(r, "formID")
		qID, ok2 := urlID(r, "questionID")
		if !ok || !ok2 {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if !resolver.CanEditForm(r.Context(), uid, formID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req struct {
			QuestionText  *string `json:"question_text"`
			Required      *bool   `json:"required"`
			CorrectAnswer *string `json:"correct_answer"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		q, err := store.QuestionByID(r.Context(), qID)
		if err != nil || q.TestID != formID {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		err = store.UpdateQuestion(r.Context(), qID, form.QuestionUpdate{
			Text:          req.QuestionText,
			Required:      req.Required,
			CorrectAnswer: req.CorrectAnswer,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// DELETE /forms/{formID}/questions/{questionID}
func DeleteQuestionHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		formID, ok := urlID(r, "formID")
		qID, ok2 := urlID(r, "questionID")
		if !ok || !ok2 {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if !resolver.CanEditForm(r.Context(), uid, formID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err := store.DeleteQuestion(r.Context(), formID, qID); err != nil {
			if errors.Is(err, form.ErrNotFound) {
				http.Error(w, "question not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// POST /forms/{formID}/questions/{questionID}/move  { "up": true }
func MoveQuestionHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserIDFromContext(r.Context())
		formID, ok := urlID(r, "formID")
		qID, ok2 := urlID(r, "questionID")
		if !ok || !ok2 {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if !resolver.CanEditForm(r.Context(), uid, formID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req struct {
			Up bool `json:"up"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := store.MoveQuestion(r.Context(), formID, qID, req.Up); err != nil {
			if errors.Is(err, form.ErrNotFound) {
				http.Error(w, "question not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// editableQuestionForm resolves option/question ownership and checks edit
// capability; options are reached through their question's form.
func editableQuestionForm(r *http.Request, store form.Store, resolver *access.Resolver, questionID int64) (form.Question, bool) {
	q, err := store.QuestionByID(r.Context(), questionID)
	if err != nil {
		return form.Question{}, false
	}
	uid := auth.UserIDFromContext(r.Context())
	return q, resolver.CanEditForm(r.Context(), uid, q.TestID)
}

// POST /questions/{questionID}/options  { "option_text": "..." }
func AddOptionHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qID, ok := urlID(r, "questionID")
		if !ok {
			http.Error(w, "bad question id", http.StatusBadRequest)
			return
		}
		q, allowed := editableQuestionForm(r, store, resolver, qID)
		if !allowed {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if !q.Type.HasOptions() {
			http.Error(w, "question has no options", http.StatusBadRequest)
			return
		}
		var req struct {
			OptionText string `json:"option_text" validate:"max=255"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		o, err := store.AddOption(r.Context(), qID, req.OptionText)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSONStatus(w, http.StatusCreated, o)
	}
}

// PATCH /options/{optionID}
func UpdateOptionHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		optID, ok := urlID(r, "optionID")
		if !ok {
			http.Error(w, "bad option id", http.StatusBadRequest)
			return
		}
		o, err := store.OptionByID(r.Context(), optID)
		if err != nil {
			http.Error(w, "option not found", http.StatusNotFound)
			return
		}
		if _, allowed := editableQuestionForm(r, store, resolver, o.QuestionID); !allowed {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req struct {
			OptionText *string `json:"option_text"`
			IsCorrect  *bool   `json:"is_correct"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		err = store.UpdateOption(r.Context(), optID, form.OptionUpdate{
			Text:      req.OptionText,
			IsCorrect: req.IsCorrect,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}

// DELETE /options/{optionID}
func DeleteOptionHandler(store form.Store, resolver *access.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		optID, ok := urlID(r, "optionID")
		if !ok {
			http.Error(w, "bad option id", http.StatusBadRequest)
			return
		}
		o, err := store.OptionByID(r.Context(), optID)
		if err != nil {
			http.Error(w, "option not found", http.StatusNotFound)
			return
		}
		if _, allowed := editableQuestionForm(r, store, resolver, o.QuestionID); !allowed {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err := store.DeleteOption(r.Context(), optID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}
