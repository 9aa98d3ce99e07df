package form

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a form, question or option does not exist.
var ErrNotFound = errors.New("not found")

// FormUpdate carries the editable form fields.
type FormUpdate struct {
	Title          string
	Description    string
	IsTest         bool
	SuccessMessage string
}

// QuestionUpdate is a partial question update; nil fields are left untouched.
type QuestionUpdate struct {
	Text          *string
	Required      *bool
	CorrectAnswer *string
}

// OptionUpdate is a partial option update; nil fields are left untouched.
type OptionUpdate struct {
	Text      *string
	IsCorrect *bool
}

type Store interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (User, error)
	UserByID(ctx context.Context, id int64) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, id int64, username, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SearchUsers(ctx context.Context, query string, limit int) ([]UserInfo, error)

	CreateForm(ctx context.Context, ownerID int64, title, description string, isTest bool) (Form, error)
	GetForm(ctx context.Context, id int64) (Form, error)
	GetFormBySlug(ctx context.Context, slug string) (Form, error)
	UpdateForm(ctx context.Context, id int64, upd FormUpdate) error
	SetFormPublic(ctx context.Context, id int64, isPublic bool) error
	ListFormsWithResultsAccess(ctx context.Context, userID int64) ([]FormSummary, error)
	FullForm(ctx context.Context, id int64) (FullForm, error)
	FullFormBySlug(ctx context.Context, slug string) (FullForm, error)

	AddQuestion(ctx context.Context, formID int64, qType QuestionType) (Question, error)
	QuestionByID(ctx context.Context, id int64) (Question, error)
	UpdateQuestion(ctx context.Context, id int64, upd QuestionUpdate) error
	DeleteQuestion(ctx context.Context, formID, questionID int64) error
	MoveQuestion(ctx context.Context, formID, questionID int64, up bool) error

	AddOption(ctx context.Context, questionID int64, text string) (Option, error)
	OptionByID(ctx context.Context, id int64) (Option, error)
	UpdateOption(ctx context.Context, id int64, upd OptionUpdate) error
	DeleteOption(ctx context.Context, id int64) error

	GetGrant(ctx context.Context, userID, formID int64) (Role, bool, error)
	UpsertGrant(ctx context.Context, formID, userID int64, role Role) error
	RemoveGrant(ctx context.Context, formID, userID int64) error
	ListGrants(ctx context.Context, formID int64) ([]Grant, error)

	// InsertAttempt persists one attempt and its answer rows in a single
	// transaction. userID 0 records an anonymous attempt. Answers whose
	// question no longer exists are skipped.
	InsertAttempt(ctx context.Context, formID, userID int64, answers []SubmittedAnswer) (int64, error)
	ListAttempts(ctx context.Context, formID int64) ([]AttemptRecord, error)
}
