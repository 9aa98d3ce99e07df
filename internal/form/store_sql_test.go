package form_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tixomirkin/one-test/internal/db"
	"github.com/tixomirkin/one-test/internal/form"
)

// newTestStore opens a fresh in-memory sqlite database with the schema
// applied. cache=shared keeps the db alive across pooled connections.
func newTestStore(t *testing.T) (*form.SQLStore, context.Context) {
	t.Helper()
	ctx := context.Background()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") +
		"?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	return form.NewSQLStore(dbh, "sqlite"), ctx
}

func seedOwnerAndForm(t *testing.T, st *form.SQLStore, ctx context.Context, isTest bool) (form.User, form.Form) {
	t.Helper()
	u, err := st.CreateUser(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	f, err := st.CreateForm(ctx, u.ID, "My form", "desc", isTest)
	require.NoError(t, err)
	return u, f
}

func TestSQLStore_Users(t *testing.T) {
	st, ctx := newTestStore(t)

	u, err := st.CreateUser(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	got, err := st.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = st.UserByID(ctx, 9999)
	require.ErrorIs(t, err, form.ErrNotFound)

	// email is unique
	_, err = st.CreateUser(ctx, "other", "alice@example.com", "hash")
	require.Error(t, err)

	_, err = st.CreateUser(ctx, "bob", "bob@example.com", "hash")
	require.NoError(t, err)
	found, err := st.SearchUsers(ctx, "bob", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "bob", found[0].Username)
}

func TestSQLStore_CreateForm_Slug(t *testing.T) {
	st, ctx := newTestStore(t)
	u, err := st.CreateUser(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		f, err := st.CreateForm(ctx, u.ID, "t", "", false)
		require.NoError(t, err)
		require.Len(t, f.Slug, 12)
		require.False(t, seen[f.Slug], "slug %q repeated", f.Slug)
		seen[f.Slug] = true

		got, err := st.GetFormBySlug(ctx, f.Slug)
		require.NoError(t, err)
		require.Equal(t, f.ID, got.ID)
	}
}

func TestSQLStore_QuestionPositions(t *testing.T) {
	st, ctx := newTestStore(t)
	_, f := seedOwnerAndForm(t, st, ctx, false)

	var qs []form.Question
	for i := 0; i < 3; i++ {
		q, err := st.AddQuestion(ctx, f.ID, form.QuestionText)
		require.NoError(t, err)
		require.Equal(t, i, q.Position)
		qs = append(qs, q)
	}

	// Deleting the middle question closes the gap.
	require.NoError(t, st.DeleteQuestion(ctx, f.ID, qs[1].ID))
	full, err := st.FullForm(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, full.Questions, 2)
	for i, q := range full.Questions {
		require.Equal(t, i, q.Position, "positions must stay dense")
	}

	// The next insert lands at the end.
	q, err := st.AddQuestion(ctx, f.ID, form.QuestionSingle)
	require.NoError(t, err)
	require.Equal(t, 2, q.Position)
}

func TestSQLStore_MoveQuestion(t *testing.T) {
	st, ctx := newTestStore(t)
	_, f := seedOwnerAndForm(t, st, ctx, false)

	var ids []int64
	for i := 0; i < 3; i++ {
		q, err := st.AddQuestion(ctx, f.ID, form.QuestionText)
		require.NoError(t, err)
		ids = append(ids, q.ID)
	}

	order := func() []int64 {
		full, err := st.FullForm(ctx, f.ID)
		require.NoError(t, err)
		out := make([]int64, 0, len(full.Questions))
		for _, q := range full.Questions {
			out = append(out, q.ID)
		}
		return out
	}

	// Move the last question up: [0,1,2] -> [0,2,1].
	require.NoError(t, st.MoveQuestion(ctx, f.ID, ids[2], true))
	require.Equal(t, []int64{ids[0], ids[2], ids[1]}, order())

	// Moving the first question up is a no-op.
	require.NoError(t, st.MoveQuestion(ctx, f.ID, ids[0], true))
	require.Equal(t, []int64{ids[0], ids[2], ids[1]}, order())

	// Moving the last question down is a no-op.
	require.NoError(t, st.MoveQuestion(ctx, f.ID, ids[1], false))
	require.Equal(t, []int64{ids[0], ids[2], ids[1]}, order())

	// Unknown question.
	require.ErrorIs(t, st.MoveQuestion(ctx, f.ID, 9999, true), form.ErrNotFound)

	// Question from another form.
	carol, err := st.CreateUser(ctx, "carol", "carol@example.com", "hash")
	require.NoError(t, err)
	other, err := st.CreateForm(ctx, carol.ID, "Other form", "", false)
	require.NoError(t, err)
	oq, err := st.AddQuestion(ctx, other.ID, form.QuestionText)
	require.NoError(t, err)
	require.ErrorIs(t, st.MoveQuestion(ctx, f.ID, oq.ID, true), form.ErrNotFound)
}

func TestSQLStore_Grants(t *testing.T) {
	st, ctx := newTestStore(t)
	_, f := seedOwnerAndForm(t, st, ctx, false)
	u, err := st.CreateUser(ctx, "bob", "bob@example.com", "hash")
	require.NoError(t, err)

	role, has, err := st.GetGrant(ctx, u.ID, f.ID)
	require.NoError(t, err)
	require.False(t, has)
	require.Equal(t, form.RoleNone, role)

	require.NoError(t, st.UpsertGrant(ctx, f.ID, u.ID, form.RoleReader))
	role, has, err = st.GetGrant(ctx, u.ID, f.ID)
	require.NoError(t, err)
	require.True(t, has)
	require.Equal(t, form.RoleReader, role)

	// Upsert replaces, never duplicates.
	require.NoError(t, st.UpsertGrant(ctx, f.ID, u.ID, form.RoleEditor))
	grants, err := st.ListGrants(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.Equal(t, form.RoleEditor, grants[0].Role)
	require.Equal(t, "bob", grants[0].User.Username)

	require.NoError(t, st.RemoveGrant(ctx, f.ID, u.ID))
	_, has, err = st.GetGrant(ctx, u.ID, f.ID)
	require.NoError(t, err)
	require.False(t, has)
}

func TestSQLStore_InsertAttempt_FanOut(t *testing.T) {
	st, ctx := newTestStore(t)
	u, f := seedOwnerAndForm(t, st, ctx, true)

	single, err := st.AddQuestion(ctx, f.ID, form.QuestionSingle)
	require.NoError(t, err)
	so1, err := st.AddOption(ctx, single.ID, "a")
	require.NoError(t, err)

	multi, err := st.AddQuestion(ctx, f.ID, form.QuestionMultiple)
	require.NoError(t, err)
	mo1, err := st.AddOption(ctx, multi.ID, "x")
	require.NoError(t, err)
	mo2, err := st.AddOption(ctx, multi.ID, "y")
	require.NoError(t, err)

	text, err := st.AddQuestion(ctx, f.ID, form.QuestionText)
	require.NoError(t, err)

	id, err := st.InsertAttempt(ctx, f.ID, u.ID, []form.SubmittedAnswer{
		{QuestionID: single.ID, Kind: form.AnswerOption, OptionID: so1.ID},
		{QuestionID: multi.ID, Kind: form.AnswerOptions, OptionIDs: []int64{mo1.ID, mo2.ID}},
		{QuestionID: text.ID, Kind: form.AnswerText, Text: "hello"},
		{QuestionID: 9999, Kind: form.AnswerText, Text: "gone"}, // vanished question
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	attempts, err := st.ListAttempts(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)

	rec := attempts[0]
	require.NotNil(t, rec.UserID)
	require.Equal(t, u.ID, *rec.UserID)
	require.NotNil(t, rec.Username)
	require.Equal(t, "alice", *rec.Username)

	// 1 single + 2 multiple + 1 text; the vanished question left no row.
	require.Len(t, rec.Answers, 4)

	byQuestion := map[int64][]form.AnswerRecord{}
	for _, a := range rec.Answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}
	require.Len(t, byQuestion[single.ID], 1)
	require.Len(t, byQuestion[multi.ID], 2)
	require.Len(t, byQuestion[text.ID], 1)
	require.NotNil(t, byQuestion[text.ID][0].TextAnswer)
	require.Equal(t, "hello", *byQuestion[text.ID][0].TextAnswer)
	require.NotNil(t, byQuestion[single.ID][0].OptionText)
	require.Equal(t, "a", *byQuestion[single.ID][0].OptionText)
}

func TestSQLStore_InsertAttempt_Anonymous(t *testing.T) {
	st, ctx := newTestStore(t)
	_, f := seedOwnerAndForm(t, st, ctx, false)
	q, err := st.AddQuestion(ctx, f.ID, form.QuestionText)
	require.NoError(t, err)

	_, err = st.InsertAttempt(ctx, f.ID, 0, []form.SubmittedAnswer{
		{QuestionID: q.ID, Kind: form.AnswerText, Text: "anon"},
	})
	require.NoError(t, err)

	attempts, err := st.ListAttempts(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	require.Nil(t, attempts[0].UserID)
	require.Nil(t, attempts[0].Username)
}

func TestSQLStore_InsertAttempt_Atomic(t *testing.T) {
	st, ctx := newTestStore(t)
	u, f := seedOwnerAndForm(t, st, ctx, false)
	q, err := st.AddQuestion(ctx, f.ID, form.QuestionSingle)
	require.NoError(t, err)

	// An option id that violates the foreign key aborts the whole insert:
	// no attempt row may survive a failed answer write.
	_, err = st.InsertAttempt(ctx, f.ID, u.ID, []form.SubmittedAnswer{
		{QuestionID: q.ID, Kind: form.AnswerOption, OptionID: 424242},
	})
	require.Error(t, err)

	attempts, err := st.ListAttempts(ctx, f.ID)
	require.NoError(t, err)
	require.Empty(t, attempts)
}

func TestSQLStore_ListFormsWithResultsAccess(t *testing.T) {
	st, ctx := newTestStore(t)
	owner, owned := seedOwnerAndForm(t, st, ctx, false)

	other, err := st.CreateUser(ctx, "bob", "bob@example.com", "hash")
	require.NoError(t, err)
	granted, err := st.CreateForm(ctx, other.ID, "Bob's form", "", false)
	require.NoError(t, err)
	hidden, err := st.CreateForm(ctx, other.ID, "Hidden", "", false)
	require.NoError(t, err)

	require.NoError(t, st.UpsertGrant(ctx, granted.ID, owner.ID, form.RoleReader))
	// participant grants carry no dashboard access
	require.NoError(t, st.UpsertGrant(ctx, hidden.ID, owner.ID, form.RoleParticipant))

	list, err := st.ListFormsWithResultsAccess(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	roles := map[int64]form.Role{}
	for _, f := range list {
		roles[f.ID] = f.Role
	}
	require.Equal(t, form.RoleOwner, roles[owned.ID])
	require.Equal(t, form.RoleReader, roles[granted.ID])
	require.NotContains(t, roles, hidden.ID)
}

func TestSQLStore_UpdateFormAndQuestion(t *testing.T) {
	st, ctx := newTestStore(t)
	_, f := seedOwnerAndForm(t, st, ctx, false)

	require.NoError(t, st.UpdateForm(ctx, f.ID, form.FormUpdate{
		Title: "Renamed", Description: "d", IsTest: true, SuccessMessage: "thanks!",
	}))
	got, err := st.GetForm(ctx, f.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Title)
	require.True(t, got.IsTest)
	require.Equal(t, "thanks!", got.SuccessMessage)

	q, err := st.AddQuestion(ctx, f.ID, form.QuestionText)
	require.NoError(t, err)
	txt := "2+2?"
	req := true
	ans := "4"
	require.NoError(t, st.UpdateQuestion(ctx, q.ID, form.QuestionUpdate{
		Text: &txt, Required: &req, CorrectAnswer: &ans,
	}))
	got2, err := st.QuestionByID(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, "2+2?", got2.Text)
	require.True(t, got2.Required)
	require.Equal(t, "4", got2.CorrectAnswer)
}
