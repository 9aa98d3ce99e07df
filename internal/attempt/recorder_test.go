package attempt_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tixomirkin/one-test/internal/access"
	"github.com/tixomirkin/one-test/internal/attempt"
	"github.com/tixomirkin/one-test/internal/db"
	"github.com/tixomirkin/one-test/internal/form"
	"github.com/tixomirkin/one-test/internal/grading"
	syncx "github.com/tixomirkin/one-test/internal/sync"
)

type fixture struct {
	ctx      context.Context
	db       *sql.DB
	store    *form.SQLStore
	recorder *attempt.Recorder
	owner    form.User
	form     form.Form
	single   form.Question
	correct  form.Option
	wrong    form.Option
	text     form.Question
}

// newFixture builds a quiz with one single-choice and one text question on
// an in-memory sqlite database.
func newFixture(t *testing.T, isTest bool) *fixture {
	t.Helper()
	ctx := context.Background()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") +
		"?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	st := form.NewSQLStore(dbh, "sqlite")
	owner, err := st.CreateUser(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	f, err := st.CreateForm(ctx, owner.ID, "Quiz", "", isTest)
	require.NoError(t, err)

	single, err := st.AddQuestion(ctx, f.ID, form.QuestionSingle)
	require.NoError(t, err)
	correct, err := st.AddOption(ctx, single.ID, "right")
	require.NoError(t, err)
	yes := true
	require.NoError(t, st.UpdateOption(ctx, correct.ID, form.OptionUpdate{IsCorrect: &yes}))
	wrong, err := st.AddOption(ctx, single.ID, "wrong")
	require.NoError(t, err)

	text, err := st.AddQuestion(ctx, f.ID, form.QuestionText)
	require.NoError(t, err)
	key := "Paris"
	require.NoError(t, st.UpdateQuestion(ctx, text.ID, form.QuestionUpdate{CorrectAnswer: &key}))

	rec := attempt.NewRecorder(st, access.NewResolver(st), grading.NewEngine(), nil)
	return &fixture{
		ctx: ctx, db: dbh, store: st, recorder: rec,
		owner: owner, form: f,
		single: single, correct: correct, wrong: wrong, text: text,
	}
}

func (fx *fixture) makePublic(t *testing.T) {
	t.Helper()
	require.NoError(t, fx.store.SetFormPublic(fx.ctx, fx.form.ID, true))
}

func (fx *fixture) attemptCount(t *testing.T) int {
	t.Helper()
	attempts, err := fx.store.ListAttempts(fx.ctx, fx.form.ID)
	require.NoError(t, err)
	return len(attempts)
}

func TestSubmit_PublicQuizAnonymous(t *testing.T) {
	fx := newFixture(t, true)
	fx.makePublic(t)

	sub := attempt.Submission{Questions: []attempt.SubmittedQuestion{
		{ID: fx.single.ID, Answer: answerNumber(t, fx.correct.ID)},
		{ID: fx.text.ID, Answer: answerText(t, "london")},
	}}
	out := fx.recorder.Submit(fx.ctx, fx.form.ID, 0, sub)
	require.True(t, out.OK)
	require.NotNil(t, out.Result)
	require.Equal(t, 2, out.Result.TotalQuestions)
	require.Equal(t, 1, out.Result.CorrectAnswers)
	require.Equal(t, 1, out.Result.IncorrectAnswers)
	require.Equal(t, 1, fx.attemptCount(t))
}

func TestSubmit_PrivateFormAnonymousRejected(t *testing.T) {
	fx := newFixture(t, true)

	out := fx.recorder.Submit(fx.ctx, fx.form.ID, 0, attempt.Submission{})
	require.False(t, out.OK)
	require.Nil(t, out.Result)
	require.Empty(t, out.SuccessMessage)
	require.Equal(t, 0, fx.attemptCount(t), "rejected submission must leave no rows")
}

func TestSubmit_GrantedParticipant(t *testing.T) {
	fx := newFixture(t, false)
	taker, err := fx.store.CreateUser(fx.ctx, "bob", "bob@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, fx.store.UpsertGrant(fx.ctx, fx.form.ID, taker.ID, form.RoleParticipant))

	sub := attempt.Submission{Questions: []attempt.SubmittedQuestion{
		{ID: fx.text.ID, Answer: answerText(t, "whatever")},
	}}
	out := fx.recorder.Submit(fx.ctx, fx.form.ID, taker.ID, sub)
	require.True(t, out.OK)
	require.Nil(t, out.Result, "plain forms are not graded")
	require.Equal(t, 1, fx.attemptCount(t))
}

func TestSubmit_StrangerRejected(t *testing.T) {
	fx := newFixture(t, false)
	stranger, err := fx.store.CreateUser(fx.ctx, "eve", "eve@example.com", "hash")
	require.NoError(t, err)

	out := fx.recorder.Submit(fx.ctx, fx.form.ID, stranger.ID, attempt.Submission{})
	require.False(t, out.OK)
	require.Equal(t, 0, fx.attemptCount(t))
}

func TestSubmit_UnknownFormRejected(t *testing.T) {
	fx := newFixture(t, false)
	out := fx.recorder.Submit(fx.ctx, 424242, fx.owner.ID, attempt.Submission{})
	require.False(t, out.OK)
}

func TestSubmitBySlug(t *testing.T) {
	fx := newFixture(t, false)
	fx.makePublic(t)

	out := fx.recorder.SubmitBySlug(fx.ctx, fx.form.Slug, 0, attempt.Submission{})
	require.True(t, out.OK)

	out = fx.recorder.SubmitBySlug(fx.ctx, "doesNotExist", 0, attempt.Submission{})
	require.False(t, out.OK)
}

func TestSubmit_RequiredUnansweredRejected(t *testing.T) {
	fx := newFixture(t, true)
	fx.makePublic(t)
	yes := true
	require.NoError(t, fx.store.UpdateQuestion(fx.ctx, fx.text.ID, form.QuestionUpdate{Required: &yes}))

	// Blank text does not count as an answer.
	sub := attempt.Submission{Questions: []attempt.SubmittedQuestion{
		{ID: fx.single.ID, Answer: answerNumber(t, fx.correct.ID)},
		{ID: fx.text.ID, Answer: answerText(t, "   ")},
	}}
	out := fx.recorder.Submit(fx.ctx, fx.form.ID, 0, sub)
	require.False(t, out.OK)
	require.Equal(t, 0, fx.attemptCount(t))

	sub.Questions[1].Answer = answerText(t, "Paris")
	out = fx.recorder.Submit(fx.ctx, fx.form.ID, 0, sub)
	require.True(t, out.OK)
	require.Equal(t, 2, out.Result.CorrectAnswers)
}

func TestSubmit_AppendsSubmittedEvent(t *testing.T) {
	fx := newFixture(t, true)
	fx.makePublic(t)
	fx.recorder = fx.recorder.WithEvents(syncx.NewEventRepo(fx.db), "site-a")

	sub := attempt.Submission{Questions: []attempt.SubmittedQuestion{
		{ID: fx.single.ID, Answer: answerNumber(t, fx.correct.ID)},
	}}
	out := fx.recorder.Submit(fx.ctx, fx.form.ID, 0, sub)
	require.True(t, out.OK)

	attempts, err := fx.store.ListAttempts(fx.ctx, fx.form.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)

	var typ, key, site, data string
	row := fx.db.QueryRowContext(fx.ctx, `SELECT typ, key, site_id, data FROM event_log`)
	require.NoError(t, row.Scan(&typ, &key, &site, &data))
	require.Equal(t, "attempt.submitted", typ)
	require.Equal(t, strconv.FormatInt(attempts[0].ID, 10), key)
	require.Equal(t, "site-a", site)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	require.EqualValues(t, fx.form.ID, payload["form_id"])
	require.EqualValues(t, 2, payload["total"])
}

func TestSubmit_SuccessMessage(t *testing.T) {
	fx := newFixture(t, false)
	fx.makePublic(t)
	require.NoError(t, fx.store.UpdateForm(fx.ctx, fx.form.ID, form.FormUpdate{
		Title: "Quiz", IsTest: false, SuccessMessage: "Thanks for taking part!",
	}))

	out := fx.recorder.Submit(fx.ctx, fx.form.ID, 0, attempt.Submission{})
	require.True(t, out.OK)
	require.Equal(t, "Thanks for taking part!", out.SuccessMessage)
}

/* ---------------- answer construction helpers ---------------- */

func answerValue(t *testing.T, raw string) attempt.AnswerValue {
	t.Helper()
	var v attempt.AnswerValue
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func answerText(t *testing.T, s string) attempt.AnswerValue {
	b, _ := json.Marshal(s)
	return answerValue(t, string(b))
}

func answerNumber(t *testing.T, id int64) attempt.AnswerValue {
	b, _ := json.Marshal(id)
	return answerValue(t, string(b))
}
