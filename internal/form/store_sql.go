package form

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// runner is satisfied by both *sql.DB and *sql.Tx.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// insertID runs an INSERT and returns the new row id. Postgres needs
// RETURNING; sqlite exposes LastInsertId.
func (s *SQLStore) insertID(ctx context.Context, r runner, query string, args ...any) (int64, error) {
	if s.driver == "postgres" {
		var id int64
		err := r.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

/* ---------------- users ---------------- */

func (s *SQLStore) CreateUser(ctx context.Context, username, email, passwordHash string) (User, error) {
	now := time.Now().Unix()
	id, err := s.insertID(ctx, s.db,
		`INSERT INTO users (username,email,password_hash,created_at) VALUES ($1,$2,$3,$4)`,
		username, email, passwordHash, now)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return User{ID: id, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: now}, nil
}

func (s *SQLStore) UserByID(ctx context.Context, id int64) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id,username,email,password_hash,created_at FROM users WHERE id=$1`, id))
}

func (s *SQLStore) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id,username,email,password_hash,created_at FROM users WHERE email=$1`, email))
}

func (s *SQLStore) scanUser(row *sql.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) UpdateUser(ctx context.Context, id int64, username, email string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET username=$1, email=$2 WHERE id=$3`, username, email, id)
	return err
}

func (s *SQLStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	return err
}

func (s *SQLStore) SearchUsers(ctx context.Context, query string, limit int) ([]UserInfo, error) {
	if limit <= 0 {
		limit = 10
	}
	pat := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,username,email FROM users WHERE email LIKE $1 OR username LIKE $2 ORDER BY username LIMIT $3`,
		pat, pat, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []UserInfo{}
	for rows.Next() {
		var u UserInfo
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

/* ---------------- forms ---------------- */

func (s *SQLStore) slugExists(ctx context.Context, slug string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tests WHERE slug=$1`, slug).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) CreateForm(ctx context.Context, ownerID int64, title, description string, isTest bool) (Form, error) {
	slug, err := UniqueSlug(ctx, s.slugExists)
	if err != nil {
		return Form{}, fmt.Errorf("generate slug: %w", err)
	}
	now := time.Now().Unix()
	id, err := s.insertID(ctx, s.db,
		`INSERT INTO tests (owner_id,title,description,is_test,is_public,slug,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		ownerID, title, description, isTest, false, slug, now)
	if err != nil {
		return Form{}, fmt.Errorf("create form: %w", err)
	}
	return Form{ID: id, OwnerID: ownerID, Title: title, Description: description,
		IsTest: isTest, Slug: slug, CreatedAt: now}, nil
}

const formCols = `id,owner_id,title,description,is_test,is_public,slug,success_message,created_at`

func (s *SQLStore) scanForm(row *sql.Row) (Form, error) {
	var f Form
	var owner sql.NullInt64
	var msg sql.NullString
	err := row.Scan(&f.ID, &owner, &f.Title, &f.Description, &f.IsTest, &f.IsPublic, &f.Slug, &msg, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Form{}, ErrNotFound
		}
		return Form{}, err
	}
	f.OwnerID = owner.Int64
	f.SuccessMessage = msg.String
	return f, nil
}

func (s *SQLStore) GetForm(ctx context.Context, id int64) (Form, error) {
	return s.scanForm(s.db.QueryRowContext(ctx,
		`SELECT `+formCols+` FROM tests WHERE id=$1`, id))
}

func (s *SQLStore) GetFormBySlug(ctx context.Context, slug string) (Form, error) {
	return s.scanForm(s.db.QueryRowContext(ctx,
		`SELECT `+formCols+` FROM tests WHERE slug=$1`, slug))
}

func (s *SQLStore) UpdateForm(ctx context.Context, id int64, upd FormUpdate) error {
	var msg any
	if upd.SuccessMessage != "" {
		msg = upd.SuccessMessage
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE tests SET title=$1, description=$2, is_test=$3, success_message=$4 WHERE id=$5`,
		upd.Title, upd.Description, upd.IsTest, msg, id)
	return err
}

func (s *SQLStore) SetFormPublic(ctx context.Context, id int64, isPublic bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE tests SET is_public=$1 WHERE id=$2`, isPublic, id)
	return err
}

// summaryQuery selects form fields, counts, and the viewer's role. The role
// expression is 'owner' for owned rows and ac.role for granted rows.
const summaryQuery = `
SELECT t.id, t.owner_id, t.title, t.description, t.is_test, t.is_public, t.slug, t.success_message, t.created_at,
       COALESCE(q.cnt,0), COALESCE(a.cnt,0), %s
FROM tests t
LEFT JOIN (SELECT test_id, COUNT(*) AS cnt FROM question GROUP BY test_id) q ON q.test_id=t.id
LEFT JOIN (SELECT test_id, COUNT(*) AS cnt FROM attempts GROUP BY test_id) a ON a.test_id=t.id`

// ListFormsWithResultsAccess returns the forms the user owns plus the forms
// granted to them as editor or reader, each with question/attempt counts and
// the role the viewer holds on it.
func (s *SQLStore) ListFormsWithResultsAccess(ctx context.Context, userID int64) ([]FormSummary, error) {
	owned, err := s.querySummaries(ctx,
		fmt.Sprintf(summaryQuery, `'owner'`)+` WHERE t.owner_id=$1 ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	granted, err := s.querySummaries(ctx,
		fmt.Sprintf(summaryQuery, `ac.role`)+` JOIN access ac ON ac.test_id=t.id
		 WHERE ac.user_id=$1 AND ac.role IN ('editor','reader') ORDER BY t.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(owned))
	out := make([]FormSummary, 0, len(owned)+len(granted))
	for _, f := range owned {
		seen[f.ID] = true
		out = append(out, f)
	}
	for _, f := range granted {
		if !seen[f.ID] {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *SQLStore) querySummaries(ctx context.Context, query string, args ...any) ([]FormSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []FormSummary{}
	for rows.Next() {
		var f FormSummary
		var owner sql.NullInt64
		var msg sql.NullString
		var role string
		if err := rows.Scan(&f.ID, &owner, &f.Title, &f.Description, &f.IsTest, &f.IsPublic,
			&f.Slug, &msg, &f.CreatedAt, &f.QuestionCount, &f.AttemptCount, &role); err != nil {
			return nil, err
		}
		f.OwnerID = owner.Int64
		f.SuccessMessage = msg.String
		f.Role = Role(role)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLStore) FullForm(ctx context.Context, id int64) (FullForm, error) {
	f, err := s.GetForm(ctx, id)
	if err != nil {
		return FullForm{}, err
	}
	return s.loadQuestions(ctx, f)
}

func (s *SQLStore) FullFormBySlug(ctx context.Context, slug string) (FullForm, error) {
	f, err := s.GetFormBySlug(ctx, slug)
	if err != nil {
		return FullForm{}, err
	}
	return s.loadQuestions(ctx, f)
}

func (s *SQLStore) loadQuestions(ctx context.Context, f Form) (FullForm, error) {
	full := FullForm{Form: f, Questions: []QuestionWithOptions{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id,test_id,question_text,question_type,required,position,correct_answer,created_at
		 FROM question WHERE test_id=$1 ORDER BY position`, f.ID)
	if err != nil {
		return FullForm{}, err
	}
	defer rows.Close()
	idx := map[int64]int{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return FullForm{}, err
		}
		idx[q.ID] = len(full.Questions)
		full.Questions = append(full.Questions, QuestionWithOptions{Question: q, Options: []Option{}})
	}
	if err := rows.Err(); err != nil {
		return FullForm{}, err
	}

	orows, err := s.db.QueryContext(ctx,
		`SELECT o.id,o.question_id,o.option_text,o.position,o.is_correct,o.created_at
		 FROM options o JOIN question q ON q.id=o.question_id
		 WHERE q.test_id=$1 ORDER BY o.position`, f.ID)
	if err != nil {
		return FullForm{}, err
	}
	defer orows.Close()
	for orows.Next() {
		var o Option
		if err := orows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.Position, &o.IsCorrect, &o.CreatedAt); err != nil {
			return FullForm{}, err
		}
		if i, ok := idx[o.QuestionID]; ok {
			full.Questions[i].Options = append(full.Questions[i].Options, o)
		}
	}
	return full, orows.Err()
}

/* ---------------- questions ---------------- */

type rowScanner interface{ Scan(dest ...any) error }

func scanQuestion(r rowScanner) (Question, error) {
	var q Question
	var correct sql.NullString
	if err := r.Scan(&q.ID, &q.TestID, &q.Text, &q.Type, &q.Required, &q.Position, &correct, &q.CreatedAt); err != nil {
		return Question{}, err
	}
	q.CorrectAnswer = correct.String
	return q, nil
}

func (s *SQLStore) AddQuestion(ctx context.Context, formID int64, qType QuestionType) (Question, error) {
	var pos int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position)+1,0) FROM question WHERE test_id=$1`, formID).Scan(&pos); err != nil {
		return Question{}, err
	}
	now := time.Now().Unix()
	id, err := s.insertID(ctx, s.db,
		`INSERT INTO question (test_id,question_text,question_type,required,position,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		formID, "", string(qType), false, pos, now)
	if err != nil {
		return Question{}, fmt.Errorf("add question: %w", err)
	}
	return Question{ID: id, TestID: formID, Type: qType, Position: pos, CreatedAt: now}, nil
}

func (s *SQLStore) QuestionByID(ctx context.Context, id int64) (Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx,
		`SELECT id,test_id,question_text,question_type,required,position,correct_answer,created_at
		 FROM question WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) UpdateQuestion(ctx context.Context, id int64, upd QuestionUpdate) error {
	if upd.Text != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE question SET question_text=$1 WHERE id=$2`, *upd.Text, id); err != nil {
			return err
		}
	}
	if upd.Required != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE question SET required=$1 WHERE id=$2`, *upd.Required, id); err != nil {
			return err
		}
	}
	if upd.CorrectAnswer != nil {
		var v any
		if *upd.CorrectAnswer != "" {
			v = *upd.CorrectAnswer
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE question SET correct_answer=$1 WHERE id=$2`, v, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteQuestion removes the question and closes the position gap so the
// form's positions stay dense.
func (s *SQLStore) DeleteQuestion(ctx context.Context, formID, questionID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var pos int
	if err := tx.QueryRowContext(ctx,
		`SELECT position FROM question WHERE id=$1 AND test_id=$2`, questionID, formID).Scan(&pos); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM question WHERE id=$1`, questionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE question SET position=position-1 WHERE test_id=$1 AND position>$2`, formID, pos); err != nil {
		return err
	}
	return tx.Commit()
}

// MoveQuestion swaps the question with its neighbor one position up or down.
// Both writes happen in one transaction so no reader observes two questions
// sharing a position. Moving past either end is a no-op.
func (s *SQLStore) MoveQuestion(ctx context.Context, formID, questionID int64, up bool) error {
	q, err := s.QuestionByID(ctx, questionID)
	if err != nil {
		return err
	}
	if q.TestID != formID {
		return ErrNotFound
	}
	neighborPos := q.Position + 1
	if up {
		neighborPos = q.Position - 1
	}
	var neighborID int64
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM question WHERE test_id=$1 AND position=$2`, formID, neighborPos).Scan(&neighborID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		`UPDATE question SET position=$1 WHERE id=$2`, neighborPos, questionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE question SET position=$1 WHERE id=$2`, q.Position, neighborID); err != nil {
		return err
	}
	return tx.Commit()
}

/* ---------------- options ---------------- */

func (s *SQLStore) AddOption(ctx context.Context, questionID int64, text string) (Option, error) {
	var pos int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position)+1,0) FROM options WHERE question_id=$1`, questionID).Scan(&pos); err != nil {
		return Option{}, err
	}
	now := time.Now().Unix()
	id, err := s.insertID(ctx, s.db,
		`INSERT INTO options (question_id,option_text,position,is_correct,created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		questionID, text, pos, false, now)
	if err != nil {
		return Option{}, fmt.Errorf("add option: %w", err)
	}
	return Option{ID: id, QuestionID: questionID, Text: text, Position: pos, CreatedAt: now}, nil
}

func (s *SQLStore) OptionByID(ctx context.Context, id int64) (Option, error) {
	var o Option
	err := s.db.QueryRowContext(ctx,
		`SELECT id,question_id,option_text,position,is_correct,created_at FROM options WHERE id=$1`, id).
		Scan(&o.ID, &o.QuestionID, &o.Text, &o.Position, &o.IsCorrect, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Option{}, ErrNotFound
	}
	if err != nil {
		return Option{}, err
	}
	return o, nil
}

func (s *SQLStore) UpdateOption(ctx context.Context, id int64, upd OptionUpdate) error {
	if upd.Text != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE options SET option_text=$1 WHERE id=$2`, *upd.Text, id); err != nil {
			return err
		}
	}
	if upd.IsCorrect != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE options SET is_correct=$1 WHERE id=$2`, *upd.IsCorrect, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) DeleteOption(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM options WHERE id=$1`, id)
	return err
}

/* ---------------- access grants ---------------- */

func (s *SQLStore) GetGrant(ctx context.Context, userID, formID int64) (Role, bool, error) {
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT role FROM access WHERE user_id=$1 AND test_id=$2`, userID, formID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return RoleNone, false, nil
	}
	if err != nil {
		return RoleNone, false, err
	}
	return Role(role), true, nil
}

func (s *SQLStore) UpsertGrant(ctx context.Context, formID, userID int64, role Role) error {
	_, has, err := s.GetGrant(ctx, userID, formID)
	if err != nil {
		return err
	}
	if has {
		_, err = s.db.ExecContext(ctx,
			`UPDATE access SET role=$1 WHERE user_id=$2 AND test_id=$3`, string(role), userID, formID)
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO access (user_id,test_id,role,created_at) VALUES ($1,$2,$3,$4)`,
		userID, formID, string(role), time.Now().Unix())
	return err
}

func (s *SQLStore) RemoveGrant(ctx context.Context, formID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM access WHERE user_id=$1 AND test_id=$2`, userID, formID)
	return err
}

func (s *SQLStore) ListGrants(ctx context.Context, formID int64) ([]Grant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id,a.user_id,a.test_id,a.role,a.created_at,u.id,u.username,u.email
		 FROM access a JOIN users u ON u.id=a.user_id
		 WHERE a.test_id=$1 ORDER BY a.created_at`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Grant{}
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.ID, &g.UserID, &g.TestID, &g.Role, &g.CreatedAt,
			&g.User.ID, &g.User.Username, &g.User.Email); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

/* ---------------- attempts ---------------- */

// InsertAttempt writes the attempt row and its per-question answer rows in
// one transaction. Question types are re-read inside the transaction; the
// fan-out rule follows the stored type, never the caller's claim. Answers
// referencing a vanished question are skipped.
func (s *SQLStore) InsertAttempt(ctx context.Context, formID, userID int64, answers []SubmittedAnswer) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	var uid any
	if userID != 0 {
		uid = userID
	}
	attemptID, err := s.insertID(ctx, tx,
		`INSERT INTO attempts (test_id,user_id,created_at) VALUES ($1,$2,$3)`,
		formID, uid, now)
	if err != nil {
		return 0, fmt.Errorf("insert attempt: %w", err)
	}

	for _, ans := range answers {
		var qType string
		err := tx.QueryRowContext(ctx,
			`SELECT question_type FROM question WHERE id=$1`, ans.QuestionID).Scan(&qType)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, err
		}

		switch QuestionType(qType) {
		case QuestionSingle:
			if ans.Kind != AnswerOption || ans.OptionID == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO answers (attempt_id,question_id,option_id,created_at) VALUES ($1,$2,$3,$4)`,
				attemptID, ans.QuestionID, ans.OptionID, now); err != nil {
				return 0, fmt.Errorf("insert answer: %w", err)
			}
		case QuestionMultiple:
			if ans.Kind != AnswerOptions {
				continue
			}
			for _, optID := range ans.OptionIDs {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO answers (attempt_id,question_id,option_id,created_at) VALUES ($1,$2,$3,$4)`,
					attemptID, ans.QuestionID, optID, now); err != nil {
					return 0, fmt.Errorf("insert answer: %w", err)
				}
			}
		default:
			if ans.Kind != AnswerText {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO answers (attempt_id,question_id,text_answer,created_at) VALUES ($1,$2,$3,$4)`,
				attemptID, ans.QuestionID, ans.Text, now); err != nil {
				return 0, fmt.Errorf("insert answer: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return attemptID, nil
}

func (s *SQLStore) ListAttempts(ctx context.Context, formID int64) ([]AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT at.id, at.user_id, u.username, at.created_at,
		        an.id, an.question_id, q.question_text, q.question_type, an.option_id, o.option_text, an.text_answer
		 FROM attempts at
		 LEFT JOIN users u ON u.id=at.user_id
		 LEFT JOIN answers an ON an.attempt_id=at.id
		 LEFT JOIN question q ON q.id=an.question_id
		 LEFT JOIN options o ON o.id=an.option_id
		 WHERE at.test_id=$1
		 ORDER BY at.created_at, at.id, an.id`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AttemptRecord{}
	idx := map[int64]int{}
	for rows.Next() {
		var (
			attemptID, createdAt                        int64
			userID, answerID, questionID, optionID      sql.NullInt64
			username, qText, qType, optText, textAnswer sql.NullString
		)
		if err := rows.Scan(&attemptID, &userID, &username, &createdAt,
			&answerID, &questionID, &qText, &qType, &optionID, &optText, &textAnswer); err != nil {
			return nil, err
		}
		i, ok := idx[attemptID]
		if !ok {
			rec := AttemptRecord{ID: attemptID, CreatedAt: createdAt, Answers: []AnswerRecord{}}
			if userID.Valid {
				rec.UserID = &userID.Int64
			}
			if username.Valid {
				rec.Username = &username.String
			}
			i = len(out)
			idx[attemptID] = i
			out = append(out, rec)
		}
		if answerID.Valid && questionID.Valid {
			a := AnswerRecord{
				ID:           answerID.Int64,
				QuestionID:   questionID.Int64,
				QuestionText: qText.String,
				QuestionType: QuestionType(qType.String),
			}
			if optionID.Valid {
				a.OptionID = &optionID.Int64
			}
			if optText.Valid {
				a.OptionText = &optText.String
			}
			if textAnswer.Valid {
				a.TextAnswer = &textAnswer.String
			}
			out[i].Answers = append(out[i].Answers, a)
		}
	}
	return out, rows.Err()
}
