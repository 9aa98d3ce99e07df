// Package grading decides answer correctness for quiz-mode forms. Grading is
// a pure function over the form's stored questions and the normalized
// submitted answers; it performs no I/O and keeps no state.
package grading

import (
	"sort"
	"strings"

	"github.com/tixomirkin/one-test/internal/form"
)

// TestResult is the aggregate outcome of grading one submission.
type TestResult struct {
	TotalQuestions   int              `json:"totalQuestions"`
	CorrectAnswers   int              `json:"correctAnswers"`
	IncorrectAnswers int              `json:"incorrectAnswers"`
	Questions        []QuestionResult `json:"questions"`
}

// QuestionResult reports one question's grading. UserAnswer and
// CorrectAnswer carry the same shape as the submitted answer (scalar for
// single/text, list for multiple) for display purposes.
type QuestionResult struct {
	QuestionID    int64  `json:"questionId"`
	QuestionText  string `json:"questionText"`
	IsCorrect     bool   `json:"isCorrect"`
	UserAnswer    any    `json:"userAnswer"`
	CorrectAnswer any    `json:"correctAnswer"`
}

// Strategy grades a single question.
type Strategy interface {
	Grade(q form.QuestionWithOptions, ans form.SubmittedAnswer, answered bool) QuestionResult
}

// Engine routes each question to the Strategy for its type.
type Engine struct {
	strategies map[form.QuestionType]Strategy
}

func NewEngine() *Engine {
	text := textMatchStrategy{}
	return &Engine{strategies: map[form.QuestionType]Strategy{
		form.QuestionSingle:   singleChoiceStrategy{},
		form.QuestionMultiple: multiChoiceStrategy{},
		form.QuestionText:     text,
		form.QuestionTextarea: text,
		form.QuestionDate:     text,
	}}
}

// Grade evaluates every question of the form in position order. Unanswered
// questions grade as incorrect and still contribute an entry, so the result
// always covers the whole form.
func (e *Engine) Grade(questions []form.QuestionWithOptions, answers map[int64]form.SubmittedAnswer) TestResult {
	res := TestResult{Questions: make([]QuestionResult, 0, len(questions))}
	for _, q := range questions {
		ans, answered := answers[q.ID]
		s, ok := e.strategies[q.Type]
		if !ok {
			s = textMatchStrategy{}
		}
		qr := s.Grade(q, ans, answered)
		qr.QuestionID = q.ID
		qr.QuestionText = q.Text
		res.Questions = append(res.Questions, qr)
		res.TotalQuestions++
		if qr.IsCorrect {
			res.CorrectAnswers++
		} else {
			res.IncorrectAnswers++
		}
	}
	return res
}

/* ---------------- strategies ---------------- */

type singleChoiceStrategy struct{}

// correct iff the submitted option id is one of the options flagged correct.
// The algorithm does not assume exactly one flagged option.
func (singleChoiceStrategy) Grade(q form.QuestionWithOptions, ans form.SubmittedAnswer, answered bool) QuestionResult {
	correct := correctOptionIDs(q.Options)
	qr := QuestionResult{CorrectAnswer: scalarOrList(correct)}
	if !answered || ans.Kind != form.AnswerOption {
		return qr
	}
	qr.UserAnswer = ans.OptionID
	for _, id := range correct {
		if id == ans.OptionID {
			qr.IsCorrect = true
			break
		}
	}
	return qr
}

type multiChoiceStrategy struct{}

// correct iff the sorted submitted set equals the sorted correct set.
func (multiChoiceStrategy) Grade(q form.QuestionWithOptions, ans form.SubmittedAnswer, answered bool) QuestionResult {
	correct := correctOptionIDs(q.Options)
	qr := QuestionResult{CorrectAnswer: correct}
	if !answered || ans.Kind != form.AnswerOptions {
		return qr
	}
	picked := sortedCopy(ans.OptionIDs)
	qr.UserAnswer = picked
	if len(picked) != len(correct) {
		return qr
	}
	for i := range picked {
		if picked[i] != correct[i] {
			return qr
		}
	}
	qr.IsCorrect = true
	return qr
}

type textMatchStrategy struct{}

// correct iff trimmed, case-insensitive equality with the stored answer.
// An empty stored answer never matches.
func (textMatchStrategy) Grade(q form.QuestionWithOptions, ans form.SubmittedAnswer, answered bool) QuestionResult {
	qr := QuestionResult{CorrectAnswer: q.CorrectAnswer}
	if !answered || ans.Kind != form.AnswerText {
		return qr
	}
	qr.UserAnswer = ans.Text
	key := strings.TrimSpace(q.CorrectAnswer)
	if key == "" {
		return qr
	}
	qr.IsCorrect = strings.EqualFold(strings.TrimSpace(ans.Text), key)
	return qr
}

/* ---------------- helpers ---------------- */

func correctOptionIDs(opts []form.Option) []int64 {
	ids := []int64{}
	for _, o := range opts {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedCopy(ids []int64) []int64 {
	out := append([]int64(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func scalarOrList(ids []int64) any {
	if len(ids) == 1 {
		return ids[0]
	}
	return ids
}
