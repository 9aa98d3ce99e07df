package attempt

import (
	"encoding/json"
	"testing"

	"github.com/tixomirkin/one-test/internal/form"
)

func testQuestions() []form.QuestionWithOptions {
	return []form.QuestionWithOptions{
		{Question: form.Question{ID: 1, Type: form.QuestionSingle}},
		{Question: form.Question{ID: 2, Type: form.QuestionMultiple}},
		{Question: form.Question{ID: 3, Type: form.QuestionText}},
	}
}

func decode(t *testing.T, raw string) Submission {
	t.Helper()
	var sub Submission
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return sub
}

func TestResolve_Shapes(t *testing.T) {
	sub := decode(t, `{"questions":[
		{"id":1,"answer":7},
		{"id":2,"answer":[3,1]},
		{"id":3,"answer":"hello"}
	]}`)
	got := sub.Resolve(testQuestions())
	if len(got) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(got))
	}
	if a := got[1]; a.Kind != form.AnswerOption || a.OptionID != 7 {
		t.Fatalf("single: %+v", a)
	}
	if a := got[2]; a.Kind != form.AnswerOptions || len(a.OptionIDs) != 2 {
		t.Fatalf("multiple: %+v", a)
	}
	if a := got[3]; a.Kind != form.AnswerText || a.Text != "hello" {
		t.Fatalf("text: %+v", a)
	}
}

func TestResolve_NumberCoercedForTextQuestion(t *testing.T) {
	sub := decode(t, `{"questions":[{"id":3,"answer":42}]}`)
	got := sub.Resolve(testQuestions())
	if a := got[3]; a.Kind != form.AnswerText || a.Text != "42" {
		t.Fatalf("number should coerce to text: %+v", a)
	}
}

func TestResolve_MismatchedShapesUnanswered(t *testing.T) {
	// A list against a single question, text against a multiple question and
	// blank text all count as unanswered.
	sub := decode(t, `{"questions":[
		{"id":1,"answer":[1,2]},
		{"id":2,"answer":"nope"},
		{"id":3,"answer":"   "}
	]}`)
	if got := sub.Resolve(testQuestions()); len(got) != 0 {
		t.Fatalf("expected no answers, got %v", got)
	}
}

func TestResolve_UnknownQuestionDropped(t *testing.T) {
	sub := decode(t, `{"questions":[{"id":99,"answer":"x"}]}`)
	if got := sub.Resolve(testQuestions()); len(got) != 0 {
		t.Fatalf("unknown question must be dropped, got %v", got)
	}
}

func TestAnswerValue_NullAndMissing(t *testing.T) {
	sub := decode(t, `{"questions":[{"id":3,"answer":null},{"id":1}]}`)
	if got := sub.Resolve(testQuestions()); len(got) != 0 {
		t.Fatalf("null/missing answers must resolve to nothing, got %v", got)
	}
}
