package attempt

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tixomirkin/one-test/internal/form"
)

// Submission is the wire payload of one form submission:
// { "questions": [ { "id": 1, "answer": "text" | 2 | [1,3] } ] }.
type Submission struct {
	Questions []SubmittedQuestion `json:"questions"`
}

type SubmittedQuestion struct {
	ID     int64       `json:"id"`
	Answer AnswerValue `json:"answer"`
}

type answerShape int

const (
	shapeNone answerShape = iota
	shapeText
	shapeNumber
	shapeList
)

// AnswerValue accepts the three JSON shapes an answer may take. The shape is
// recorded here once; interpretation against the question type happens in
// Resolve.
type AnswerValue struct {
	shape  answerShape
	text   string
	number int64
	list   []int64
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		v.shape = shapeNone
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v.shape, v.text = shapeText, s
	case '[':
		var ids []int64
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}
		v.shape, v.list = shapeList, ids
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		id, err := n.Int64()
		if err != nil {
			return err
		}
		v.shape, v.number = shapeNumber, id
	}
	return nil
}

// Resolve interprets the raw answers against the form's question types,
// producing the tagged per-question answers used for grading and storage.
// Answers for unknown questions are dropped; shapes that do not fit the
// question's type count as unanswered.
func (s Submission) Resolve(questions []form.QuestionWithOptions) map[int64]form.SubmittedAnswer {
	types := make(map[int64]form.QuestionType, len(questions))
	for _, q := range questions {
		types[q.ID] = q.Type
	}

	out := make(map[int64]form.SubmittedAnswer, len(s.Questions))
	for _, sq := range s.Questions {
		qType, ok := types[sq.ID]
		if !ok {
			continue
		}
		ans := form.SubmittedAnswer{QuestionID: sq.ID}
		switch {
		case qType == form.QuestionSingle:
			if sq.Answer.shape == shapeNumber && sq.Answer.number > 0 {
				ans.Kind = form.AnswerOption
				ans.OptionID = sq.Answer.number
			}
		case qType == form.QuestionMultiple:
			if sq.Answer.shape == shapeList && len(sq.Answer.list) > 0 {
				ans.Kind = form.AnswerOptions
				ans.OptionIDs = sq.Answer.list
			}
		default: // text, textarea, date
			switch sq.Answer.shape {
			case shapeText:
				if strings.TrimSpace(sq.Answer.text) != "" {
					ans.Kind = form.AnswerText
					ans.Text = sq.Answer.text
				}
			case shapeNumber:
				ans.Kind = form.AnswerText
				ans.Text = strconv.FormatInt(sq.Answer.number, 10)
			}
		}
		if ans.Kind != form.AnswerNone {
			out[sq.ID] = ans
		}
	}
	return out
}
