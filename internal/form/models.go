package form

// QuestionType is the answer-field type of a question.
type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionTextarea QuestionType = "textarea"
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
	QuestionDate     QuestionType = "date"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionTextarea, QuestionSingle, QuestionMultiple, QuestionDate:
		return true
	}
	return false
}

// HasOptions reports whether the type renders from an option list.
func (t QuestionType) HasOptions() bool {
	return t == QuestionSingle || t == QuestionMultiple
}

// Role controls what a user may do with a form. Owner is implicit from
// Form.OwnerID and never stored as a grant row.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleEditor      Role = "editor"
	RoleReader      Role = "reader"
	RoleParticipant Role = "participant"
	RoleNone        Role = ""
)

// Grantable reports whether the role may be stored in the access table.
func (r Role) Grantable() bool {
	return r == RoleEditor || r == RoleReader || r == RoleParticipant
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    int64  `json:"created_at"`
}

// UserInfo is the public projection of a user (access lists, search).
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Form struct {
	ID             int64  `json:"id"`
	OwnerID        int64  `json:"owner_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	IsTest         bool   `json:"is_test"`
	IsPublic       bool   `json:"is_public"`
	Slug           string `json:"slug"`
	SuccessMessage string `json:"success_message,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

type Question struct {
	ID            int64        `json:"id"`
	TestID        int64        `json:"test_id"`
	Text          string       `json:"question_text"`
	Type          QuestionType `json:"question_type"`
	Required      bool         `json:"required"`
	Position      int          `json:"position"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	CreatedAt     int64        `json:"created_at"`
}

type Option struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"option_text"`
	Position   int    `json:"position"`
	IsCorrect  bool   `json:"is_correct"`
	CreatedAt  int64  `json:"created_at"`
}

type QuestionWithOptions struct {
	Question
	Options []Option `json:"options,omitempty"`
}

// FullForm is a form with its ordered questions and options.
type FullForm struct {
	Form
	Questions []QuestionWithOptions `json:"questions"`
}

// StripAnswerKeys clears correct answers and option flags before a form is
// served to a taker.
func (f *FullForm) StripAnswerKeys() {
	for i := range f.Questions {
		f.Questions[i].CorrectAnswer = ""
		for j := range f.Questions[i].Options {
			f.Questions[i].Options[j].IsCorrect = false
		}
	}
}

// FormSummary is a dashboard row: form fields plus counts and the viewer's
// role on it.
type FormSummary struct {
	Form
	QuestionCount int64 `json:"question_count"`
	AttemptCount  int64 `json:"attempt_count"`
	Role          Role  `json:"role"`
}

// Grant is one access row joined with its user.
type Grant struct {
	ID        int64    `json:"id"`
	UserID    int64    `json:"user_id"`
	TestID    int64    `json:"test_id"`
	Role      Role     `json:"role"`
	CreatedAt int64    `json:"created_at"`
	User      UserInfo `json:"user"`
}

// AnswerKind tags the shape of a submitted answer. The shape is decided once
// against the owning question's type, not re-inspected per consumer.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerText
	AnswerOption
	AnswerOptions
)

// SubmittedAnswer is one normalized answer of a submission.
type SubmittedAnswer struct {
	QuestionID int64
	Kind       AnswerKind
	Text       string
	OptionID   int64
	OptionIDs  []int64
}

// AnswerRecord is one stored answer row rendered for results views.
type AnswerRecord struct {
	ID           int64        `json:"id"`
	QuestionID   int64        `json:"question_id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	OptionID     *int64       `json:"option_id,omitempty"`
	OptionText   *string      `json:"option_text,omitempty"`
	TextAnswer   *string      `json:"text_answer,omitempty"`
}

// AttemptRecord is one attempt with its answers, for results views.
type AttemptRecord struct {
	ID        int64          `json:"id"`
	UserID    *int64         `json:"user_id,omitempty"`
	Username  *string        `json:"username,omitempty"`
	CreatedAt int64          `json:"created_at"`
	Answers   []AnswerRecord `json:"answers"`
}

// FormResults is the results payload for one form.
type FormResults struct {
	FormID   int64           `json:"form_id"`
	Title    string          `json:"title"`
	Attempts []AttemptRecord `json:"attempts"`
}
