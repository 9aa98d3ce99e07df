// Package attempt orchestrates form submissions: authorize, grade quiz
// forms, persist the attempt atomically. Every rejection (missing form,
// denied access, validation failure, storage error) produces the same
// negative outcome so callers cannot probe for a form's existence.
package attempt

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/tixomirkin/one-test/internal/access"
	"github.com/tixomirkin/one-test/internal/form"
	"github.com/tixomirkin/one-test/internal/grading"
	"github.com/tixomirkin/one-test/internal/metrics"
	syncx "github.com/tixomirkin/one-test/internal/sync"
)

// Outcome is the submission response: OK false for any rejection, Result set
// only for quiz-mode forms.
type Outcome struct {
	OK             bool                `json:"ok"`
	Result         *grading.TestResult `json:"result,omitempty"`
	SuccessMessage string              `json:"success_message,omitempty"`
}

var rejected = Outcome{}

type Recorder struct {
	store    form.Store
	resolver *access.Resolver
	grader   *grading.Engine
	events   *syncx.EventRepo // optional
	metrics  *metrics.Metrics // optional
	log      *logrus.Logger
	siteID   string
}

func NewRecorder(store form.Store, resolver *access.Resolver, grader *grading.Engine, log *logrus.Logger) *Recorder {
	if log == nil {
		log = logrus.New()
	}
	return &Recorder{store: store, resolver: resolver, grader: grader, log: log, siteID: "local"}
}

// WithEvents enables append-only event logging of accepted submissions.
func (r *Recorder) WithEvents(events *syncx.EventRepo, siteID string) *Recorder {
	r.events = events
	if siteID != "" {
		r.siteID = siteID
	}
	return r
}

func (r *Recorder) WithMetrics(m *metrics.Metrics) *Recorder {
	r.metrics = m
	return r
}

// SubmitBySlug resolves the public identifier and submits. An unknown slug
// is a plain rejection.
func (r *Recorder) SubmitBySlug(ctx context.Context, slug string, userID int64, sub Submission) Outcome {
	f, err := r.store.GetFormBySlug(ctx, slug)
	if err != nil {
		return r.reject(userID, 0, "form not found")
	}
	return r.Submit(ctx, f.ID, userID, sub)
}

// Submit runs the submission state machine, terminal on first failure:
// lookup, authorize, grade (quiz only), persist atomically, respond.
func (r *Recorder) Submit(ctx context.Context, formID, userID int64, sub Submission) Outcome {
	f, err := r.store.GetForm(ctx, formID)
	if err != nil {
		return r.reject(userID, formID, "form not found")
	}

	// Public visibility and role access are independent gates, ORed here.
	// Anonymous callers are evaluated against visibility alone.
	if !f.IsPublic && !r.resolver.CanTakeForm(ctx, userID, f.ID) {
		return r.reject(userID, f.ID, "no access")
	}

	full, err := r.store.FullForm(ctx, f.ID)
	if err != nil {
		return r.reject(userID, f.ID, "load questions")
	}
	answers := sub.Resolve(full.Questions)

	for _, q := range full.Questions {
		if q.Required {
			if _, ok := answers[q.ID]; !ok {
				return r.reject(userID, f.ID, "required question unanswered")
			}
		}
	}

	// Grade against the freshly-read definitions, never client-supplied data.
	var result *grading.TestResult
	if f.IsTest {
		res := r.grader.Grade(full.Questions, answers)
		result = &res
	}

	ordered := make([]form.SubmittedAnswer, 0, len(answers))
	for _, sq := range sub.Questions {
		if a, ok := answers[sq.ID]; ok {
			ordered = append(ordered, a)
		}
	}
	attemptID, err := r.store.InsertAttempt(ctx, f.ID, userID, ordered)
	if err != nil {
		r.log.WithError(err).WithField("form_id", f.ID).Error("attempt insert failed")
		return r.reject(userID, f.ID, "persist")
	}

	if r.events != nil {
		body := map[string]any{"form_id": f.ID, "user_id": userID}
		if result != nil {
			body["correct"] = result.CorrectAnswers
			body["total"] = result.TotalQuestions
		}
		data, _ := json.Marshal(body)
		if err := r.events.Append(ctx, syncx.Event{
			SiteID:   r.siteID,
			Type:     "attempt.submitted",
			Key:      strconv.FormatInt(attemptID, 10),
			DataJSON: string(data),
		}); err != nil {
			r.log.WithError(err).Warn("event append failed")
		}
	}
	if r.metrics != nil {
		r.metrics.AttemptsRecorded.WithLabelValues("accepted").Inc()
	}
	r.log.WithFields(logrus.Fields{
		"form_id":    f.ID,
		"attempt_id": attemptID,
		"user_id":    userID,
		"is_test":    f.IsTest,
	}).Info("attempt recorded")

	return Outcome{OK: true, Result: result, SuccessMessage: f.SuccessMessage}
}

// reject is the uniform negative outcome. The reason stays in the logs only.
func (r *Recorder) reject(userID, formID int64, reason string) Outcome {
	if r.metrics != nil {
		r.metrics.AttemptsRecorded.WithLabelValues("rejected").Inc()
	}
	r.log.WithFields(logrus.Fields{
		"form_id": formID,
		"user_id": userID,
		"reason":  reason,
	}).Debug("submission rejected")
	return rejected
}
