package commit

import (
	"context"
	"time"

	"github.com/inbtp/appariteur/pkg/student"
)

// Creator submits one student to the registrar and returns its id.
type Creator interface {
	CreateStudent(ctx context.Context, req student.CreateRequest) (string, error)
}

type CreatorFunc func(ctx context.Context, req student.CreateRequest) (string, error)

func (fn CreatorFunc) CreateStudent(ctx context.Context, req student.CreateRequest) (string, error) {
	return fn(ctx, req)
}

// Queue is the bounded work list of one commit. Each Step submits exactly
// one candidate and records its outcome before the next may start.
type Queue struct {
	pending []student.Candidate
	result  BatchResult
	now     func() time.Time
}

// NewQueue snapshots candidates so later changes by the caller do not
// affect the commit.
func NewQueue(session string, candidates []student.Candidate) *Queue {
	pending := make([]student.Candidate, len(candidates))
	for i, c := range candidates {
		pending[i] = c.Clone()
	}
	return &Queue{
		pending: pending,
		result: BatchResult{
			Session:  session,
			Total:    len(candidates),
			Outcomes: make([]Outcome, 0, len(candidates)),
		},
		now: time.Now,
	}
}

// Len returns the number of candidates not yet processed.
func (q *Queue) Len() int { return len(q.pending) }

func (q *Queue) Done() bool { return len(q.pending) == 0 }

// Step submits the next candidate. A submission error is converted into a
// Failed outcome; it never stops the queue. Once the queue is done, Step
// submits nothing and returns a NotAttempted outcome without recording it.
func (q *Queue) Step(ctx context.Context, creator Creator) Outcome {
	if q.Done() {
		return Outcome{Status: NotAttempted}
	}
	if q.result.Started.IsZero() {
		q.result.Started = q.now()
	}

	c := q.pending[0]
	q.pending = q.pending[1:]

	outcome := Outcome{Candidate: c}
	id, err := creator.CreateStudent(ctx, c.Request())
	if err != nil {
		outcome.Status = Failed
		outcome.Error = err.Error()
		if outcome.Error == "" {
			outcome.Error = FallbackError
		}
	} else {
		outcome.Status = Created
		outcome.ID = id
	}
	q.result.record(outcome)
	return outcome
}

// Abandon records every remaining candidate as not attempted.
func (q *Queue) Abandon() []Outcome {
	outcomes := make([]Outcome, 0, len(q.pending))
	for _, c := range q.pending {
		o := Outcome{Candidate: c, Status: NotAttempted}
		q.result.record(o)
		outcomes = append(outcomes, o)
	}
	q.pending = nil
	return outcomes
}

// Completed returns the number of attempted candidates.
func (q *Queue) Completed() int { return q.result.Completed }

// Result finalizes and returns a copy of the batch result.
func (q *Queue) Result() *BatchResult {
	if q.result.Started.IsZero() {
		q.result.Started = q.now()
	}
	if q.result.Finished.IsZero() && q.Done() {
		q.result.Finished = q.now()
	}
	return q.result.clone()
}
