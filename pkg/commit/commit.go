// Package commit submits curated candidates to the registrar one at a time
// and records what happened to each.
package commit

import (
	"context"
	"errors"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/inbtp/appariteur/pkg/student"
)

// Error is the class of commit orchestration errors.
var Error = errs.Class("commit")

type Config struct {
	// Log is the logger for commit progress
	Log *zap.Logger

	// Creator submits each student
	Creator Creator

	// UI receives progress events. Optional.
	UI UI

	// Session identifies the import session in logs and the result.
	Session string

	// test hook used to control timestamps
	now func() time.Time
}

type Committer struct {
	log     *zap.Logger
	creator Creator
	ui      UI
	session string
	now     func() time.Time
}

func New(config Config) (*Committer, error) {
	switch {
	case config.Log == nil:
		return nil, errors.New("log is required")
	case config.Creator == nil:
		return nil, errors.New("creator is required")
	}
	if config.UI == nil {
		config.UI = nopUI{}
	}
	if config.now == nil {
		config.now = time.Now
	}
	return &Committer{
		log:     config.Log,
		creator: config.Creator,
		ui:      config.UI,
		session: config.Session,
		now:     config.now,
	}, nil
}

// Run submits candidates strictly in order, awaiting each submission before
// starting the next. Per-row failures are recorded and processing continues.
// If ctx ends, the remaining candidates are recorded as not attempted and
// the partial result is returned with ctx's error.
func (c *Committer) Run(ctx context.Context, candidates []student.Candidate) (*BatchResult, error) {
	q := NewQueue(c.session, candidates)
	q.now = c.now

	c.log.Info("Committing students",
		zap.String("session", c.session),
		zap.Int("total", len(candidates)),
	)
	c.ui.Started(StartedEvent{Session: c.session, Total: len(candidates)})

	var runErr error
	for !q.Done() {
		if err := ctx.Err(); err != nil {
			abandoned := q.Abandon()
			c.log.Error("Commit interrupted",
				zap.Int("not-attempted", len(abandoned)),
				zap.Error(err),
			)
			for _, o := range abandoned {
				c.ui.RowCommitted(RowCommittedEvent{
					Outcome:   o,
					Completed: q.Completed(),
					Total:     len(candidates),
					Progress:  Progress(q.Completed(), len(candidates)),
				})
			}
			runErr = Error.Wrap(err)
			break
		}

		outcome := q.Step(ctx, c.creator)
		progress := Progress(q.Completed(), len(candidates))
		if outcome.Success() {
			c.log.Info("Student created",
				zap.Uint64("temp-id", outcome.Candidate.TempID),
				zap.String("id", outcome.ID),
				zap.Int("progress", progress),
			)
		} else {
			c.log.Warn("Student creation failed",
				zap.Uint64("temp-id", outcome.Candidate.TempID),
				zap.Int("line", outcome.Candidate.Line),
				zap.String("error", outcome.Error),
				zap.Int("progress", progress),
			)
		}
		c.ui.RowCommitted(RowCommittedEvent{
			Outcome:   outcome,
			Completed: q.Completed(),
			Total:     len(candidates),
			Progress:  progress,
		})
	}

	result := q.Result()
	c.log.Info("Commit finished",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int("not-attempted", result.NotAttempted),
	)
	c.ui.Finished(FinishedEvent{Result: result, Err: runErr})
	return result, runErr
}
