package commit

import (
	"math"
	"time"

	"github.com/inbtp/appariteur/pkg/student"
)

// FallbackError is recorded when a failed submission carries no message.
const FallbackError = "unknown error while creating the student"

type Status int

const (
	Created Status = iota
	Failed
	NotAttempted
	// StatusMax must remain at the end.
	StatusMax
)

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case Failed:
		return "failed"
	case NotAttempted:
		return "not-attempted"
	default:
		return "unknown"
	}
}

// Outcome is what happened to one selected candidate.
type Outcome struct {
	Candidate student.Candidate
	Status    Status

	// ID is the server-assigned identifier when Status is Created.
	ID string

	// Error is the failure message when Status is Failed.
	Error string
}

func (o Outcome) Success() bool { return o.Status == Created }

// BatchResult summarizes one commit. It is read-only once returned.
type BatchResult struct {
	Session  string
	Started  time.Time
	Finished time.Time

	Total        int
	Succeeded    int
	Failed       int
	NotAttempted int

	// Completed counts attempted rows, successful or not.
	Completed int

	// Outcomes are in the order the candidates were submitted.
	Outcomes []Outcome
}

// Progress returns the completion percentage.
func (r *BatchResult) Progress() int {
	return Progress(r.Completed, r.Total)
}

// Progress computes round(completed / total * 100). An empty batch is
// complete.
func Progress(completed, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func (r *BatchResult) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case Created:
		r.Succeeded++
		r.Completed++
	case Failed:
		r.Failed++
		r.Completed++
	case NotAttempted:
		r.NotAttempted++
	}
}

func (r *BatchResult) clone() *BatchResult {
	c := *r
	c.Outcomes = append([]Outcome(nil), r.Outcomes...)
	return &c
}
