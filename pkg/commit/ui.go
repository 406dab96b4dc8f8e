package commit

// UI receives commit progress. Calls happen on the committing goroutine,
// in order.
type UI interface {
	Started(StartedEvent)
	RowCommitted(RowCommittedEvent)
	Finished(FinishedEvent)
}

type StartedEvent struct {
	Session string
	Total   int
}

type RowCommittedEvent struct {
	Outcome   Outcome
	Completed int
	Total     int

	// Progress is the completion percentage after this row.
	Progress int
}

type FinishedEvent struct {
	Result *BatchResult
	Err    error
}

type nopUI struct{}

func (nopUI) Started(StartedEvent)           {}
func (nopUI) RowCommitted(RowCommittedEvent) {}
func (nopUI) Finished(FinishedEvent)         {}
