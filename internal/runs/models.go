package runs

import "time"

// Status represents the lifecycle of a pipeline run.
type Status string

const (
	StatusPending       Status = "pending"
	StatusNormalizing   Status = "normalizing"
	StatusTranscribing  Status = "transcribing"
	StatusDetecting     Status = "detecting"
	StatusSynchronizing Status = "synchronizing"
	StatusRendering     Status = "rendering"
	StatusCompleted     Status = "completed"
	StatusFailed        Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusNormalizing,
	StatusTranscribing,
	StatusDetecting,
	StatusSynchronizing,
	StatusRendering,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Valid reports whether the status is one the journal recognizes.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// Terminal reports whether a run in this status will not advance further.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run represents one pipeline invocation persisted in SQLite.
type Run struct {
	ID             string
	SourcePath     string
	OutputPath     string
	Status         Status
	ErrorMessage   string
	NarrationCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
