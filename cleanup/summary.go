package cleanup

import (
	"errors"
	"fmt"

	"github.com/toothbrush/confluence-pmc-data/confluence"
)

// Outcome is the terminal state of one item in a batch.
type Outcome int8

const (
	Purged       Outcome = iota // trashed, then purged from the trash
	Deleted                     // comments: deleted, nothing to purge
	PurgeFailed                 // trashed, but the purge failed
	DeleteFailed                // nothing happened
)

func (o Outcome) String() string {
	switch o {
	case Purged:
		return "deleted-and-purged"
	case Deleted:
		return "deleted-only"
	case PurgeFailed:
		return "purge-failed"
	default:
		return "failed"
	}
}

type Phase int8

const (
	TrashPhase Phase = iota
	PurgePhase
)

func (p Phase) String() string {
	if p == PurgePhase {
		return "purge"
	}
	return "delete"
}

// Failure describes one failed DELETE.
type Failure struct {
	ID         string
	Phase      Phase
	StatusCode int
	Body       string
	Err        error
}

func newFailure(id string, phase Phase, err error) Failure {
	f := Failure{ID: id, Phase: phase, Err: err}

	var statusErr *confluence.StatusError
	if errors.As(err, &statusErr) {
		f.StatusCode = statusErr.StatusCode
		f.Body = statusErr.Body
	}

	return f
}

func (f Failure) describe() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("Response code:[%d], response text:[%s]", f.StatusCode, f.Body)
	}
	return fmt.Sprintf("Error: %v", f.Err)
}

func (f Failure) String() string {
	return fmt.Sprintf("%s %s: %s", f.Phase, f.ID, f.describe())
}

type itemResult struct {
	id      string
	outcome Outcome
	failure *Failure
}

// Summary is what one batch did.
type Summary struct {
	ContentType confluence.ContentType
	CQL         string
	DryRun      bool

	Found        int // ids handed to the pool
	Acknowledged int // ids the pool finished with, whatever the outcome
	Deleted      int // ids that are gone from the space (trashed or hard-deleted)
	Purged       int // ids that were also purged from the trash

	Failures []Failure
}

func (s *Summary) record(r itemResult) {
	s.Acknowledged++

	switch r.outcome {
	case Purged:
		s.Deleted++
		s.Purged++
	case Deleted, PurgeFailed:
		s.Deleted++
	}

	if r.failure != nil {
		s.Failures = append(s.Failures, *r.failure)
	}
}

func (s Summary) String() string {
	if s.DryRun {
		return fmt.Sprintf("%ss: found %d (dry run, nothing deleted)", s.ContentType, s.Found)
	}
	return fmt.Sprintf("%ss: found %d, deleted %d, purged %d, failed %d",
		s.ContentType, s.Found, s.Deleted, s.Purged, len(s.Failures))
}
