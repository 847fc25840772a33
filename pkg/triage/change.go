package triage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

type ChangeKind string

const (
	ChangeStatus    ChangeKind = "status"
	ChangeHighlight ChangeKind = "highlight"
)

// Change is one batched write: a list of photo ids and the value the
// server should store for them. Exactly one of Status or Highlight is
// meaningful, selected by Kind.
type Change struct {
	GalleryID string
	Kind      ChangeKind
	IDs       []string
	Status    ReviewStatus
	Highlight bool
}

func (c Change) String() string {
	switch c.Kind {
	case ChangeHighlight:
		return fmt.Sprintf("highlight=%t on %d photo(s)", c.Highlight, len(c.IDs))
	default:
		return fmt.Sprintf("status=%s on %d photo(s)", c.Status, len(c.IDs))
	}
}

// Persister writes a Change to the server. Implementations must treat
// a Change as idempotent.
type Persister interface {
	Persist(ctx context.Context, change Change) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, change Change) error

func (f PersisterFunc) Persist(ctx context.Context, change Change) error {
	return f(ctx, change)
}

// PartialWriteError reports a Change the persister split into several
// requests where only some of them were committed. Applied lists the ids
// the server did store.
type PartialWriteError struct {
	Applied []string
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("saved %d photo(s) before failing: %v", len(e.Applied), e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// Failure records a batch that could not be written after retries.
type Failure struct {
	Change     Change
	Err        error
	At         time.Time
	RolledBack int // photos restored to their previous value
}

func (f Failure) Message() string {
	return fmt.Sprintf("Could not save %s: %v", f.Change, f.Err)
}

// IsRetryable reports whether a persistence error is worth retrying.
// Errors may opt in or out by implementing Retryable() bool.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"timeout", "connection refused", "connection reset", "temporary failure"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
