package form

import (
	"context"
	"sync"

	"github.com/goliatone/go-modalform/pkg/validation"
)

// Status is the final state of a submission.
type Status int

const (
	// StatusPending is reported until the submission settles.
	StatusPending Status = iota
	// StatusInvalid means at least one field failed validation.
	StatusInvalid
	// StatusConfigError means a field declares a validator that does not exist.
	StatusConfigError
	// StatusHandled means the local submit hook received the data.
	StatusHandled
	// StatusSuccess means the endpoint answered "success".
	StatusSuccess
	// StatusRejected means the endpoint answered with field errors.
	StatusRejected
	// StatusUnparseable means the endpoint answered something else.
	StatusUnparseable
	// StatusTransportError means the request failed.
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInvalid:
		return "invalid"
	case StatusConfigError:
		return "config-error"
	case StatusHandled:
		return "handled"
	case StatusSuccess:
		return "success"
	case StatusRejected:
		return "rejected"
	case StatusUnparseable:
		return "unparseable"
	case StatusTransportError:
		return "transport-error"
	default:
		return "status(?)"
	}
}

// Outcome describes a settled submission.
type Outcome struct {
	Status Status
	// Data is the payload that was collected, extra data included.
	Data map[string]any
	// FieldErrors holds the failing rule per field for Invalid and
	// ConfigError outcomes.
	FieldErrors map[string]validation.Kind
	// RemoteErrors holds the endpoint's error markers for Rejected.
	RemoteErrors map[string]any
	// Raw is the response body for Unparseable.
	Raw string
	// Err is the failure for TransportError.
	Err error
}

// Settled reports whether the outcome is final.
func (o Outcome) Settled() bool {
	return o.Status != StatusPending
}

// Submission tracks one submit cycle.
type Submission struct {
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	outcome Outcome
}

func newSubmission() *Submission {
	return &Submission{done: make(chan struct{})}
}

func (s *Submission) finish(outcome Outcome) {
	s.once.Do(func() {
		s.mu.Lock()
		s.outcome = outcome
		s.mu.Unlock()
		close(s.done)
	})
}

// Done is closed once the submission settles.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the submission settles or ctx ends.
func (s *Submission) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-s.done:
		return s.Outcome(), nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Outcome returns the current outcome; its status is StatusPending until the
// submission settles.
func (s *Submission) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}
