package notify

import "context"

// OutcomeKind classifies the result of a single send attempt. The sender
// reports what happened; the worker loop owns what to do about it, so the
// retry policy stays data, not control flow inside the sender.
type OutcomeKind int

const (
	// OutcomeDelivered: the relay accepted the message.
	OutcomeDelivered OutcomeKind = iota

	// OutcomeDrop: permanent failure (invalid recipient). Never retried,
	// never escalated.
	OutcomeDrop

	// OutcomeFatal: authentication failure against the relay. Retrying
	// with bad credentials cannot succeed, so the job fails immediately.
	OutcomeFatal

	// OutcomeRetry: transient failure (dial, disconnect, data transfer,
	// or anything unclassified). Eligible for backoff retry.
	OutcomeRetry
)

// String returns the outcome kind's log-friendly name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeDrop:
		return "drop"
	case OutcomeFatal:
		return "fatal"
	case OutcomeRetry:
		return "retry"
	}
	return "unknown"
}

// Outcome is the explicit result of one send attempt.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

// Delivered reports a successful send.
func Delivered() Outcome {
	return Outcome{Kind: OutcomeDelivered}
}

// Drop reports a permanent, non-retryable failure.
func Drop(err error) Outcome {
	return Outcome{Kind: OutcomeDrop, Err: err}
}

// Fatal reports a terminal failure that retries cannot fix.
func Fatal(err error) Outcome {
	return Outcome{Kind: OutcomeFatal, Err: err}
}

// Transient reports a failure worth retrying.
func Transient(err error) Outcome {
	return Outcome{Kind: OutcomeRetry, Err: err}
}

// Sender performs a single delivery attempt. Implementations never retry;
// they only classify what happened.
type Sender interface {
	Send(ctx context.Context, job Job) Outcome
}
