package droiderr

import (
	"errors"
)

// Kind classifies why part of the model could not be built.
type Kind int

const (
	// Missing is an id, include target or value reference that could not be resolved.
	Missing Kind = iota + 1
	// Malformed is an unparsable document or an unexpected node shape.
	Malformed
	// Conflict is a duplicate binding such as a second main activity.
	Conflict
	// Invariant is a violated structural assumption. It is the only Kind
	// that fails a build.
	Invariant
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Malformed:
		return "malformed"
	case Conflict:
		return "conflict"
	case Invariant:
		return "invariant"
	}

	return "unknown"
}

func New(err error, kind Kind) error {
	if err == nil {
		return nil
	}

	return &kindError{
		err:  err,
		kind: kind,
	}
}

type kindError struct {
	err  error
	kind Kind
}

func (e *kindError) Error() string {
	if e.err == nil {
		return ""
	}

	return e.err.Error()
}

func (e *kindError) Unwrap() error {
	return e.err
}

// KindOf returns the Kind attached to err, defaulting to Invariant
// for errors that were never classified.
func KindOf(err error) Kind {
	kerr := &kindError{}
	if errors.As(err, &kerr) {
		return kerr.kind
	}

	return Invariant
}

// IsFatal reports whether err should abort a build.
func IsFatal(err error) bool {
	return err != nil && KindOf(err) == Invariant
}
