package forms

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rotisserie/eris"
)

// Phase is the position of a form in its submission lifecycle.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "editing"
	}
}

// FailureMessage is shown when a submission fails without a more specific explanation.
const FailureMessage = "There was a problem sending your message. Please try again."

var (
	// ErrInvalid is returned by Submit when validation blocks the submission.
	ErrInvalid = eris.New("form input is invalid")
	// ErrNotEditing is returned by Submit outside the editing phase.
	ErrNotEditing = eris.New("form is not being edited")
)

// Submitter delivers validated values. It is called exactly once per accepted Submit.
type Submitter[T any] interface {
	Submit(ctx context.Context, values T) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc[T any] func(ctx context.Context, values T) error

func (f SubmitterFunc[T]) Submit(ctx context.Context, values T) error {
	return f(ctx, values)
}

// FieldErrors maps an input's JSON field name to its message.
type FieldErrors map[string]string

// userMessenger is implemented by errors whose text may be shown to visitors.
type userMessenger interface {
	UserMessage() string
}

// Flow drives one form from editing to submitted. A failed submission returns to editing
// with the values kept.
type Flow[T any] struct {
	validate  func(T) error
	submitter Submitter[T]
	observe   func(Phase)
	// fallback replaces FailureMessage when set.
	fallback string

	phase   Phase
	values  T
	errors  FieldErrors
	failure string
}

// NewFlow starts a flow in the editing phase with zero values.
func NewFlow[T any](validate func(T) error, submitter Submitter[T]) (*Flow[T], error) {
	if validate == nil {
		return nil, eris.New("form validator is required")
	}
	if submitter == nil {
		return nil, eris.New("form submitter is required")
	}
	return &Flow[T]{validate: validate, submitter: submitter}, nil
}

// OnPhase registers fn to be called on every phase change.
func (f *Flow[T]) OnPhase(fn func(Phase)) {
	f.observe = fn
}

func (f *Flow[T]) Phase() Phase             { return f.phase }
func (f *Flow[T]) Values() T                { return f.values }
func (f *Flow[T]) FieldErrors() FieldErrors { return f.errors }
func (f *Flow[T]) Failure() string          { return f.failure }

// Edit replaces the values. It is ignored outside the editing phase.
func (f *Flow[T]) Edit(values T) {
	if f.phase != PhaseEditing {
		return
	}
	f.values = values
}

// Submit validates the values and, when they pass, hands them to the submitter once.
func (f *Flow[T]) Submit(ctx context.Context) error {
	if f.phase != PhaseEditing {
		return ErrNotEditing
	}

	f.failure = ""
	f.errors = nil
	if err := f.validate(f.values); err != nil {
		fieldErrors, ok := ExtractFieldErrors(err)
		if !ok {
			return eris.Wrap(err, "validating form")
		}
		f.errors = fieldErrors
		return ErrInvalid
	}

	f.setPhase(PhaseSubmitting)

	if err := f.submitter.Submit(ctx, f.values); err != nil {
		f.failure = f.failureMessage(err)
		if fieldErrors, ok := ExtractFieldErrors(err); ok {
			f.errors = fieldErrors
		}
		f.setPhase(PhaseEditing)
		return err
	}

	var zero T
	f.values = zero
	f.setPhase(PhaseSubmitted)
	return nil
}

// Reset returns a submitted form to editing with empty values.
func (f *Flow[T]) Reset() {
	var zero T
	f.values = zero
	f.errors = nil
	f.failure = ""
	if f.phase != PhaseEditing {
		f.setPhase(PhaseEditing)
	}
}

func (f *Flow[T]) setPhase(phase Phase) {
	f.phase = phase
	if f.observe != nil {
		f.observe(phase)
	}
}

// ExtractFieldErrors flattens ozzo validation errors into per-field messages.
func ExtractFieldErrors(err error) (FieldErrors, bool) {
	var validationErrors validation.Errors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	fieldErrors := make(FieldErrors, len(validationErrors))
	for field, fieldErr := range validationErrors {
		if fieldErr == nil {
			continue
		}
		fieldErrors[field] = fieldErr.Error()
	}
	return fieldErrors, len(fieldErrors) > 0
}

func (f *Flow[T]) failureMessage(err error) string {
	var messenger userMessenger
	if errors.As(err, &messenger) {
		if message := messenger.UserMessage(); message != "" {
			return message
		}
	}
	if f.fallback != "" {
		return f.fallback
	}
	return FailureMessage
}
