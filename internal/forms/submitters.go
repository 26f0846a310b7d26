package forms

import (
	"context"

	"github.com/rotisserie/eris"

	"arcology/site/internal/consultation"
	"arcology/site/internal/content"
)

// Booker is the part of the consultation client the schedule form needs.
type Booker interface {
	Book(ctx context.Context, req consultation.Request) (*consultation.Response, error)
}

const (
	// NotConfiguredMessage is shown when bookings cannot be sent at all.
	NotConfiguredMessage = "Online scheduling is currently unavailable. Please call or email us to book a consultation."
	// SubscribeFailureMessage replaces FailureMessage on the newsletter form.
	SubscribeFailureMessage = "There was a problem subscribing. Please try again."
	// AlreadySubscribedMessage is shown for a sign-up the newsletter already holds.
	AlreadySubscribedMessage = "You're already subscribed."
)

// NewContactFlow wires the contact form to the catalog.
func NewContactFlow(catalog content.Catalog) (*Flow[ContactInput], error) {
	if catalog == nil {
		return nil, eris.New("content catalog is required")
	}
	return NewFlow(ContactInput.Validate, SubmitterFunc[ContactInput](func(ctx context.Context, in ContactInput) error {
		_, err := catalog.SubmitContact(ctx, in.Insert())
		return err
	}))
}

// NewNewsletterFlow wires the newsletter form to the catalog.
func NewNewsletterFlow(catalog content.Catalog) (*Flow[NewsletterInput], error) {
	if catalog == nil {
		return nil, eris.New("content catalog is required")
	}
	flow, err := NewFlow(NewsletterInput.Validate, SubmitterFunc[NewsletterInput](func(ctx context.Context, in NewsletterInput) error {
		_, err := catalog.Subscribe(ctx, content.InsertNewsletter{Email: in.Email})
		if eris.Is(err, content.ErrAlreadySubscribed) {
			return userFacingError{err: err, message: AlreadySubscribedMessage}
		}
		return err
	}))
	if err != nil {
		return nil, err
	}
	flow.fallback = SubscribeFailureMessage
	return flow, nil
}

// NewScheduleFlow wires the schedule form to the consultation service. Only the given
// time slots are accepted.
func NewScheduleFlow(booker Booker, slots []string) (*Flow[ScheduleInput], error) {
	if booker == nil {
		return nil, eris.New("consultation booker is required")
	}
	validate := func(in ScheduleInput) error { return in.Validate(slots) }
	return NewFlow(validate, SubmitterFunc[ScheduleInput](func(ctx context.Context, in ScheduleInput) error {
		_, err := booker.Book(ctx, consultation.Request{
			Name:           in.Name,
			Mobile:         in.Mobile,
			Email:          in.Email,
			Date:           in.Date,
			Time:           in.Time,
			ProjectDetails: in.ProjectDetails,
		})
		if eris.Is(err, consultation.ErrNotConfigured) {
			return userFacingError{err: err, message: NotConfiguredMessage}
		}
		return err
	}))
}

// userFacingError pairs a submitter failure with the text the form shows for it.
type userFacingError struct {
	err     error
	message string
}

func (e userFacingError) Error() string       { return e.err.Error() }
func (e userFacingError) Unwrap() error       { return e.err }
func (e userFacingError) UserMessage() string { return e.message }
