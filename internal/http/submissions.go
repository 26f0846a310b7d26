package http

import (
	"context"
	stdhttp "net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"arcology/site/internal/consultation"
	"arcology/site/internal/content"
	"arcology/site/internal/forms"
	"arcology/site/internal/http/templates"
)

const (
	contactPath    = "/contact"
	schedulePath   = "/schedule"
	newsletterPath = "/newsletter"
	badFormMessage = "We couldn't read that form submission."
)

type formInput struct {
	RawBody []byte `contentType:"application/x-www-form-urlencoded"`
}

func (s *Server) registerFormRoutes() {
	huma.Get(s.api, contactPath, s.contactPageHandler, htmlOperation("Contact page"))
	huma.Post(s.api, contactPath, s.contactSubmitHandler, htmlOperation(
		"Submit contact form",
		stdhttp.StatusBadRequest,
		stdhttp.StatusUnprocessableEntity,
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, schedulePath, s.schedulePageHandler, htmlOperation("Schedule a consultation"))
	huma.Post(s.api, schedulePath, s.scheduleSubmitHandler, htmlOperation(
		"Submit consultation booking",
		stdhttp.StatusBadRequest,
		stdhttp.StatusUnprocessableEntity,
		stdhttp.StatusBadGateway,
		stdhttp.StatusServiceUnavailable,
		stdhttp.StatusInternalServerError,
	))
	huma.Post(s.api, newsletterPath, s.newsletterSubmitHandler, htmlOperation(
		"Subscribe to newsletter",
		stdhttp.StatusBadRequest,
		stdhttp.StatusConflict,
		stdhttp.StatusUnprocessableEntity,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) contactPageHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	return s.renderContact(ctx, stdhttp.StatusOK, templates.FormView{Action: contactPath})
}

func (s *Server) contactSubmitHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	values, err := formValues(input.RawBody)
	if err != nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, badFormMessage)
	}

	flow, err := forms.NewContactFlow(s.catalog)
	if err != nil {
		s.recordError(ctx, err, "creating contact flow", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	s.observeFlow(ctx, flow, "contact")

	flow.Edit(forms.ContactFromValues(values))
	submitErr := flow.Submit(ctx)
	status := s.submissionStatus(ctx, submitErr, "contact")

	view := formView(contactPath, flow, contactValues(flow.Values()))
	return s.renderContact(ctx, status, view)
}

func (s *Server) renderContact(ctx context.Context, status int, form templates.FormView) (*htmlResponse, error) {
	data := templates.ContactPageData{
		Theme: s.theme,
		Form:  templates.ContactFormData{Form: form},
	}

	state := s.query(ctx, content.KeyServices)
	if _, services, ok := resolveSection[[]content.Service](ctx, s, servicesSection, state, contactPath); ok {
		data.Form.Services = serviceOptions(services)
	}

	return s.renderPage(ctx, status, s.layout("Contact", contactPath, false), templates.ContactPage(data))
}

func (s *Server) schedulePageHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	return s.renderSchedule(ctx, stdhttp.StatusOK, templates.FormView{Action: schedulePath})
}

func (s *Server) scheduleSubmitHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	values, err := formValues(input.RawBody)
	if err != nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, badFormMessage)
	}

	flow, err := forms.NewScheduleFlow(s.booker, s.theme.TimeSlots)
	if err != nil {
		s.recordError(ctx, err, "creating schedule flow", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	s.observeFlow(ctx, flow, "schedule")

	flow.Edit(forms.ScheduleFromValues(values))
	submitErr := flow.Submit(ctx)
	status := s.submissionStatus(ctx, submitErr, "schedule")

	view := formView(schedulePath, flow, scheduleValues(flow.Values()))
	return s.renderSchedule(ctx, status, view)
}

func (s *Server) renderSchedule(ctx context.Context, status int, form templates.FormView) (*htmlResponse, error) {
	data := templates.SchedulePageData{
		Theme:     s.theme,
		Reasons:   s.reasons(),
		Form:      form,
		TimeSlots: s.theme.TimeSlots,
		MinDate:   s.now().Format(forms.DateLayout),
	}
	return s.renderPage(ctx, status, s.layout("Schedule a Consultation", schedulePath, false), templates.SchedulePage(data))
}

func (s *Server) newsletterSubmitHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	values, err := formValues(input.RawBody)
	if err != nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, badFormMessage)
	}
	returnTo := localPath(values.Get("return"))

	flow, err := forms.NewNewsletterFlow(s.catalog)
	if err != nil {
		s.recordError(ctx, err, "creating newsletter flow", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	s.observeFlow(ctx, flow, "newsletter")

	flow.Edit(forms.NewsletterFromValues(values))
	submitErr := flow.Submit(ctx)
	status := s.submissionStatus(ctx, submitErr, "newsletter")

	data := templates.NewsletterPageData{
		Form:     formView(newsletterPath, flow, map[string]string{"email": flow.Values().Email}),
		ReturnTo: returnTo,
	}
	return s.renderPage(ctx, status, s.layout("Newsletter", returnTo, false), templates.NewsletterPage(data))
}

// submissionStatus maps the outcome of Submit to the response status and records failures
// that visitors cannot fix themselves.
func (s *Server) submissionStatus(ctx context.Context, err error, form string) int {
	switch {
	case err == nil:
		return stdhttp.StatusOK
	case eris.Is(err, forms.ErrInvalid):
		return stdhttp.StatusUnprocessableEntity
	case isValidation(err):
		return stdhttp.StatusUnprocessableEntity
	case eris.Is(err, content.ErrAlreadySubscribed):
		return stdhttp.StatusConflict
	case eris.Is(err, consultation.ErrNotConfigured):
		return stdhttp.StatusServiceUnavailable
	case eris.Is(err, consultation.ErrRejected):
		return stdhttp.StatusBadGateway
	default:
		s.recordError(ctx, err, "form submission failed", logrus.Fields{"form": form})
		return stdhttp.StatusInternalServerError
	}
}

func isValidation(err error) bool {
	_, ok := forms.ExtractFieldErrors(err)
	return ok
}

func (s *Server) observeFlow(ctx context.Context, flow interface{ OnPhase(func(forms.Phase)) }, form string) {
	if s.logger == nil {
		return
	}
	entry := s.logger.WithFields(logrus.Fields{
		"component":  "http",
		"form":       form,
		"request_id": RequestIDFromContext(ctx),
	})
	flow.OnPhase(func(phase forms.Phase) {
		entry.WithField("phase", phase.String()).Debug("form phase changed")
	})
}

func formView[T any](action string, flow *forms.Flow[T], values map[string]string) templates.FormView {
	return templates.FormView{
		Action:  action,
		Phase:   flow.Phase(),
		Values:  values,
		Errors:  flow.FieldErrors(),
		Failure: flow.Failure(),
	}
}

func contactValues(in forms.ContactInput) map[string]string {
	return map[string]string{
		"name":    in.Name,
		"email":   in.Email,
		"phone":   in.Phone,
		"service": in.Service,
		"message": in.Message,
	}
}

func scheduleValues(in forms.ScheduleInput) map[string]string {
	return map[string]string{
		"name":           in.Name,
		"mobile":         in.Mobile,
		"email":          in.Email,
		"date":           in.Date,
		"time":           in.Time,
		"projectDetails": in.ProjectDetails,
	}
}

// formValues parses an urlencoded form body.
func formValues(body []byte) (url.Values, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, eris.Wrap(err, "parsing form body")
	}
	return values, nil
}
