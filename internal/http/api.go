package http

import (
	"context"
	"maps"
	stdhttp "net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"arcology/site/internal/content"
	"arcology/site/internal/forms"
)

type slugInput struct {
	Slug string `path:"slug" maxLength:"255" doc:"URL slug of the record"`
}

type listOutput[T any] struct {
	Body []T
}

type detailOutput[T any] struct {
	Body *T
}

type contactInput struct {
	Body content.InsertContact
}

type contactOutput struct {
	Body struct {
		ID        uint      `json:"id"`
		CreatedAt time.Time `json:"createdAt"`
	}
}

type newsletterInput struct {
	Body content.InsertNewsletter
}

type newsletterOutput struct {
	Body *content.NewsletterSubscriber
}

func (s *Server) registerAPIRoutes() {
	huma.Get(s.api, content.KeyServices, listHandler(s, s.catalog.Services, "services"), apiOperation("List services"))
	huma.Get(s.api, content.KeyServices+"/{slug}", detailHandler(s, s.catalog.Service, "service"), apiOperation("Get service"))
	huma.Get(s.api, content.KeyProjects, listHandler(s, s.catalog.Projects, "projects"), apiOperation("List projects"))
	huma.Get(s.api, content.KeyProjects+"/{slug}", detailHandler(s, s.catalog.Project, "project"), apiOperation("Get project"))
	huma.Get(s.api, content.KeyTestimonials, listHandler(s, s.catalog.Testimonials, "testimonials"), apiOperation("List testimonials"))
	huma.Get(s.api, content.KeyBlogs, listHandler(s, s.catalog.Blogs, "blogs"), apiOperation("List blog posts, latest first"))
	huma.Get(s.api, content.KeyBlogs+"/{slug}", detailHandler(s, s.catalog.Blog, "blog post"), apiOperation("Get blog post"))
	huma.Get(s.api, content.KeyFaqs, listHandler(s, s.catalog.Faqs, "faqs"), apiOperation("List FAQs in display order"))

	huma.Post(s.api, "/api/contact", s.createContactHandler, apiOperation("Submit contact form", stdhttp.StatusCreated))
	huma.Post(s.api, "/api/newsletter", s.subscribeHandler, apiOperation("Subscribe to newsletter", stdhttp.StatusCreated))
}

func apiOperation(summary string, defaultStatus ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		op.Summary = summary
		op.Tags = []string{"api"}
		if len(defaultStatus) > 0 {
			op.DefaultStatus = defaultStatus[0]
		}
	}
}

func listHandler[T any](s *Server, list func(context.Context) ([]T, error), what string) func(context.Context, *struct{}) (*listOutput[T], error) {
	return func(ctx context.Context, _ *struct{}) (*listOutput[T], error) {
		items, err := list(ctx)
		if err != nil {
			s.recordError(ctx, err, "listing "+what, nil)
			return nil, huma.Error500InternalServerError("failed to load " + what)
		}
		return &listOutput[T]{Body: items}, nil
	}
}

func detailHandler[T any](s *Server, get func(context.Context, string) (*T, error), what string) func(context.Context, *slugInput) (*detailOutput[T], error) {
	return func(ctx context.Context, input *slugInput) (*detailOutput[T], error) {
		slug := strings.TrimSpace(input.Slug)
		item, err := get(ctx, slug)
		if err != nil {
			if eris.Is(err, content.ErrNotFound) {
				return nil, huma.Error404NotFound(what + " not found")
			}
			s.recordError(ctx, err, "retrieving "+what, logrus.Fields{"slug": slug})
			return nil, huma.Error500InternalServerError("failed to load " + what)
		}
		return &detailOutput[T]{Body: item}, nil
	}
}

func (s *Server) createContactHandler(ctx context.Context, input *contactInput) (*contactOutput, error) {
	contact, err := s.catalog.SubmitContact(ctx, input.Body)
	if err != nil {
		if problem := validationProblem(err); problem != nil {
			return nil, problem
		}
		s.recordError(ctx, err, "submitting contact", nil)
		return nil, huma.Error500InternalServerError("failed to store contact submission")
	}

	out := &contactOutput{}
	out.Body.ID = contact.ID
	out.Body.CreatedAt = contact.CreatedAt
	return out, nil
}

func (s *Server) subscribeHandler(ctx context.Context, input *newsletterInput) (*newsletterOutput, error) {
	subscriber, err := s.catalog.Subscribe(ctx, input.Body)
	if err != nil {
		if problem := validationProblem(err); problem != nil {
			return nil, problem
		}
		if eris.Is(err, content.ErrAlreadySubscribed) {
			return nil, huma.Error409Conflict("email already subscribed")
		}
		s.recordError(ctx, err, "subscribing to newsletter", nil)
		return nil, huma.Error500InternalServerError("failed to store newsletter subscription")
	}
	return &newsletterOutput{Body: subscriber}, nil
}

// validationProblem converts field validation errors into a 422 with one detail per field.
func validationProblem(err error) error {
	fieldErrors, ok := forms.ExtractFieldErrors(err)
	if !ok {
		return nil
	}

	details := make([]error, 0, len(fieldErrors))
	for _, field := range slices.Sorted(maps.Keys(fieldErrors)) {
		details = append(details, &huma.ErrorDetail{
			Location: "body." + field,
			Message:  fieldErrors[field],
		})
	}
	return huma.Error422UnprocessableEntity("validation failed", details...)
}
