package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"arcology/site/internal/content"
	"arcology/site/internal/fetch"
	"arcology/site/internal/http/templates"
	"arcology/site/internal/listing"
	"arcology/site/internal/site"
)

const homeBlogCount = 3

type listingInput struct {
	Category string `query:"category" maxLength:"100"`
	Search   string `query:"search" maxLength:"200"`
}

type listingPage[T listing.Refinable] struct {
	section    sectionConfig
	path       string
	heading    string
	intro      string
	categories bool
	search     bool
	cards      func([]T) templ.Component
}

type detailPage[T any] struct {
	section sectionConfig
	key     func(slug string) string
	back    templates.Link
	title   func(T) string
	body    func(context.Context, T) (templ.Component, error)
}

func (s *Server) registerPageRoutes() {
	huma.Get(s.api, "/", s.homeHandler, htmlOperation("Arcology home", stdhttp.StatusInternalServerError))
	huma.Get(s.api, "/about", s.aboutHandler, htmlOperation("About the firm"))

	huma.Get(s.api, "/services", s.servicesHandler, htmlOperation("Services"))
	huma.Get(s.api, "/services/{slug}", s.serviceHandler, htmlOperation("Service detail", stdhttp.StatusNotFound))
	huma.Get(s.api, "/projects", s.projectsHandler, htmlOperation("Projects"))
	huma.Get(s.api, "/projects/{slug}", s.projectHandler, htmlOperation("Project detail", stdhttp.StatusNotFound))
	huma.Get(s.api, "/blog", s.blogsHandler, htmlOperation("Blog"))
	huma.Get(s.api, "/blog/{slug}", s.blogHandler, htmlOperation("Blog post", stdhttp.StatusNotFound))
	huma.Get(s.api, "/testimonials", s.testimonialsHandler, htmlOperation("Testimonials"))
	huma.Get(s.api, "/faq", s.faqHandler, htmlOperation("Frequently asked questions"))

	huma.Post(s.api, templates.RetryPath, s.retryHandler, htmlOperation("Retry a failed section", stdhttp.StatusSeeOther, stdhttp.StatusBadRequest))
}

func (s *Server) homeHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	states := s.queryAll(ctx, content.KeyServices, content.KeyProjects, content.KeyTestimonials, content.KeyFaqs, content.KeyBlogs)

	servicesView, services, servicesOK := resolveSection[[]content.Service](ctx, s, servicesSection, states[0], "/")
	projectsView, projects, _ := resolveSection[[]content.Project](ctx, s, projectsSection, states[1], "/")
	testimonialsView, testimonials, _ := resolveSection[[]content.Testimonial](ctx, s, testimonialsSection, states[2], "/")
	faqsView, faqs, _ := resolveSection[[]content.Faq](ctx, s, faqsSection, states[3], "/")
	blogsView, blogs, _ := resolveSection[[]content.Blog](ctx, s, blogsSection, states[4], "/")

	servicesView.Empty, servicesView.ResetPath = len(services) == 0, "/services"
	projectsView.Empty, projectsView.ResetPath = len(projects) == 0, "/projects"
	projectsView.More = &templates.Link{Href: "/projects", Label: "View All Projects"}
	testimonialsView.Empty, testimonialsView.ResetPath = len(testimonials) == 0, "/testimonials"
	faqsView.Empty, faqsView.ResetPath = len(faqs) == 0, "/faq"
	blogsView.Empty, blogsView.ResetPath = len(blogs) == 0, "/blog"
	blogsView.More = &templates.Link{Href: "/blog", Label: "Read Our Blog"}

	if featured := s.theme.FeaturedProjects; featured > 0 && len(projects) > featured {
		projects = projects[:featured]
	}
	if len(blogs) > homeBlogCount {
		blogs = blogs[:homeBlogCount]
	}

	contact := templates.ContactFormData{Form: templates.FormView{Action: "/contact"}}
	if servicesOK {
		contact.Services = serviceOptions(services)
	}

	data := templates.HomePageData{
		Theme:   s.theme,
		Reasons: s.reasons(),
		Sections: []templates.SectionBlock{
			{View: servicesView, Body: templates.ServiceGrid(s.serviceCards(services))},
			{View: projectsView, Body: templates.ProjectGrid(projectCards(projects))},
			{View: testimonialsView, Body: templates.TestimonialGrid(testimonialCards(testimonials))},
			{View: faqsView, Body: templates.FaqList(faqItems(faqs))},
			{View: blogsView, Body: templates.BlogGrid(blogCards(blogs))},
		},
		Contact: contact,
	}

	loading := anyLoading(servicesView, projectsView, testimonialsView, faqsView, blogsView)
	return s.renderPage(ctx, stdhttp.StatusOK, s.layout("", "/", loading), templates.HomePage(data))
}

func (s *Server) aboutHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	data := templates.AboutPageData{Theme: s.theme, Reasons: s.reasons()}
	return s.renderPage(ctx, stdhttp.StatusOK, s.layout("About", "/about", false), templates.AboutPage(data))
}

func (s *Server) servicesHandler(ctx context.Context, input *listingInput) (*htmlResponse, error) {
	return renderListing(ctx, s, listingPage[content.Service]{
		section: servicesSection,
		path:    "/services",
		heading: "Our Services",
		intro:   servicesSection.subtitle,
		search:  true,
		cards: func(items []content.Service) templ.Component {
			return templates.ServiceGrid(s.serviceCards(items))
		},
	}, filterFrom(input))
}

func (s *Server) projectsHandler(ctx context.Context, input *listingInput) (*htmlResponse, error) {
	return renderListing(ctx, s, listingPage[content.Project]{
		section:    projectsSection,
		path:       "/projects",
		heading:    "Our Projects",
		intro:      "Explore our portfolio of innovative architectural projects.",
		categories: true,
		search:     true,
		cards: func(items []content.Project) templ.Component {
			return templates.ProjectGrid(projectCards(items))
		},
	}, filterFrom(input))
}

func (s *Server) blogsHandler(ctx context.Context, input *listingInput) (*htmlResponse, error) {
	return renderListing(ctx, s, listingPage[content.Blog]{
		section:    blogsSection,
		path:       "/blog",
		heading:    "Our Blog",
		intro:      "Insights, news and perspectives from our architects.",
		categories: true,
		search:     true,
		cards: func(items []content.Blog) templ.Component {
			return templates.BlogGrid(blogCards(items))
		},
	}, filterFrom(input))
}

func (s *Server) testimonialsHandler(ctx context.Context, input *listingInput) (*htmlResponse, error) {
	return renderListing(ctx, s, listingPage[content.Testimonial]{
		section: testimonialsSection,
		path:    "/testimonials",
		heading: "Client Testimonials",
		intro:   testimonialsSection.subtitle,
		cards: func(items []content.Testimonial) templ.Component {
			return templates.TestimonialGrid(testimonialCards(items))
		},
	}, filterFrom(input))
}

func (s *Server) faqHandler(ctx context.Context, input *listingInput) (*htmlResponse, error) {
	return renderListing(ctx, s, listingPage[content.Faq]{
		section: faqsSection,
		path:    "/faq",
		heading: "Frequently Asked Questions",
		intro:   faqsSection.subtitle,
		search:  true,
		cards: func(items []content.Faq) templ.Component {
			return templates.FaqList(faqItems(items))
		},
	}, filterFrom(input))
}

func filterFrom(input *listingInput) listing.Filter {
	return listing.Filter{Category: input.Category, Search: input.Search}.Normalize()
}

func renderListing[T listing.Refinable](ctx context.Context, s *Server, page listingPage[T], filter listing.Filter) (*htmlResponse, error) {
	returnTo := withQuery(page.path, filter.Query())
	view, items, ok := resolveSection[[]T](ctx, s, page.section, s.query(ctx, page.section.key), returnTo)
	view.Title, view.Subtitle = "", ""

	data := templates.ListingPageData{
		Heading: page.heading,
		Intro:   page.intro,
		Section: templates.SectionBlock{View: view},
	}

	if ok {
		refined := listing.Refine(items, filter)
		data.Section.View.Empty = len(refined) == 0
		data.Section.View.ResetPath = withQuery(page.path, filter.Reset().Query())
		data.Section.Body = page.cards(refined)

		if page.categories || page.search {
			filterView := &templates.FilterView{
				Action:     page.path,
				Category:   filter.Category,
				Search:     filter.Search,
				ShowSearch: page.search,
			}
			if page.categories {
				for _, category := range listing.Categories(items) {
					filterView.Categories = append(filterView.Categories, templates.CategoryOption{
						Label:  listing.Label(category),
						Href:   withQuery(page.path, filter.WithCategory(category).Query()),
						Active: category == filter.Category,
					})
				}
			}
			data.Filter = filterView
		}
	}

	layout := s.layout(page.heading, page.path, view.Status == templates.SectionLoading)
	return s.renderPage(ctx, stdhttp.StatusOK, layout, templates.ListingPage(data))
}

func (s *Server) serviceHandler(ctx context.Context, input *slugInput) (*htmlResponse, error) {
	return renderDetail(ctx, s, detailPage[content.Service]{
		section: sectionConfig{id: "service", noun: "service", skeletons: 1},
		key:     content.ServiceKey,
		back:    templates.Link{Href: "/services", Label: "All services"},
		title:   func(service content.Service) string { return service.Title },
		body: func(_ context.Context, service content.Service) (templ.Component, error) {
			return templates.ServiceDetailView(templates.ServiceDetail{
				Icon:        site.ResolveIcon(s.logger, service.Icon),
				Title:       service.Title,
				Description: service.Description,
			}), nil
		},
	}, input.Slug)
}

func (s *Server) projectHandler(ctx context.Context, input *slugInput) (*htmlResponse, error) {
	return renderDetail(ctx, s, detailPage[content.Project]{
		section: sectionConfig{id: "project", noun: "project", skeletons: 1},
		key:     content.ProjectKey,
		back:    templates.Link{Href: "/projects", Label: "All projects"},
		title:   func(project content.Project) string { return project.Title },
		body: func(_ context.Context, project content.Project) (templ.Component, error) {
			return templates.ProjectDetailView(templates.ProjectDetail{
				Title:         project.Title,
				Description:   project.Description,
				ImageURL:      project.ImageURL,
				CategoryLabel: listing.Label(project.Category),
			}), nil
		},
	}, input.Slug)
}

func (s *Server) blogHandler(ctx context.Context, input *slugInput) (*htmlResponse, error) {
	return renderDetail(ctx, s, detailPage[content.Blog]{
		section: sectionConfig{id: "post", noun: "blog post", skeletons: 1},
		key:     content.BlogKey,
		back:    templates.Link{Href: "/blog", Label: "All articles"},
		title:   func(blog content.Blog) string { return blog.Title },
		body: func(_ context.Context, blog content.Blog) (templ.Component, error) {
			html, err := content.RenderMarkdown(blog.Content)
			if err != nil {
				return nil, err
			}
			return templates.BlogDetailView(templates.BlogDetail{
				Title:          blog.Title,
				ImageURL:       blog.ImageURL,
				CategoryLabel:  listing.Label(blog.Category),
				PublishedLabel: blog.PublishedDate.Format(publishedLayout),
				ReadingMinutes: content.ReadingMinutes(html),
				HTML:           html,
			}), nil
		},
	}, input.Slug)
}

func renderDetail[T any](ctx context.Context, s *Server, page detailPage[T], slug string) (*htmlResponse, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, notFoundMessage)
	}

	escaped := url.PathEscape(slug)
	page.section.key = page.key(escaped)
	path := page.back.Href + "/" + escaped
	state := s.query(ctx, page.section.key)
	if state.Status == fetch.StatusError && isNotFound(state.Err) {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, notFoundMessage)
	}

	view, item, ok := resolveSection[T](ctx, s, page.section, state, path)
	data := templates.DetailPageData{Section: templates.SectionBlock{View: view}, Back: page.back}

	title := ""
	if ok {
		body, err := page.body(ctx, item)
		if err != nil {
			s.recordError(ctx, err, "rendering detail body", logrus.Fields{"key": page.section.key})
			data.Section.View.Status = templates.SectionFailed
		} else {
			data.Section.Body = body
			title = page.title(item)
		}
	}

	layout := s.layout(title, path, view.Status == templates.SectionLoading)
	return s.renderPage(ctx, stdhttp.StatusOK, layout, templates.DetailPage(data))
}

func isNotFound(err error) bool {
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) && fetchErr.NotFound() {
		return true
	}
	return errors.Is(err, content.ErrNotFound)
}

type retryInput struct {
	RawBody []byte `contentType:"application/x-www-form-urlencoded"`
}

// retryHandler drops the cached failure of a section, starts its reload and sends the
// visitor back to the page that showed it.
func (s *Server) retryHandler(ctx context.Context, input *retryInput) (*htmlResponse, error) {
	values, err := formValues(input.RawBody)
	if err != nil {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, badFormMessage)
	}

	key := strings.TrimSpace(values.Get("key"))
	if !content.IsResourceKey(key) {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, "That section cannot be reloaded.")
	}
	returnTo := localPath(values.Get("return"))

	// Only a failure the cache already holds is reloaded.
	if state, ok := s.fetch.Peek(key); !ok || state.Status != fetch.StatusError {
		return redirectResponse(stdhttp.StatusSeeOther, returnTo), nil
	}

	s.fetch.Invalidate(ctx, key)
	s.fetch.Prefetch(ctx, key)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"component":  "http",
			"key":        key,
			"request_id": RequestIDFromContext(ctx),
		}).Info("section retry requested")
	}

	return redirectResponse(stdhttp.StatusSeeOther, returnTo), nil
}

