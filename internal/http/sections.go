package http

import (
	"context"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"arcology/site/internal/content"
	"arcology/site/internal/fetch"
	"arcology/site/internal/http/templates"
	"arcology/site/internal/listing"
	"arcology/site/internal/site"
)

const (
	defaultSkeletons      = 6
	faqSkeletons          = 5
	loadingRefreshSeconds = 2
	publishedLayout       = "January 2, 2006"
)

type sectionConfig struct {
	id        string
	title     string
	subtitle  string
	noun      string
	key       string
	skeletons int
}

var (
	servicesSection = sectionConfig{
		id: "services", title: "Our Services", noun: "services", key: content.KeyServices, skeletons: defaultSkeletons,
		subtitle: "Comprehensive architectural services from concept to completion.",
	}
	projectsSection = sectionConfig{
		id: "projects", title: "Featured Projects", noun: "projects", key: content.KeyProjects, skeletons: defaultSkeletons,
		subtitle: "A selection of our work across residential, commercial and public spaces.",
	}
	testimonialsSection = sectionConfig{
		id: "testimonials", title: "What Our Clients Say", noun: "testimonials", key: content.KeyTestimonials, skeletons: defaultSkeletons,
		subtitle: "Hear from the people we've designed for.",
	}
	faqsSection = sectionConfig{
		id: "faq", title: "Frequently Asked Questions", noun: "FAQs", key: content.KeyFaqs, skeletons: faqSkeletons,
		subtitle: "Answers to the questions we hear most.",
	}
	blogsSection = sectionConfig{
		id: "blog", title: "Latest Insights", noun: "blog posts", key: content.KeyBlogs, skeletons: defaultSkeletons,
		subtitle: "Ideas and news from our studio.",
	}
)

// query waits at most the render budget for key to resolve.
func (s *Server) query(ctx context.Context, key string) fetch.State {
	if s.renderWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.renderWait)
		defer cancel()
	}
	return s.fetch.Query(ctx, key)
}

// queryAll resolves keys concurrently; states are returned in key order.
func (s *Server) queryAll(ctx context.Context, keys ...string) []fetch.State {
	states := make([]fetch.State, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			states[i] = s.query(gctx, key)
			return nil
		})
	}
	_ = g.Wait()
	return states
}

// resolveSection maps a cache state onto a section view and decodes the payload once the
// key has loaded.
func resolveSection[T any](ctx context.Context, s *Server, section sectionConfig, state fetch.State, returnTo string) (templates.SectionView, T, bool) {
	view := templates.SectionView{
		ID:        section.id,
		Title:     section.title,
		Subtitle:  section.subtitle,
		Noun:      section.noun,
		Skeletons: section.skeletons,
		Key:       section.key,
		ReturnTo:  returnTo,
	}

	var zero T
	switch state.Status {
	case fetch.StatusLoading:
		view.Status = templates.SectionLoading
		return view, zero, false
	case fetch.StatusError:
		view.Status = templates.SectionFailed
		return view, zero, false
	}

	value, err := fetch.Decode[T](state)
	if err != nil {
		s.recordError(ctx, err, "decoding section payload", logrus.Fields{"key": section.key})
		view.Status = templates.SectionFailed
		return view, zero, false
	}

	view.Status = templates.SectionReady
	return view, value, true
}

func anyLoading(views ...templates.SectionView) bool {
	for _, view := range views {
		if view.Status == templates.SectionLoading {
			return true
		}
	}
	return false
}

func (s *Server) serviceCards(services []content.Service) []templates.ServiceCard {
	cards := make([]templates.ServiceCard, 0, len(services))
	for _, service := range services {
		cards = append(cards, templates.ServiceCard{
			Icon:        site.ResolveIcon(s.logger, service.Icon),
			Title:       service.Title,
			Description: service.Description,
			Href:        "/services/" + url.PathEscape(service.Slug),
		})
	}
	return cards
}

func projectCards(projects []content.Project) []templates.ProjectCard {
	cards := make([]templates.ProjectCard, 0, len(projects))
	for _, project := range projects {
		cards = append(cards, templates.ProjectCard{
			Title:         project.Title,
			Description:   project.Description,
			ImageURL:      project.ImageURL,
			CategoryLabel: listing.Label(project.Category),
			Href:          "/projects/" + url.PathEscape(project.Slug),
		})
	}
	return cards
}

func testimonialCards(testimonials []content.Testimonial) []templates.TestimonialCard {
	cards := make([]templates.TestimonialCard, 0, len(testimonials))
	for _, testimonial := range testimonials {
		filled, remainder := site.Stars(testimonial.Rating)
		cards = append(cards, templates.TestimonialCard{
			Name:      testimonial.Name,
			Role:      testimonial.Role,
			Content:   testimonial.Content,
			ImageURL:  testimonial.ImageURL,
			Filled:    filled,
			Remainder: remainder,
		})
	}
	return cards
}

func blogCards(blogs []content.Blog) []templates.BlogCard {
	cards := make([]templates.BlogCard, 0, len(blogs))
	for _, blog := range blogs {
		cards = append(cards, templates.BlogCard{
			Title:          blog.Title,
			Excerpt:        blog.Excerpt,
			ImageURL:       blog.ImageURL,
			CategoryLabel:  listing.Label(blog.Category),
			PublishedLabel: blog.PublishedDate.Format(publishedLayout),
			Href:           "/blog/" + url.PathEscape(blog.Slug),
		})
	}
	return cards
}

func faqItems(faqs []content.Faq) []templates.FaqItem {
	items := make([]templates.FaqItem, 0, len(faqs))
	for _, faq := range faqs {
		items = append(items, templates.FaqItem{Question: faq.Question, Answer: faq.Answer})
	}
	return items
}

func (s *Server) reasons() []templates.FeatureView {
	features := make([]templates.FeatureView, 0, len(s.theme.Reasons))
	for _, reason := range s.theme.Reasons {
		features = append(features, templates.FeatureView{
			Icon:        site.ResolveIcon(s.logger, reason.Icon),
			Title:       reason.Title,
			Description: reason.Description,
		})
	}
	return features
}

func serviceOptions(services []content.Service) []templates.Option {
	options := make([]templates.Option, 0, len(services)+1)
	for _, service := range services {
		options = append(options, templates.Option{Value: service.Slug, Label: service.Title})
	}
	return append(options, templates.Option{Value: "other", Label: "Other"})
}

// withQuery appends the encoded query to path when it is not empty.
func withQuery(path string, values url.Values) string {
	if encoded := values.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}

// localPath accepts only same-site absolute paths and falls back to "/".
func localPath(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if !strings.HasPrefix(candidate, "/") || strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
		return "/"
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "/"
	}
	return candidate
}
