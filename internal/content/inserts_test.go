package content

import (
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func TestInsertServiceRejectsInvalidSlug(t *testing.T) {
	t.Parallel()

	err := InsertService{Title: "Design", Description: "d", Icon: "bx-bulb", Slug: "Not A Slug"}.Validate()
	assertFieldError(t, err, "slug")
}

func TestInsertTestimonialRatingRange(t *testing.T) {
	t.Parallel()

	base := InsertTestimonial{Name: "A", Role: "Owner", Content: "Great", ImageURL: "https://example.com/a.jpg"}
	for rating := 0; rating <= MaxRating; rating++ {
		in := base
		in.Rating = rating
		if err := in.Validate(); err != nil {
			t.Fatalf("rating %d should be valid: %v", rating, err)
		}
	}

	in := base
	in.Rating = MaxRating + 1
	assertFieldError(t, in.Validate(), "rating")
}

func TestInsertBlogRecordNormalises(t *testing.T) {
	t.Parallel()

	published := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	in := InsertBlog{
		Title:         " Light ",
		Excerpt:       "e",
		Content:       "c",
		ImageURL:      "https://example.com/b.jpg",
		Category:      " Sustainability ",
		Slug:          "light",
		PublishedDate: published,
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	record := in.Record()
	if record.Title != "Light" || record.Category != "sustainability" {
		t.Fatalf("unexpected record: %#v", record)
	}
	if record.PublishedDate.Location() != time.UTC {
		t.Fatalf("expected UTC publish date, got %s", record.PublishedDate.Location())
	}
}

func TestInsertNewsletterValidatesEmail(t *testing.T) {
	t.Parallel()

	assertFieldError(t, InsertNewsletter{Email: "not-an-email"}.Validate(), "email")

	if err := (InsertNewsletter{Email: "reader@example.com"}).Validate(); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}
}

func TestInsertUserRequiresLongPassword(t *testing.T) {
	t.Parallel()

	assertFieldError(t, InsertUser{Username: "admin", Password: "short"}.Validate(), "password")
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()

	var fieldErrors validation.Errors
	if !errors.As(err, &fieldErrors) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	if _, ok := fieldErrors[field]; !ok {
		t.Fatalf("expected %s field error, got %v", field, fieldErrors)
	}
}
