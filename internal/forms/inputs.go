package forms

import (
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"arcology/site/internal/content"
)

// DateLayout is the wire format of a consultation date.
const DateLayout = "2006-01-02"

// ContactInput is the contact form.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// ContactFromValues reads the contact form fields from a posted form.
func ContactFromValues(values url.Values) ContactInput {
	return ContactInput{
		Name:    strings.TrimSpace(values.Get("name")),
		Email:   strings.TrimSpace(values.Get("email")),
		Phone:   strings.TrimSpace(values.Get("phone")),
		Service: strings.TrimSpace(values.Get("service")),
		Message: strings.TrimSpace(values.Get("message")),
	}
}

func (in ContactInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("Name must be at least 2 characters"),
			validation.RuneLength(2, 255).Error("Name must be at least 2 characters"),
		),
		validation.Field(&in.Email,
			validation.Required.Error("Please enter a valid email address"),
			is.EmailFormat.Error("Please enter a valid email address"),
		),
		validation.Field(&in.Phone, validation.RuneLength(0, 64)),
		validation.Field(&in.Message,
			validation.Required.Error("Message must be at least 10 characters"),
			validation.RuneLength(10, 5000).Error("Message must be at least 10 characters"),
		),
	)
}

// Insert converts the form into the stored contact shape.
func (in ContactInput) Insert() content.InsertContact {
	return content.InsertContact{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   optional(in.Phone),
		Service: optional(in.Service),
		Message: in.Message,
	}
}

// NewsletterInput is the footer sign-up form.
type NewsletterInput struct {
	Email string `json:"email"`
}

func NewsletterFromValues(values url.Values) NewsletterInput {
	return NewsletterInput{Email: strings.TrimSpace(values.Get("email"))}
}

func (in NewsletterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email,
			validation.Required.Error("Please enter a valid email address"),
			is.EmailFormat.Error("Please enter a valid email address"),
		),
	)
}

// ScheduleInput is the consultation booking form.
type ScheduleInput struct {
	Name           string `json:"name"`
	Mobile         string `json:"mobile"`
	Email          string `json:"email"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	ProjectDetails string `json:"projectDetails"`
}

func ScheduleFromValues(values url.Values) ScheduleInput {
	return ScheduleInput{
		Name:           strings.TrimSpace(values.Get("name")),
		Mobile:         strings.TrimSpace(values.Get("mobile")),
		Email:          strings.TrimSpace(values.Get("email")),
		Date:           strings.TrimSpace(values.Get("date")),
		Time:           strings.TrimSpace(values.Get("time")),
		ProjectDetails: strings.TrimSpace(values.Get("projectDetails")),
	}
}

// Validate checks the booking against the offered time slots.
func (in ScheduleInput) Validate(slots []string) error {
	allowed := make([]any, 0, len(slots))
	for _, slot := range slots {
		allowed = append(allowed, slot)
	}

	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required.Error("Please enter your name"), validation.RuneLength(2, 255)),
		validation.Field(&in.Mobile, validation.Required.Error("Please enter a mobile number"), validation.RuneLength(5, 32)),
		validation.Field(&in.Email,
			validation.Required.Error("Please enter a valid email address"),
			is.EmailFormat.Error("Please enter a valid email address"),
		),
		validation.Field(&in.Date,
			validation.Required.Error("Please choose a date"),
			validation.Date(DateLayout).Error("Please choose a valid date"),
		),
		validation.Field(&in.Time,
			validation.Required.Error("Please choose a time slot"),
			validation.In(allowed...).Error("Please choose one of the available time slots"),
		),
		validation.Field(&in.ProjectDetails, validation.RuneLength(0, 5000)),
	)
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
