package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"arcology/site/internal/forms"
)

type fieldDef struct {
	id          string
	name        string
	label       string
	kind        string
	placeholder string
	required    bool
}

func (f FormView) value(name string) string {
	if f.Values == nil {
		return ""
	}
	return f.Values[name]
}

func (f FormView) fieldError(name string) string {
	if f.Errors == nil {
		return ""
	}
	return f.Errors[name]
}

func openForm(m *markup, form FormView, class, busyLabel string) {
	m.raw(`<form method="post" novalidate`)
	m.attr("action", form.Action)
	m.attr("class", "form "+class)
	m.attr("data-busy-label", busyLabel)
	m.attr("data-phase", form.Phase.String())
	m.raw(">")
	if form.Failure != "" {
		m.raw(`<div class="form-failure" role="alert">`)
		m.text(form.Failure)
		m.raw("</div>")
	}
}

func (field fieldDef) elementID() string {
	if field.id != "" {
		return field.id
	}
	return field.name
}

func fieldLabel(m *markup, field fieldDef) {
	m.raw("<label")
	m.attr("for", field.elementID())
	m.raw(">")
	m.text(field.label)
	m.raw("</label>")
}

func fieldAttrs(m *markup, form FormView, field fieldDef) {
	m.attr("id", field.elementID())
	m.attr("name", field.name)
	if field.placeholder != "" {
		m.attr("placeholder", field.placeholder)
	}
	if field.required {
		m.raw(" required")
	}
	if form.fieldError(field.name) != "" {
		m.raw(` aria-invalid="true"`)
	}
}

func fieldMessage(m *markup, form FormView, name string) {
	if message := form.fieldError(name); message != "" {
		m.raw(`<p class="field-error"`)
		m.attr("data-field", name)
		m.raw(">")
		m.text(message)
		m.raw("</p>")
	}
}

func input(m *markup, form FormView, field fieldDef) {
	m.raw(`<div class="field">`)
	fieldLabel(m, field)
	m.raw("<input")
	m.attr("type", field.kind)
	fieldAttrs(m, form, field)
	m.attr("value", form.value(field.name))
	m.raw(">")
	fieldMessage(m, form, field.name)
	m.raw("</div>")
}

func textarea(m *markup, form FormView, field fieldDef) {
	m.raw(`<div class="field">`)
	fieldLabel(m, field)
	m.raw(`<textarea rows="5"`)
	fieldAttrs(m, form, field)
	m.raw(">")
	m.text(form.value(field.name))
	m.raw("</textarea>")
	fieldMessage(m, form, field.name)
	m.raw("</div>")
}

func selectField(m *markup, form FormView, field fieldDef, prompt string, options []Option) {
	m.raw(`<div class="field">`)
	fieldLabel(m, field)
	m.raw("<select")
	fieldAttrs(m, form, field)
	m.raw(`><option value="">`)
	m.text(prompt)
	m.raw("</option>")
	current := form.value(field.name)
	for _, option := range options {
		m.raw("<option")
		m.attr("value", option.Value)
		if option.Value == current {
			m.raw(" selected")
		}
		m.raw(">")
		m.text(option.Label)
		m.raw("</option>")
	}
	m.raw("</select>")
	fieldMessage(m, form, field.name)
	m.raw("</div>")
}

// submitButton is disabled with a busy label while the form is submitting.
func submitButton(m *markup, form FormView, label, busyLabel string) {
	if form.Phase == forms.PhaseSubmitting {
		m.raw(`<button type="submit" class="button button-primary" disabled aria-busy="true">`)
		m.text(busyLabel)
		m.raw("</button>")
		return
	}
	m.raw(`<button type="submit" class="button button-primary">`)
	m.text(label)
	m.raw("</button>")
}

func confirmation(m *markup, class, title, message string, again Link) {
	m.raw(`<div role="status"`)
	m.attr("class", "form-success "+class)
	m.raw(`><i class="bx bx-check-circle"></i>`)
	m.heading(3, "", title)
	m.paragraph("", message)
	m.link("button button-outline", again)
	m.raw("</div>")
}

// ContactForm draws the contact form, or its confirmation once submitted.
func ContactForm(data ContactFormData) templ.Component {
	return component(func(m *markup) {
		form := data.Form
		if form.Phase == forms.PhaseSubmitted {
			confirmation(m, "contact-success", "Message sent!",
				"Thank you for contacting us. We'll get back to you shortly.",
				Link{Href: form.Action, Label: "Send another message"})
			return
		}

		openForm(m, form, "contact-form", "Sending...")
		input(m, form, fieldDef{name: "name", label: "Your Name", kind: "text", placeholder: "John Doe", required: true})
		input(m, form, fieldDef{name: "email", label: "Email Address", kind: "email", placeholder: "john@example.com", required: true})
		input(m, form, fieldDef{name: "phone", label: "Phone Number", kind: "tel", placeholder: "(123) 456-7890"})
		selectField(m, form, fieldDef{name: "service", label: "Service Interested In"}, "Select a service", data.Services)
		textarea(m, form, fieldDef{name: "message", label: "Message", placeholder: "Tell us about your project...", required: true})
		submitButton(m, form, "Send Message", "Sending...")
		m.raw("</form>")
	})
}

// ScheduleForm draws the consultation booking form, or its confirmation.
func ScheduleForm(form FormView, slots []string, minDate string) templ.Component {
	return component(func(m *markup) {
		if form.Phase == forms.PhaseSubmitted {
			confirmation(m, "schedule-success", "Consultation scheduled!",
				"We've received your request and will confirm your appointment shortly.",
				Link{Href: form.Action, Label: "Book another consultation"})
			return
		}

		options := make([]Option, 0, len(slots))
		for _, slot := range slots {
			options = append(options, Option{Value: slot, Label: slot})
		}

		openForm(m, form, "schedule-form", "Scheduling...")
		input(m, form, fieldDef{name: "name", label: "Full Name", kind: "text", required: true})
		input(m, form, fieldDef{name: "mobile", label: "Mobile Number", kind: "tel", required: true})
		input(m, form, fieldDef{name: "email", label: "Email Address", kind: "email", required: true})

		m.raw(`<div class="field">`)
		fieldLabel(m, fieldDef{name: "date", label: "Preferred Date"})
		m.raw(`<input type="date"`)
		fieldAttrs(m, form, fieldDef{name: "date", required: true})
		if minDate != "" {
			m.attr("min", minDate)
		}
		m.attr("value", form.value("date"))
		m.raw(">")
		fieldMessage(m, form, "date")
		m.raw("</div>")

		selectField(m, form, fieldDef{name: "time", label: "Preferred Time", required: true}, "Select a time slot", options)
		textarea(m, form, fieldDef{name: "projectDetails", label: "Project Details", placeholder: "Tell us about your project..."})
		submitButton(m, form, "Schedule Consultation", "Scheduling...")
		m.raw("</form>")
	})
}

// NewsletterForm draws the sign-up form. returnTo is the page the visitor came from.
func NewsletterForm(form FormView, returnTo string) templ.Component {
	return component(func(m *markup) {
		if form.Phase == forms.PhaseSubmitted {
			back := returnTo
			if back == "" {
				back = "/"
			}
			confirmation(m, "newsletter-success", "Thank you for subscribing!",
				"You'll receive our latest news and design insights.",
				Link{Href: back, Label: "Continue browsing"})
			return
		}

		openForm(m, form, "newsletter-form", "Subscribing...")
		m.raw(`<input type="hidden" name="return"`)
		m.attr("value", returnTo)
		m.raw(">")
		input(m, form, fieldDef{id: "newsletter-email", name: "email", label: "Email Address", kind: "email", placeholder: "you@example.com", required: true})
		submitButton(m, form, "Subscribe", "Subscribing...")
		m.raw("</form>")
	})
}

// PopupDelayMillis is how long the home page waits before offering the newsletter popup.
const PopupDelayMillis = 5000

// NewsletterPopup is the newsletter offer site.js reveals after PopupDelayMillis. It stays
// hidden without scripts; the footer form covers that case.
func NewsletterPopup(returnTo string) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="popup-overlay" id="newsletter-popup" hidden`)
		m.attr("data-popup-delay", strconv.Itoa(PopupDelayMillis))
		m.raw(`><div class="popup" role="dialog" aria-modal="true" aria-labelledby="newsletter-popup-title">`)
		m.raw(`<button type="button" class="popup-close" data-popup-close aria-label="Close popup"><i class="bx bx-x"></i></button>`)
		m.raw(`<div class="popup-heading"><span class="eyebrow">Special Offer</span>`)
		m.raw(`<h3 id="newsletter-popup-title">Free Initial Consultation</h3></div>`)
		m.paragraph("", "Sign up for our newsletter and receive a complimentary 30-minute consultation for your project.")

		form := FormView{Action: "/newsletter"}
		openForm(m, form, "newsletter-form popup-form", "Subscribing...")
		m.raw(`<input type="hidden" name="return"`)
		m.attr("value", returnTo)
		m.raw(">")
		input(m, form, fieldDef{id: "popup-email", name: "email", label: "Email Address", kind: "email", placeholder: "Your Email Address", required: true})
		submitButton(m, form, "Subscribe Now", "Subscribing...")
		m.raw("</form>")

		m.paragraph("popup-fineprint", "By subscribing, you agree to our Privacy Policy and Terms of Service.")
		m.raw("</div></div>")
	})
}
