// Package contact runs the contact-form workflow: validate, record, relay
// once, and tell the visitor how it went.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/chaitanyauthale5/portfolio/internal/emailrelay"
)

var tracer = otel.Tracer("github.com/chaitanyauthale5/portfolio/internal/contact")

// ErrDuplicate is returned by Store.BeginSubmission when the form token was
// already used.
var ErrDuplicate = errors.New("submission already recorded")

// Form is what the visitor typed. Token identifies one rendering of the
// form so a double click cannot send twice.
type Form struct {
	Token   string `form:"token" json:"token"`
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Subject string `form:"subject" json:"subject"`
	Message string `form:"message" json:"message"`
}

// NewForm returns an empty form with a fresh token.
func NewForm() Form {
	return Form{Token: uuid.NewString()}
}

// Status is the outcome of a submission.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusFailed    Status = "failed"
	StatusInvalid   Status = "invalid"
	StatusDuplicate Status = "duplicate"
)

// Toast is the transient notification shown after submitting.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

var (
	toastSent = Toast{
		Title:       "Message sent!",
		Description: "Thank you for your message. I'll get back to you soon!",
	}
	toastFailed = Toast{
		Title:       "Error",
		Description: "Something went wrong. Please try again.",
		Variant:     "destructive",
	}
	toastInvalid = Toast{
		Title:       "Error",
		Description: "Please fill in every field.",
		Variant:     "destructive",
	}
	toastDuplicate = Toast{
		Title:       "Already sent",
		Description: "This message was already submitted.",
	}
)

// Result is what the page renders after a submission. Form holds the field
// values to show next: empty after success, preserved otherwise.
type Result struct {
	Status       Status            `json:"status"`
	SubmissionID string            `json:"submission_id,omitempty"`
	Form         Form              `json:"form"`
	Toast        Toast             `json:"toast"`
	FieldErrors  map[string]string `json:"field_errors,omitempty"`
}

// Submission is a recorded form post.
type Submission struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists submissions.
type Store interface {
	// BeginSubmission records a pending submission. It returns ErrDuplicate
	// when the token belongs to a pending or sent submission; a token whose
	// earlier send failed may be submitted again.
	BeginSubmission(ctx context.Context, sub Submission) error
	// CompleteSubmission stores the final status and relay error, if any.
	CompleteSubmission(ctx context.Context, id string, status Status, errText string) error
	// ListSubmissions returns the newest submissions first.
	ListSubmissions(ctx context.Context, limit int) ([]Submission, error)
}

// Service submits contact forms.
type Service struct {
	sender emailrelay.Sender
	store  Store
	now    func() time.Time
}

// NewService wires a relay and a store. store may be nil, in which case
// submissions are relayed but not recorded and tokens are not checked.
func NewService(sender emailrelay.Sender, store Store) *Service {
	return &Service{sender: sender, store: store, now: time.Now}
}

// Validate trims the fields and reports missing or malformed ones.
func Validate(f Form) (Form, map[string]string) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)

	errs := make(map[string]string)
	if f.Name == "" {
		errs["name"] = "Name is required."
	}
	if f.Email == "" {
		errs["email"] = "Email is required."
	} else if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
		errs["email"] = "Enter a valid email address."
	}
	if f.Subject == "" {
		errs["subject"] = "Subject is required."
	}
	if f.Message == "" {
		errs["message"] = "Message is required."
	}
	if len(errs) == 0 {
		return f, nil
	}
	return f, errs
}

// Submit validates the form and relays it once.
func (s *Service) Submit(ctx context.Context, f Form) Result {
	ctx, span := tracer.Start(ctx, "contact.submit")
	defer span.End()

	clean, fieldErrs := Validate(f)
	if fieldErrs != nil {
		span.SetAttributes(attribute.String("contact.status", string(StatusInvalid)))
		return Result{Status: StatusInvalid, Form: f, Toast: toastInvalid, FieldErrors: fieldErrs}
	}
	if clean.Token == "" {
		clean.Token = uuid.NewString()
	}

	now := s.now().UTC()
	sub := Submission{
		ID:        uuid.NewString(),
		Token:     clean.Token,
		Name:      clean.Name,
		Email:     clean.Email,
		Subject:   clean.Subject,
		Message:   clean.Message,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if s.store != nil {
		if err := s.store.BeginSubmission(ctx, sub); err != nil {
			if errors.Is(err, ErrDuplicate) {
				span.SetAttributes(attribute.String("contact.status", string(StatusDuplicate)))
				return Result{Status: StatusDuplicate, Form: NewForm(), Toast: toastDuplicate}
			}
			// Losing the audit row should not lose the message.
			log.Printf("Error recording contact submission: %v", err)
		}
	}

	sendErr := s.sender.Send(ctx, emailrelay.Message{
		Name:    clean.Name,
		Email:   clean.Email,
		Subject: clean.Subject,
		Message: clean.Message,
	})

	status, errText := StatusSent, ""
	if sendErr != nil {
		status, errText = StatusFailed, sendErr.Error()
		span.RecordError(sendErr)
	}
	span.SetAttributes(attribute.String("contact.status", string(status)))

	if s.store != nil {
		if err := s.store.CompleteSubmission(ctx, sub.ID, status, errText); err != nil {
			log.Printf("Error updating contact submission %s: %v", sub.ID, err)
		}
	}

	if sendErr != nil {
		log.Printf("Error sending contact message %s: %v", sub.ID, sendErr)
		preserved := f
		preserved.Token = uuid.NewString()
		return Result{Status: StatusFailed, SubmissionID: sub.ID, Form: preserved, Toast: toastFailed}
	}

	log.Printf("Contact message %s sent from %s", sub.ID, clean.Email)
	return Result{Status: StatusSent, SubmissionID: sub.ID, Form: NewForm(), Toast: toastSent}
}

// Recent lists the newest submissions for the admin dashboard.
func (s *Service) Recent(ctx context.Context, limit int) ([]Submission, error) {
	if s.store == nil {
		return nil, nil
	}
	subs, err := s.store.ListSubmissions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}
