// Package contact handles storefront contact form submissions.
package contact

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/resend/resend-go/v3"

	"github.com/maplewick/storefront/internal/commerce"
	"github.com/maplewick/storefront/internal/logging"
)

// ErrInvalidInput is returned when a submission fails validation.
var ErrInvalidInput = errors.New("contact: invalid submission")

// Input is a contact form submission from the storefront.
type Input struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Submitter is the slice of the commerce client the service needs.
type Submitter interface {
	SubmitContact(ctx context.Context, submission commerce.ContactSubmission) error
}

// Notifier sends the internal "new submission" email.
type Notifier interface {
	NotifySubmission(ctx context.Context, input Input) error
}

type Service struct {
	api      Submitter
	notifier Notifier
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(api Submitter, notifier Notifier, logger *slog.Logger) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("contact: submitter is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		api:      api,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger.With("component", "contact"),
	}, nil
}

// Submit validates the form, forwards it upstream, and notifies staff. The
// notification is best effort and never fails the submission.
func (s *Service) Submit(ctx context.Context, input Input) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)

	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err := s.api.SubmitContact(ctx, commerce.ContactSubmission{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	})
	if err != nil {
		return fmt.Errorf("contact: forwarding submission: %w", err)
	}

	if s.notifier != nil {
		if notifyErr := s.notifier.NotifySubmission(ctx, input); notifyErr != nil {
			logging.FromContext(ctx, s.logger).Error("contact notification failed", "error", notifyErr)
		}
	}

	return nil
}

// ResendNotifier emails new submissions to the shop inbox via Resend.
type ResendNotifier struct {
	client    *resend.Client
	from      string
	recipient string
}

func NewResendNotifier(apiKey, from, recipient string) (*ResendNotifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("contact: resend API key is required")
	}
	if from == "" || recipient == "" {
		return nil, fmt.Errorf("contact: notification sender and recipient are required")
	}

	return &ResendNotifier{
		client:    resend.NewClient(apiKey),
		from:      from,
		recipient: recipient,
	}, nil
}

func (n *ResendNotifier) NotifySubmission(ctx context.Context, input Input) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.recipient},
		Subject: fmt.Sprintf("New contact submission: %s", input.Subject),
		Html:    submissionHTML(input),
		Text:    submissionText(input),
	}

	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("sending submission notification: %w", err)
	}
	return nil
}

func submissionHTML(input Input) string {
	var b strings.Builder
	b.WriteString("<h2>New contact submission</h2>")
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(input.Name), html.EscapeString(input.Email))
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(input.Subject))
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(input.Message))
	return b.String()
}

func submissionText(input Input) string {
	return fmt.Sprintf("New contact submission\n\nFrom: %s <%s>\nSubject: %s\n\n%s\n",
		input.Name, input.Email, input.Subject, input.Message)
}
