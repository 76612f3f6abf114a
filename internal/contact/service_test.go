package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/maplewick/storefront/internal/commerce"
)

type fakeSubmitter struct {
	submissions []commerce.ContactSubmission
	err         error
}

func (f *fakeSubmitter) SubmitContact(ctx context.Context, submission commerce.ContactSubmission) error {
	f.submissions = append(f.submissions, submission)
	return f.err
}

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) NotifySubmission(ctx context.Context, input Input) error {
	f.calls++
	return f.err
}

func validInput() Input {
	return Input{
		Name:    "Dana Reeve",
		Email:   "dana@example.com",
		Subject: "Delivery question",
		Message: "When will my bookshelf arrive?",
	}
}

func TestSubmitForwardsAndNotifies(t *testing.T) {
	t.Parallel()

	api := &fakeSubmitter{}
	notifier := &fakeNotifier{}
	svc, err := NewService(api, notifier, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	if err := svc.Submit(context.Background(), validInput()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(api.submissions) != 1 {
		t.Fatalf("expected one forwarded submission, got %d", len(api.submissions))
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one notification, got %d", notifier.calls)
	}
}

func TestSubmitTrimsWhitespace(t *testing.T) {
	t.Parallel()

	api := &fakeSubmitter{}
	svc, err := NewService(api, nil, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	input := validInput()
	input.Name = "  Dana Reeve  "
	input.Email = " dana@example.com "

	if err := svc.Submit(context.Background(), input); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got := api.submissions[0].Name; got != "Dana Reeve" {
		t.Fatalf("Name = %q, want trimmed", got)
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing name", func(i *Input) { i.Name = "" }},
		{"bad email", func(i *Input) { i.Email = "not-an-email" }},
		{"missing subject", func(i *Input) { i.Subject = "  " }},
		{"missing message", func(i *Input) { i.Message = "" }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeSubmitter{}
			svc, err := NewService(api, nil, nil)
			if err != nil {
				t.Fatalf("NewService() error = %v", err)
			}

			input := validInput()
			tc.mutate(&input)

			if err := svc.Submit(context.Background(), input); err == nil {
				t.Fatalf("expected validation error")
			}
			if len(api.submissions) != 0 {
				t.Fatalf("invalid submission was forwarded")
			}
		})
	}
}

func TestSubmitUpstreamErrorPropagates(t *testing.T) {
	t.Parallel()

	api := &fakeSubmitter{err: &commerce.APIError{StatusCode: 503, Message: "unavailable"}}
	notifier := &fakeNotifier{}
	svc, err := NewService(api, notifier, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	if err := svc.Submit(context.Background(), validInput()); err == nil {
		t.Fatalf("expected error from upstream failure")
	}
	if notifier.calls != 0 {
		t.Fatalf("notification sent despite upstream failure")
	}
}

func TestNotifierFailureDoesNotFailSubmission(t *testing.T) {
	t.Parallel()

	api := &fakeSubmitter{}
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc, err := NewService(api, notifier, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	if err := svc.Submit(context.Background(), validInput()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}
