package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier delivers messages through the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
}

// NewResendNotifier describes the newresendnotifier operation and its observable behavior.
//
// NewResendNotifier may return an error when input validation, dependency calls, or security checks fail.
// NewResendNotifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewResendNotifier(apiKey, from string) (*ResendNotifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key required")
	}
	if from == "" {
		return nil, fmt.Errorf("resend from address required")
	}

	return &ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

// Send describes the send operation and its observable behavior.
//
// Send may return an error when input validation, dependency calls, or security checks fail.
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (n *ResendNotifier) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
	}
	if msg.HTML {
		params.Html = msg.Body
	} else {
		params.Text = msg.Body
	}

	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
