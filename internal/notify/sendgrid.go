package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const alertSubject = "New device or IP login detected"

type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridNotifier(apiKey, sender string) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Evently", sender),
	}
}

func (n *SendGridNotifier) NewDeviceLogin(ctx context.Context, a NewDeviceAlert) error {
	text, body := alertBodies(a)

	msg := mail.NewSingleEmail(n.from, alertSubject, mail.NewEmail("", a.Email), text, body)
	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("send security alert: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send security alert: status %d", resp.StatusCode)
	}
	return nil
}
