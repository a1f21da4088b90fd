// Package notify delivers out-of-band security alerts to users.
package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/rohits-web03/evently/internal/logging"
)

// NewDeviceAlert describes a login from a previously unseen (ip, user-agent) pair.
type NewDeviceAlert struct {
	Email     string
	IP        string
	UserAgent string
	At        time.Time
}

type Notifier interface {
	NewDeviceLogin(ctx context.Context, alert NewDeviceAlert) error
}

// LogNotifier writes alerts to the log instead of sending mail.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NewDeviceLogin(ctx context.Context, a NewDeviceAlert) error {
	n.log.Info(ctx, "new device login", "email", a.Email, "ip", a.IP, "user_agent", a.UserAgent)
	return nil
}

// alertBodies renders the plain text and HTML parts. Only the HTML part
// escapes the client-controlled fields.
func alertBodies(a NewDeviceAlert) (text, body string) {
	at := a.At.Format(time.RFC1123)
	text = fmt.Sprintf("New login detected:\nIP: %s\nDevice: %s\nTime: %s\n", a.IP, a.UserAgent, at)
	body = fmt.Sprintf(
		"<h2>New login detected</h2><p><strong>IP:</strong> %s</p><p><strong>Device:</strong> %s</p><p><strong>Time:</strong> %s</p><p>If this wasn't you, please secure your account immediately.</p>",
		html.EscapeString(a.IP), html.EscapeString(a.UserAgent), at,
	)
	return text, body
}
