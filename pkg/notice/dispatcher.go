package notice

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/tendant/simple-ads/pkg/notification"
	"github.com/tendant/simple-ads/pkg/user"
)

// VerificationDispatcher sends account verification emails through the
// notification manager. Delivery happens on a background goroutine so a slow
// or failing mail server never blocks or fails the caller.
type VerificationDispatcher struct {
	manager *notification.NotificationManager
}

func NewVerificationDispatcher(manager *notification.NotificationManager) *VerificationDispatcher {
	return &VerificationDispatcher{manager: manager}
}

func (d *VerificationDispatcher) Enqueue(ctx context.Context, u user.User, token string) error {
	link := fmt.Sprintf("%s/auth/verify-account?token=%s", d.manager.BaseURL(), url.QueryEscape(token))

	data := notification.NotificationData{
		To: u.Email,
		Data: map[string]string{
			"Username":         u.Username,
			"VerificationLink": link,
		},
	}

	go func() {
		if err := d.manager.Send(notification.VerifyAccountNotice, data); err != nil {
			slog.Error("Failed to send verification email", "user", u.ID, "err", err)
		}
	}()

	return nil
}
