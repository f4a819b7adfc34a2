package notice

import (
	"embed"
	"fmt"

	"github.com/tendant/simple-ads/pkg/notification"
)

//go:embed templates/*
var templateFiles embed.FS

// NewNotificationManager builds a manager with the application's notice
// templates registered. Callers still register the notifiers they want.
func NewNotificationManager(baseURL string) (*notification.NotificationManager, error) {
	nm := notification.NewNotificationManager(baseURL)

	verifyHTML, err := templateFiles.ReadFile("templates/email/verify_account.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load verify account template: %w", err)
	}

	err = nm.RegisterNotification(notification.VerifyAccountNotice, notification.EmailSystem, notification.NoticeTemplate{
		Subject: "Verify your account",
		Text:    "Hello {{.Username}},\n\nPlease verify your account: {{.VerificationLink}}\n",
		Html:    string(verifyHTML),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register verify account notice: %w", err)
	}

	return nm, nil
}
