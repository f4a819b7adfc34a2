package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ExampleNotice NoticeType = "example"

func TestRegisterNotification(t *testing.T) {
	nm := NewNotificationManager("http://localhost:4000")

	err := nm.RegisterNotification(ExampleNotice, EmailSystem, NoticeTemplate{
		Subject: "Example",
		Text:    "Hello {{.Username}}",
	})
	require.NoError(t, err)

	err = nm.RegisterNotification("", EmailSystem, NoticeTemplate{Text: "x"})
	assert.Error(t, err)

	err = nm.RegisterNotification(ExampleNotice, EmailSystem, NoticeTemplate{})
	assert.Error(t, err)
}

func TestSend(t *testing.T) {
	nm := NewNotificationManager("http://localhost:4000")
	mock := NewMockNotifier()
	nm.RegisterNotifier(EmailSystem, mock)

	err := nm.RegisterNotification(ExampleNotice, EmailSystem, NoticeTemplate{
		Subject: "Example",
		Text:    "Hello {{.Username}}",
	})
	require.NoError(t, err)

	err = nm.Send(ExampleNotice, NotificationData{
		To:   "user@example.com",
		Data: map[string]string{"Username": "alice"},
	})
	require.NoError(t, err)
	require.Len(t, mock.SentNotifications, 1)
	assert.Equal(t, "user@example.com", mock.SentNotifications[0].To)
}

func TestSendUnregistered(t *testing.T) {
	nm := NewNotificationManager("http://localhost:4000")

	err := nm.Send("missing", NotificationData{To: "user@example.com"})
	assert.Error(t, err)
}
