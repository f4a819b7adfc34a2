package notification

import "log/slog"

// MockNotifier records notifications instead of delivering them. For tests.
type MockNotifier struct {
	SentNotifications []NotificationData
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	slog.Info("Mock notification", "type", noticeType, "to", notification.To)
	m.SentNotifications = append(m.SentNotifications, notification)
	return nil
}
