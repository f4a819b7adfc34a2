package notification

import (
	"fmt"
)

// NotificationManager manages notifiers and notice templates.
type NotificationManager struct {
	baseURL        string
	notifiers      map[NotificationSystem]Notifier
	noticeRegistry map[NoticeType]map[NotificationSystem]NoticeTemplate
}

// NewNotificationManager creates and returns a new NotificationManager.
func NewNotificationManager(baseURL string) *NotificationManager {
	return &NotificationManager{
		baseURL:        baseURL,
		notifiers:      make(map[NotificationSystem]Notifier),
		noticeRegistry: make(map[NoticeType]map[NotificationSystem]NoticeTemplate),
	}
}

// BaseURL returns the public base URL links in notices are built against.
func (nm *NotificationManager) BaseURL() string {
	return nm.baseURL
}

// RegisterNotifier registers a notifier for a delivery system.
func (nm *NotificationManager) RegisterNotifier(system NotificationSystem, notifier Notifier) {
	nm.notifiers[system] = notifier
}

// RegisterNotification adds a notice template to the registry.
func (nm *NotificationManager) RegisterNotification(noticeType NoticeType, system NotificationSystem, template NoticeTemplate) error {
	if noticeType == "" || system == "" {
		return fmt.Errorf("invalid input: notice type and system cannot be empty")
	}
	if template.Text == "" && template.Html == "" {
		return fmt.Errorf("invalid input: template must have a text or html body")
	}

	if _, exists := nm.noticeRegistry[noticeType]; !exists {
		nm.noticeRegistry[noticeType] = make(map[NotificationSystem]NoticeTemplate)
	}
	nm.noticeRegistry[noticeType][system] = template
	return nil
}

// Send delivers the notice over every system a template is registered for.
func (nm *NotificationManager) Send(noticeType NoticeType, notification NotificationData) error {
	systemTemplates, exists := nm.noticeRegistry[noticeType]
	if !exists {
		return fmt.Errorf("no templates registered for notice type: %s", noticeType)
	}

	for system, template := range systemTemplates {
		notifier, exists := nm.notifiers[system]
		if !exists {
			return fmt.Errorf("no notifier registered for system: %s under notice type: %s", system, noticeType)
		}
		if err := notifier.Send(noticeType, notification, template); err != nil {
			return err
		}
	}

	return nil
}
