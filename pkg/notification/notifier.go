package notification

// NotificationSystem represents a delivery channel (e.g. email).
type NotificationSystem string

// NoticeType represents a kind of notice (e.g. account verification).
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"

	// VerifyAccountNotice is the account verification email.
	VerifyAccountNotice NoticeType = "verify_account"
)

// NotificationData carries the recipient and the per-send template data.
type NotificationData struct {
	To      string            // Recipient identifier (e.g. email address)
	Subject string            // Optional subject override
	Body    string            // Optional pre-rendered body
	Data    map[string]string // Template data
}

// NoticeTemplate holds the subject and text/HTML bodies for a notice. Bodies
// are html/template sources rendered against NotificationData.Data.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// Notifier delivers a rendered notice over one channel.
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
