package domain

type NotificationLevel string

const (
	NotificationInfo  NotificationLevel = "info"
	NotificationError NotificationLevel = "error"
)

// Notification - всплывающее сообщение для пользователя (toast).
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}
