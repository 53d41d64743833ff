package enums

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotificationTypeRequestUpdate NotificationType = "request_update"
	NotificationTypeReminder      NotificationType = "reminder"
	NotificationTypeInventory     NotificationType = "inventory"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeRequestUpdate,
	NotificationTypeReminder,
	NotificationTypeInventory,
}

// IsValid reports whether the value matches the canonical notification type enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}
