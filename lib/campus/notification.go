package campus

import (
	"strconv"
	"strings"

	"icassist/lib/platforms/infinitecampus"
	"icassist/lib/timezone"
)

// notificationTimestamp converts the creation timestamp to whole seconds since the
// epoch. The portal sends milliseconds as text, some districts send a date string.
func notificationTimestamp(raw infinitecampus.FlexString) int64 {
	text := strings.TrimSpace(raw.Value)
	if text == "" {
		return 0
	}
	millis, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		return millis / 1000
	}
	float, err := strconv.ParseFloat(text, 64)
	if err == nil {
		return int64(float) / 1000
	}
	parsed, err := timezone.ParseDate(text)
	if err == nil && !parsed.IsZero() {
		return parsed.Unix()
	}
	return 0
}

// NormalizeNotification converts a notification and binds its ToggleRead to toggler.
func NormalizeNotification(raw infinitecampus.RawNotification, baseURL string, toggler Toggler) Notification {
	typeID, _ := strconv.Atoi(strings.TrimSpace(raw.NotificationTypeID.Value))
	return Notification{
		ID:            raw.NotificationID.Value,
		Link:          baseURL + raw.LinkURL + raw.LinkContext,
		Read:          raw.Read.Valid && raw.Read.Value == "true",
		Text:          raw.NotificationText,
		Timestamp:     notificationTimestamp(raw.CreationTimestamp),
		TimestampText: raw.DisplayedDate,
		Type:          NotificationType(typeID),
		toggler:       toggler,
	}
}
