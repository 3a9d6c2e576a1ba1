package models

// NotificationType selects which configured channel a payload is routed to
type NotificationType string

const (
	TypeStock   NotificationType = "stock"
	TypeWeather NotificationType = "weather"
	TypePet     NotificationType = "pet"
)

// ParseNotificationType maps a raw type string to a notification type.
// Empty and unrecognized values are treated as stock.
func ParseNotificationType(s string) NotificationType {
	switch NotificationType(s) {
	case TypeWeather:
		return TypeWeather
	case TypePet:
		return TypePet
	default:
		return TypeStock
	}
}

// EmbedField is one name/value pair of an embed
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is the embed-like content body of a notification.
// The router forwards it to Discord unmodified.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
}

// HasContent reports whether the embed carries any searchable body
func (e *Embed) HasContent() bool {
	return e.Description != "" || len(e.Fields) > 0
}

// InboundNotification is one parsed webhook payload. It is never persisted;
// it lives only for the duration of a single routing pass.
type InboundNotification struct {
	Type  NotificationType
	Embed Embed
}
