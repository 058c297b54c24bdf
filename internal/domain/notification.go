package domain

// NotificationRequest targets a single delivery token. Fields are pointers so
// that only absent or null fields fail validation; empty strings are forwarded.
type NotificationRequest struct {
	Token *string `json:"token" validate:"required"`
	Title *string `json:"title" validate:"required"`
	Body  *string `json:"body" validate:"required"`
}

// Notification returns the push payload carried by the request.
func (r NotificationRequest) Notification() Notification {
	return Notification{Title: StringValue(r.Title), Body: StringValue(r.Body)}
}

// RoleNotificationRequest targets every recipient whose profile role equals Role.
type RoleNotificationRequest struct {
	Title *string `json:"title" validate:"required"`
	Body  *string `json:"body" validate:"required"`
	Role  *string `json:"role" validate:"required"`
}

// Notification returns the push payload carried by the request.
func (r RoleNotificationRequest) Notification() Notification {
	return Notification{Title: StringValue(r.Title), Body: StringValue(r.Body)}
}

// Notification is the payload handed to push providers.
type Notification struct {
	Title string
	Body  string
}

// MulticastResult is the provider's tally for one multicast send.
type MulticastResult struct {
	SuccessCount int
	FailureCount int
	Failures     []TokenFailure
}

// TokenFailure is one token the provider did not deliver to, with its reason.
type TokenFailure struct {
	Token string
	Error string
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
