package domain

// EmailRequest asks for an account decision email to Mail.
type EmailRequest struct {
	Accepted *bool  `json:"aceptacion" validate:"required"`
	UserName string `json:"nombreUsuario" validate:"required"`
	Mail     string `json:"mail" validate:"required,email"`
}

// Email is a composed HTML message ready for a mail relay.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// MailResult is what a relay reports for an accepted message.
type MailResult struct {
	Accepted  []string     `json:"accepted"`
	Rejected  []string     `json:"rejected"`
	Envelope  MailEnvelope `json:"envelope"`
	MessageID string       `json:"messageId"`
	Response  string       `json:"response,omitempty"`
}

// MailEnvelope is the SMTP envelope the relay used.
type MailEnvelope struct {
	From string   `json:"from"`
	To   []string `json:"to"`
}
