package domain

// Recipient is a read-only projection of an externally owned user record.
// Token is empty when the record carries no usable delivery token.
type Recipient struct {
	ID    string
	Role  string
	Token string
}
