package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/go-notify-gateway/internal/domain"
)

const (
	subjectAccepted = "Felicitaciones su cuenta fue aceptada"
	subjectRejected = "Cuenta rechazada"
)

var accountTmpl = template.Must(template.New("account").Parse(`
<h1>{{if .Accepted}}Felicitaciones{{else}}Disculpe{{end}} {{.UserName}}</h1>
<p>Su cuenta fue {{if .Accepted}}aceptada.{{else}}rechazada.{{end}}</p>
<p>{{if .Accepted}}Te estamos esperando!{{else}}No te preocupes, puedes volver a probar en el futuro.{{end}}</p>
<p>Comanda CEN</p>
`))

// Mailer is a mail relay.
type Mailer interface {
	Send(ctx context.Context, e domain.Email) (*domain.MailResult, error)
}

type Service interface {
	// Compose renders the account decision message for req.
	Compose(req domain.EmailRequest) (domain.Email, error)
	// Send composes and relays the account decision message.
	Send(ctx context.Context, req domain.EmailRequest) (*domain.MailResult, error)
}

type service struct {
	mailer Mailer
}

func NewService(mailer Mailer) Service {
	return &service{mailer: mailer}
}

func (s *service) Compose(req domain.EmailRequest) (domain.Email, error) {
	accepted := req.Accepted != nil && *req.Accepted
	var b bytes.Buffer
	if err := accountTmpl.Execute(&b, struct {
		Accepted bool
		UserName string
	}{accepted, req.UserName}); err != nil {
		return domain.Email{}, fmt.Errorf("render account email: %w", err)
	}
	subject := subjectRejected
	if accepted {
		subject = subjectAccepted
	}
	return domain.Email{To: req.Mail, Subject: subject, HTML: b.String()}, nil
}

func (s *service) Send(ctx context.Context, req domain.EmailRequest) (*domain.MailResult, error) {
	e, err := s.Compose(req)
	if err != nil {
		return nil, err
	}
	return s.mailer.Send(ctx, e)
}
