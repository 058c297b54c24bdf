package ses

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/go-notify-gateway/internal/config"
	"github.com/go-notify-gateway/internal/domain"
	"github.com/go-notify-gateway/internal/infrastructure/awscfg"
)

const charset = "UTF-8"

type emailSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Mailer sends mail through the AWS SES API.
type Mailer struct {
	client emailSender
	from   mail.Address
}

func NewClient(awsCfg aws.Config, cfg *config.Config) *ses.Client {
	return ses.NewFromConfig(awsCfg, func(o *ses.Options) {
		if ep := awscfg.BaseEndpoint(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
}

func NewMailer(client emailSender, cfg *config.Config) *Mailer {
	return &Mailer{
		client: client,
		from:   mail.Address{Name: cfg.MailFromName, Address: cfg.MailFrom},
	}
}

func (m *Mailer) Send(ctx context.Context, e domain.Email) (*domain.MailResult, error) {
	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(m.from.String()),
		Destination: &types.Destination{ToAddresses: []string{e.To}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(e.Subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(e.HTML), Charset: aws.String(charset)},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ses send to %s: %w", e.To, err)
	}
	return &domain.MailResult{
		Accepted:  []string{e.To},
		Rejected:  []string{},
		Envelope:  domain.MailEnvelope{From: m.from.Address, To: []string{e.To}},
		MessageID: aws.ToString(out.MessageId),
	}, nil
}

// Close is a no-op; the SES client is stateless HTTP.
func (m *Mailer) Close() error { return nil }
