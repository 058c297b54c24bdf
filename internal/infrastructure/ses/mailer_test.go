package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/go-notify-gateway/internal/config"
	"github.com/go-notify-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSES struct{ mock.Mock }

func (m *mockSES) SendEmail(ctx context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, in)
	if out, _ := args.Get(0).(*ses.SendEmailOutput); out != nil {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

var testCfg = &config.Config{MailFromName: "Comanda CEN", MailFrom: "comandacen@example.com"}

func TestSend_MapsMessage(t *testing.T) {
	m := &mockSES{}
	var got *ses.SendEmailInput
	m.On("SendEmail", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*ses.SendEmailInput) }).
		Return(&ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil)

	res, err := NewMailer(m, testCfg).Send(context.Background(), domain.Email{
		To: "ana@example.com", Subject: "Cuenta rechazada", HTML: "<p>x</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "ses-1", res.MessageID)
	assert.Equal(t, []string{"ana@example.com"}, res.Accepted)
	assert.Equal(t, "comandacen@example.com", res.Envelope.From)

	require.NotNil(t, got)
	assert.Equal(t, `"Comanda CEN" <comandacen@example.com>`, aws.ToString(got.Source))
	assert.Equal(t, []string{"ana@example.com"}, got.Destination.ToAddresses)
	assert.Equal(t, "Cuenta rechazada", aws.ToString(got.Message.Subject.Data))
	assert.Equal(t, "<p>x</p>", aws.ToString(got.Message.Body.Html.Data))
	m.AssertExpectations(t)
}

func TestSend_WrapsError(t *testing.T) {
	m := &mockSES{}
	boom := errors.New("MessageRejected")
	m.On("SendEmail", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := NewMailer(m, testCfg).Send(context.Background(), domain.Email{To: "ana@example.com"})
	assert.ErrorIs(t, err, boom)
}
