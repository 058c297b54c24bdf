package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-notify-gateway/internal/config"
	"github.com/go-notify-gateway/internal/domain"
	"github.com/go-notify-gateway/internal/infrastructure/awscfg"
)

type publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender delivers push notifications through SNS mobile push. Delivery tokens
// are platform-endpoint ARNs.
type Sender struct {
	client publisher
}

func NewClient(awsCfg aws.Config, cfg *config.Config) *sns.Client {
	return sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if ep := awscfg.BaseEndpoint(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
}

func NewSender(client publisher) *Sender {
	return &Sender{client: client}
}

// Send publishes to one endpoint and returns the SNS message id.
func (s *Sender) Send(ctx context.Context, token string, n domain.Notification) (string, error) {
	msg, err := buildMessage(n)
	if err != nil {
		return "", err
	}
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        aws.String(token),
		Message:          aws.String(msg),
		MessageStructure: aws.String("json"),
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// SendMulticast publishes to each endpoint in order. SNS has no batch publish
// for endpoints, so per-endpoint failures are tallied rather than returned;
// only a cancelled context aborts the batch.
func (s *Sender) SendMulticast(ctx context.Context, tokens []string, n domain.Notification) (domain.MulticastResult, error) {
	if len(tokens) == 0 {
		return domain.MulticastResult{}, fmt.Errorf("multicast without tokens: %w", domain.ErrBadRequest)
	}
	var res domain.MulticastResult
	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := s.Send(ctx, token, n); err != nil {
			res.FailureCount++
			res.Failures = append(res.Failures, domain.TokenFailure{Token: token, Error: err.Error()})
			continue
		}
		res.SuccessCount++
	}
	return res, nil
}

// buildMessage renders the per-platform payload for MessageStructure=json.
func buildMessage(n domain.Notification) (string, error) {
	gcm, err := json.Marshal(map[string]interface{}{
		"notification": map[string]string{"title": n.Title, "body": n.Body},
	})
	if err != nil {
		return "", err
	}
	apns, err := json.Marshal(map[string]interface{}{
		"aps": map[string]interface{}{
			"alert": map[string]string{"title": n.Title, "body": n.Body},
		},
	})
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(map[string]string{
		"default":      n.Body,
		"GCM":          string(gcm),
		"APNS":         string(apns),
		"APNS_SANDBOX": string(apns),
	})
	if err != nil {
		return "", fmt.Errorf("marshal sns message: %w", err)
	}
	return string(b), nil
}
