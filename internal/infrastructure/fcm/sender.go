package fcm

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/go-notify-gateway/internal/domain"
)

// maxMulticastTokens is the FCM limit for one SendEachForMulticast call.
const maxMulticastTokens = 500

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Sender delivers push notifications through Firebase Cloud Messaging.
type Sender struct {
	client messagingClient
}

func NewSender(client messagingClient) *Sender {
	return &Sender{client: client}
}

// Send delivers to one registration token and returns the FCM message id.
func (s *Sender) Send(ctx context.Context, token string, n domain.Notification) (string, error) {
	id, err := s.client.Send(ctx, &messaging.Message{
		Notification: toNotification(n),
		Token:        token,
	})
	if err != nil {
		return "", fmt.Errorf("fcm send: %w", err)
	}
	return id, nil
}

// SendMulticast delivers to every token. Lists above the FCM batch limit are
// sent as consecutive batches and their counts summed. When a later batch
// fails, the error reports how many tokens earlier batches already reached and
// the partial result is returned alongside it.
func (s *Sender) SendMulticast(ctx context.Context, tokens []string, n domain.Notification) (domain.MulticastResult, error) {
	if len(tokens) == 0 {
		return domain.MulticastResult{}, fmt.Errorf("multicast without tokens: %w", domain.ErrBadRequest)
	}
	var res domain.MulticastResult
	batches := (len(tokens) + maxMulticastTokens - 1) / maxMulticastTokens
	for start := 0; start < len(tokens); start += maxMulticastTokens {
		end := min(start+maxMulticastTokens, len(tokens))
		batch := tokens[start:end]

		br, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Notification: toNotification(n),
			Tokens:       batch,
		})
		if err != nil {
			if start == 0 {
				return res, fmt.Errorf("fcm multicast: %w", err)
			}
			return res, fmt.Errorf("fcm multicast batch %d of %d, %d already delivered: %w",
				start/maxMulticastTokens+1, batches, res.SuccessCount, err)
		}
		res.SuccessCount += br.SuccessCount
		res.FailureCount += br.FailureCount
		for i, r := range br.Responses {
			if r == nil || r.Success || i >= len(batch) {
				continue
			}
			msg := "unknown error"
			if r.Error != nil {
				msg = r.Error.Error()
			}
			res.Failures = append(res.Failures, domain.TokenFailure{Token: batch[i], Error: msg})
		}
	}
	return res, nil
}

func toNotification(n domain.Notification) *messaging.Notification {
	return &messaging.Notification{Title: n.Title, Body: n.Body}
}
