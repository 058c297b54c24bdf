package notification

import (
	"context"
	"fmt"

	"github.com/go-notify-gateway/internal/domain"
)

// Pusher is a push-notification provider.
type Pusher interface {
	Send(ctx context.Context, token string, n domain.Notification) (string, error)
	SendMulticast(ctx context.Context, tokens []string, n domain.Notification) (domain.MulticastResult, error)
}

// Resolver maps a role to delivery tokens.
type Resolver interface {
	Resolve(ctx context.Context, role string) ([]string, error)
}

type Service interface {
	// Notify sends one notification to a single token and returns the provider message id.
	Notify(ctx context.Context, req domain.NotificationRequest) (string, error)
	// NotifyRole fans a notification out to every tokenised recipient of a role
	// and returns the provider's success count.
	NotifyRole(ctx context.Context, req domain.RoleNotificationRequest) (int, error)
}

type service struct {
	pusher   Pusher
	resolver Resolver
}

func NewService(pusher Pusher, resolver Resolver) Service {
	return &service{pusher: pusher, resolver: resolver}
}

func (s *service) Notify(ctx context.Context, req domain.NotificationRequest) (string, error) {
	return s.pusher.Send(ctx, domain.StringValue(req.Token), req.Notification())
}

func (s *service) NotifyRole(ctx context.Context, req domain.RoleNotificationRequest) (int, error) {
	role := domain.StringValue(req.Role)
	tokens, err := s.resolver.Resolve(ctx, role)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, fmt.Errorf("role %q: %w", role, domain.ErrNoRecipients)
	}
	res, err := s.pusher.SendMulticast(ctx, tokens, req.Notification())
	if err != nil {
		return 0, err
	}
	return res.SuccessCount, nil
}
