package recipient

import (
	"context"
	"fmt"

	"github.com/go-notify-gateway/internal/domain"
)

type store interface {
	ListByRole(ctx context.Context, role string) ([]domain.Recipient, error)
}

// Resolver turns a role into the delivery tokens of every recipient holding it.
type Resolver struct {
	store store
}

func NewResolver(s store) *Resolver {
	return &Resolver{store: s}
}

// Resolve returns tokens in store iteration order. Recipients without a token
// are skipped; duplicates are kept. An empty result is not an error.
func (r *Resolver) Resolve(ctx context.Context, role string) ([]string, error) {
	recipients, err := r.store.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients for role %q: %w", role, err)
	}
	tokens := make([]string, 0, len(recipients))
	for _, rec := range recipients {
		if rec.Token == "" {
			continue
		}
		tokens = append(tokens, rec.Token)
	}
	return tokens, nil
}
