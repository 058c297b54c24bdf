package firestoreinfra

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/go-notify-gateway/internal/config"
	"github.com/go-notify-gateway/internal/domain"
	"google.golang.org/api/iterator"
)

// RecipientRepo reads recipient documents from a Firestore collection.
type RecipientRepo struct {
	client     *firestore.Client
	collection string
	roleField  string
	tokenField string
}

func NewRecipientRepo(client *firestore.Client, schema config.RecipientSchema) *RecipientRepo {
	return &RecipientRepo{
		client:     client,
		collection: schema.Collection,
		roleField:  schema.RoleField,
		tokenField: schema.TokenField,
	}
}

// ListByRole runs one equality query on the role field and returns the
// matching documents in iteration order.
func (r *RecipientRepo) ListByRole(ctx context.Context, role string) ([]domain.Recipient, error) {
	iter := r.client.Collection(r.collection).Where(r.roleField, "==", role).Documents(ctx)
	defer iter.Stop()

	var recipients []domain.Recipient
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s by %s: %w", r.collection, r.roleField, err)
		}
		recipients = append(recipients, r.toRecipient(doc.Ref.ID, doc.Data()))
	}
	return recipients, nil
}

// toRecipient keeps the token only when it is a string; records with any other
// token value are treated as having none.
func (r *RecipientRepo) toRecipient(id string, data map[string]interface{}) domain.Recipient {
	role, _ := data[r.roleField].(string)
	token, _ := data[r.tokenField].(string)
	return domain.Recipient{ID: id, Role: role, Token: token}
}
