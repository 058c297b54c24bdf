package firestoreinfra

import (
	"testing"

	"github.com/go-notify-gateway/internal/config"
	"github.com/go-notify-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestToRecipient(t *testing.T) {
	repo := NewRecipientRepo(nil, config.RecipientSchema{Collection: "usuarios", RoleField: "perfil", TokenField: "token"})

	tests := []struct {
		name string
		data map[string]interface{}
		want domain.Recipient
	}{
		{
			name: "with token",
			data: map[string]interface{}{"perfil": "cocinero", "token": "fcm-1", "nombre": "Ana"},
			want: domain.Recipient{ID: "doc1", Role: "cocinero", Token: "fcm-1"},
		},
		{
			name: "missing token",
			data: map[string]interface{}{"perfil": "cocinero"},
			want: domain.Recipient{ID: "doc1", Role: "cocinero"},
		},
		{
			name: "non-string token",
			data: map[string]interface{}{"perfil": "cocinero", "token": int64(7)},
			want: domain.Recipient{ID: "doc1", Role: "cocinero"},
		},
		{
			name: "null token",
			data: map[string]interface{}{"perfil": "cocinero", "token": nil},
			want: domain.Recipient{ID: "doc1", Role: "cocinero"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repo.toRecipient("doc1", tt.data))
		})
	}
}
