package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-notify-gateway/internal/config"
	"github.com/go-notify-gateway/internal/domain"
)

// fieldUserID is the recipients table partition key.
const fieldUserID = "user_id"

// recipientItem holds the fixed-name attributes of a recipient item. Role and
// token attribute names are configurable and read from the raw item instead.
type recipientItem struct {
	UserID string `dynamodbav:"user_id"`
}

// RecipientRepo reads recipient records from the recipients table.
type RecipientRepo struct {
	client     dynamodb.QueryAPIClient
	tableName  string
	roleField  string
	tokenField string
}

func NewRecipientRepo(client dynamodb.QueryAPIClient, schema config.RecipientSchema) *RecipientRepo {
	return &RecipientRepo{
		client:     client,
		tableName:  schema.Collection,
		roleField:  schema.RoleField,
		tokenField: schema.TokenField,
	}
}

// ListByRole queries the role GSI and returns every matching item in index
// order, following LastEvaluatedKey until the result set is exhausted.
func (r *RecipientRepo) ListByRole(ctx context.Context, role string) ([]domain.Recipient, error) {
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String(roleIndexName(r.roleField)),
		KeyConditionExpression:   aws.String("#r = :role"),
		ExpressionAttributeNames: map[string]string{"#r": r.roleField},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":role": &types.AttributeValueMemberS{Value: role},
		},
	})

	var recipients []domain.Recipient
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s by %s: %w", r.tableName, r.roleField, err)
		}
		for _, item := range page.Items {
			rec, err := r.toRecipient(item)
			if err != nil {
				return nil, err
			}
			recipients = append(recipients, rec)
		}
	}
	return recipients, nil
}

func (r *RecipientRepo) toRecipient(item map[string]types.AttributeValue) (domain.Recipient, error) {
	var ri recipientItem
	if err := attributevalue.UnmarshalMap(item, &ri); err != nil {
		return domain.Recipient{}, fmt.Errorf("unmarshal recipient: %w", err)
	}
	return domain.Recipient{
		ID:    ri.UserID,
		Role:  stringAttr(item, r.roleField),
		Token: stringAttr(item, r.tokenField),
	}, nil
}

// stringAttr returns the value of a string attribute, or "" when the attribute
// is missing or of another type.
func stringAttr(item map[string]types.AttributeValue, name string) string {
	if av, ok := item[name].(*types.AttributeValueMemberS); ok {
		return av.Value
	}
	return ""
}

func roleIndexName(roleField string) string {
	return roleField + "-index"
}
