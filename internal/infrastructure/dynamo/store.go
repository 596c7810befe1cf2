package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dukaan-app/otp-api/internal/domain"
)

// Store persists pending credentials in a DynamoDB table keyed by phone.
// The table carries a native TTL on expires_at as a safety net; the lifecycle
// manager still evaluates expiry itself because DynamoDB TTL deletion is lazy.
type Store struct {
	client    *dynamodb.Client
	tableName string
}

func NewStore(client *dynamodb.Client, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

func (s *Store) Put(ctx context.Context, cred *domain.Credential) error {
	item, err := attributevalue.MarshalMap(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	return err
}

func (s *Store) Get(ctx context.Context, phone string) (*domain.Credential, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            phoneKey(phone),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("credential for %s: %w", phone, domain.ErrNotFound)
	}
	var cred domain.Credential
	if err := attributevalue.UnmarshalMap(out.Item, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (s *Store) Delete(ctx context.Context, phone string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       phoneKey(phone),
	})
	return err
}

// Consume deletes the record only while it still carries issuanceID, via a
// conditional delete. A conditional-check failure means the record was already
// consumed or replaced by a newer issue.
func (s *Store) Consume(ctx context.Context, phone, issuanceID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 phoneKey(phone),
		ConditionExpression: aws.String("issuance_id = :iid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":iid": &types.AttributeValueMemberS{Value: issuanceID},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("credential for %s: %w", phone, domain.ErrNotFound)
		}
		return err
	}
	return nil
}

// Ping verifies the table is reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	return err
}

func phoneKey(phone string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"phone": &types.AttributeValueMemberS{Value: phone},
	}
}
