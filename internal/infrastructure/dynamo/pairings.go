package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-verify-link/internal/domain"
)

// PairingRepo persists successful verification pairings.
// PK: requester_id. GSI: scratch_handle-index for reverse lookup.
type PairingRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPairingRepo(client *dynamodb.Client, tableName string) *PairingRepo {
	return &PairingRepo{client: client, tableName: tableName}
}

func (r *PairingRepo) Put(ctx context.Context, p *domain.Pairing) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal pairing: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PairingRepo) Get(ctx context.Context, requesterID string) (*domain.Pairing, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("requester_id", requesterID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("pairing not found: %w", domain.ErrNotFound)
	}
	var p domain.Pairing
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByHandle looks a pairing up by Scratch username via the GSI.
func (r *PairingRepo) GetByHandle(ctx context.Context, scratchHandle string) (*domain.Pairing, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("scratch_handle-index"),
		KeyConditionExpression:    aws.String("scratch_handle = :h"),
		ExpressionAttributeValues: strKey(":h", scratchHandle),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("pairing not found: %w", domain.ErrNotFound)
	}
	var p domain.Pairing
	if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}
