// Package dynamo is the single-table DynamoDB access layer. It owns the
// physical representation of records; callers deal in attribute maps and
// translate them to typed views.
package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"

	"github.com/nameless-app/users-be/internal/apperrors"
	"github.com/nameless-app/users-be/internal/config"
)

// Item is one record in the store's native attribute format.
type Item = map[string]types.AttributeValue

// ErrConditionFailed is returned when a conditional Put or Update is
// rejected by the store. Callers decide what it means for their operation.
var ErrConditionFailed = errors.New("condition failed")

// API is the subset of the DynamoDB client the store uses. Tests stub it.
type API interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Client provides generic single-table access. The connection is shared and
// read-only after construction; all coordination happens in the store.
type Client struct {
	api   API
	table string
}

// New builds a DynamoDB client from configuration. DBEndpoint, when set,
// points the client at a local DynamoDB instead of AWS.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.DBRegionName),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.DBAccessKeyID,
			cfg.DBSecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	api := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DBEndpoint)
		}
	})

	return &Client{api: api, table: cfg.DBTableName}, nil
}

// NewWithAPI wires the client over an existing API implementation.
func NewWithAPI(api API, table string) *Client {
	return &Client{api: api, table: table}
}

// StringKey builds a single-attribute string key.
func StringKey(name, value string) Item {
	return Item{name: &types.AttributeValueMemberS{Value: value}}
}

// TableExists probes table metadata. A missing table is a plain false;
// any other provider error propagates as a store failure.
func (c *Client) TableExists(ctx context.Context, name string) (bool, error) {
	_, err := c.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		logProviderError(err, "Could not describe table")
		return false, apperrors.NewStoreError("describe table", err)
	}
	return true, nil
}

// Put writes a full record, overwriting any existing item with the same key.
// A non-empty condition expression guards the write; its rejection surfaces
// as ErrConditionFailed.
func (c *Client) Put(ctx context.Context, item any, condition string) error {
	attrs, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.NewStoreError("marshal item", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      attrs,
	}
	if condition != "" {
		input.ConditionExpression = aws.String(condition)
	}

	if _, err := c.api.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrConditionFailed
		}
		logProviderError(err, "Item can not be created")
		return apperrors.NewStoreError("put item", err)
	}
	return nil
}

// Get performs a point lookup. A missing item is (nil, nil), not an error.
// When a projection is given, only those attributes come back.
func (c *Client) Get(ctx context.Context, key Item, projection []string) (Item, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key:       key,
	}

	if len(projection) > 0 {
		proj := expression.NamesList(expression.Name(projection[0]))
		for _, attr := range projection[1:] {
			proj = proj.AddNames(expression.Name(attr))
		}
		expr, err := expression.NewBuilder().WithProjection(proj).Build()
		if err != nil {
			return nil, apperrors.NewStoreError("build projection", err)
		}
		input.ProjectionExpression = expr.Projection()
		input.ExpressionAttributeNames = expr.Names()
	}

	out, err := c.api.GetItem(ctx, input)
	if err != nil {
		logProviderError(err, "Could not get item")
		return nil, apperrors.NewStoreError("get item", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

// Scan filters the whole table for items whose attribute equals value.
// This is O(table size); uniqueness checks here are assumed low-volume.
func (c *Client) Scan(ctx context.Context, attr, value string) ([]Item, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name(attr).Equal(expression.Value(value))).
		Build()
	if err != nil {
		return nil, apperrors.NewStoreError("build filter", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(c.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var items []Item
	for {
		out, err := c.api.Scan(ctx, input)
		if err != nil {
			logProviderError(err, "Could not scan table")
			return nil, apperrors.NewStoreError("scan", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return items, nil
}

// Update sets the given attributes on the item identified by key and returns
// the full post-update record. The item must already exist; updating an
// absent key returns ErrConditionFailed.
func (c *Client) Update(ctx context.Context, key Item, sets map[string]any) (Item, error) {
	var update expression.UpdateBuilder
	for attr, value := range sets {
		update = update.Set(expression.Name(attr), expression.Value(value))
	}

	var exists expression.ConditionBuilder
	for attr := range key {
		exists = expression.AttributeExists(expression.Name(attr))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(exists).
		Build()
	if err != nil {
		return nil, apperrors.NewStoreError("build update", err)
	}

	out, err := c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(c.table),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, ErrConditionFailed
		}
		logProviderError(err, "Could not update item")
		return nil, apperrors.NewStoreError("update item", err)
	}
	return out.Attributes, nil
}

// Delete removes the item identified by key and returns its last stored
// attributes. A missing item is (nil, nil).
func (c *Client) Delete(ctx context.Context, key Item) (Item, error) {
	out, err := c.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(c.table),
		Key:          key,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		logProviderError(err, "Could not delete item")
		return nil, apperrors.NewStoreError("delete item", err)
	}
	if len(out.Attributes) == 0 {
		return nil, nil
	}
	return out.Attributes, nil
}

// logProviderError logs a provider failure with its error code when the
// error carries one. The code never leaves the log.
func logProviderError(err error, msg string) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		log.Error().
			Str("code", apiErr.ErrorCode()).
			Str("message", apiErr.ErrorMessage()).
			Msg(msg)
		return
	}
	log.Error().Err(err).Msg(msg)
}
