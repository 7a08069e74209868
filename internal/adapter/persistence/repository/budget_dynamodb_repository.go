package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"catering_admin/internal/domain/budget"
	"catering_admin/internal/domain/entities"
	"catering_admin/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// BudgetDynamoRepository persists budget documents in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// The whole document is stored as one item, unknown keys included, so the
// table doubles as the document store the admin front-end reads from.
type BudgetDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IBudgetRepository = (*BudgetDynamoRepository)(nil)

func NewBudgetDynamoRepository(ddb *dynamodb.Client, tableName string) *BudgetDynamoRepository {
	return newBudgetRepository(ddb, tableName)
}

func newBudgetRepository(ddb dynamoAPI, tableName string) *BudgetDynamoRepository {
	return &BudgetDynamoRepository{
		ddb:       ddb,
		tableName: tableName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *BudgetDynamoRepository) Create(ctx context.Context, b entities.Budget) (entities.Budget, error) {
	now := r.now()
	b.Version = 1
	b.CreatedAt = now
	b.UpdatedAt = now

	av, err := toBudgetItem(b)
	if err != nil {
		return entities.Budget{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Budget{}, interfaces.ErrAlreadyExists
		}
		return entities.Budget{}, err
	}
	return fromStoredBudget(b)
}

func (r *BudgetDynamoRepository) GetByID(ctx context.Context, id string) (entities.Budget, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Budget{}, err
	}
	if len(out.Item) == 0 {
		return entities.Budget{}, nil
	}
	return fromBudgetItem(out.Item)
}

func (r *BudgetDynamoRepository) List(ctx context.Context) ([]entities.Budget, error) {
	budgets := []entities.Budget{}
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			b, err := fromBudgetItem(raw)
			if err != nil {
				return nil, err
			}
			budgets = append(budgets, b)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return budgets, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Save writes b if the stored version still equals b.Version, bumping it.
func (r *BudgetDynamoRepository) Save(ctx context.Context, b entities.Budget) (entities.Budget, error) {
	expected := b.Version
	b.Version = expected + 1
	b.UpdatedAt = r.now()

	av, err := toBudgetItem(b)
	if err != nil {
		return entities.Budget{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.Itoa(expected)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Budget{}, interfaces.ErrVersionConflict
		}
		return entities.Budget{}, err
	}
	return fromStoredBudget(b)
}

func toBudgetItem(b entities.Budget) (map[string]types.AttributeValue, error) {
	raw, err := budget.Save(b)
	if err != nil {
		return nil, err
	}
	av, err := attributevalue.MarshalMap(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal budget %s: %w", b.ID, err)
	}
	return av, nil
}

func fromBudgetItem(item map[string]types.AttributeValue) (entities.Budget, error) {
	var raw map[string]any
	if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
		return entities.Budget{}, err
	}
	return budget.Load(raw)
}

// fromStoredBudget returns b as a later GetByID would.
func fromStoredBudget(b entities.Budget) (entities.Budget, error) {
	raw, err := budget.Save(b)
	if err != nil {
		return entities.Budget{}, err
	}
	return budget.Load(raw)
}
