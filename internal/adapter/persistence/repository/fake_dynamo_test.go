package repository

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory table understanding the condition expressions
// the repositories issue.
type fakeDynamo struct {
	items    map[string]map[string]types.AttributeValue
	putCalls int
	err      error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(item map[string]types.AttributeValue) string {
	if s, ok := item["id"].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putCalls++
	if f.err != nil {
		return nil, f.err
	}
	id := keyOf(in.Item)
	existing, exists := f.items[id]
	cond := aws.ToString(in.ConditionExpression)
	failed := &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}

	if strings.Contains(cond, "attribute_not_exists(#id)") && exists {
		return nil, failed
	}
	if strings.Contains(cond, "attribute_exists(#id)") && !exists {
		return nil, failed
	}
	if strings.Contains(cond, "#version = :expected") {
		stored, _ := existing["version"].(*types.AttributeValueMemberN)
		want := in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN)
		if stored == nil || stored.Value != want.Value {
			return nil, failed
		}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := in.ExpressionAttributeValues[":bid"].(*types.AttributeValueMemberS).Value
	out := &dynamodb.QueryOutput{}
	for _, item := range f.items {
		if s, ok := item["budget_id"].(*types.AttributeValueMemberS); ok && s.Value == want {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func (f *fakeDynamo) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &dynamodb.ScanOutput{}
	for _, item := range f.items {
		out.Items = append(out.Items, item)
	}
	return out, nil
}
