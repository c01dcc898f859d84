package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/student-bubble/internal/domain"
)

// TodoRepo provides typed DynamoDB operations for the todos table.
type TodoRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTodoRepo(client *dynamodb.Client, tableName string) *TodoRepo {
	return &TodoRepo{client: client, tableName: tableName}
}

func (r *TodoRepo) Put(ctx context.Context, t *domain.Todo) error {
	return putItem(ctx, r.client, r.tableName, t)
}

func (r *TodoRepo) Get(ctx context.Context, todoID string) (*domain.Todo, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldTodoID, todoID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("todo not found: %w", domain.ErrNotFound)
	}
	var t domain.Todo
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TodoRepo) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	return queryByUser[domain.Todo](ctx, r.client, r.tableName, userID)
}

func (r *TodoRepo) SetCompleted(ctx context.Context, todoID string, completed bool) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldCompleted: completed})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldTodoID, todoID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *TodoRepo) Delete(ctx context.Context, todoID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldTodoID, todoID),
	})
	return err
}
