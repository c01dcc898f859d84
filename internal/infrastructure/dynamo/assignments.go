package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/student-bubble/internal/domain"
)

// AssignmentRepo provides typed DynamoDB operations for the assignments table.
type AssignmentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAssignmentRepo(client *dynamodb.Client, tableName string) *AssignmentRepo {
	return &AssignmentRepo{client: client, tableName: tableName}
}

func (r *AssignmentRepo) Put(ctx context.Context, a *domain.Assignment) error {
	return putItem(ctx, r.client, r.tableName, a)
}

func (r *AssignmentRepo) ListByUser(ctx context.Context, userID string) ([]domain.Assignment, error) {
	return queryByUser[domain.Assignment](ctx, r.client, r.tableName, userID)
}
