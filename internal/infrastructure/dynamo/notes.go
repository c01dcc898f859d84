package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/student-bubble/internal/domain"
)

// NoteRepo provides typed DynamoDB operations for the notes table.
type NoteRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNoteRepo(client *dynamodb.Client, tableName string) *NoteRepo {
	return &NoteRepo{client: client, tableName: tableName}
}

func (r *NoteRepo) Put(ctx context.Context, n *domain.Note) error {
	return putItem(ctx, r.client, r.tableName, n)
}

func (r *NoteRepo) ListByUser(ctx context.Context, userID string) ([]domain.Note, error) {
	return queryByUser[domain.Note](ctx, r.client, r.tableName, userID)
}
