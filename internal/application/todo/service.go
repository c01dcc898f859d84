package todo

import (
	"context"
	"fmt"
	"time"

	"github.com/student-bubble/internal/domain"
	"github.com/student-bubble/internal/pkg/id"
	"github.com/student-bubble/internal/pkg/validate"
)

type Service interface {
	Add(ctx context.Context, userID string, req domain.CreateTodoRequest) (*domain.Todo, error)
	List(ctx context.Context, userID string) ([]domain.Todo, error)
	SetCompleted(ctx context.Context, userID, todoID string, req domain.UpdateTodoRequest) error
	Delete(ctx context.Context, userID, todoID string) error
}

type todoStore interface {
	Put(ctx context.Context, t *domain.Todo) error
	Get(ctx context.Context, todoID string) (*domain.Todo, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Todo, error)
	SetCompleted(ctx context.Context, todoID string, completed bool) error
	Delete(ctx context.Context, todoID string) error
}

type service struct {
	repo todoStore
	now  func() time.Time
}

func NewService(repo todoStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Add(ctx context.Context, userID string, req domain.CreateTodoRequest) (*domain.Todo, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	t := &domain.Todo{
		TodoID:     id.New(),
		UserID:     userID,
		Name:       req.Name,
		DueDate:    req.DueDate,
		Importance: req.Importance,
		Completed:  false,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Todo, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) SetCompleted(ctx context.Context, userID, todoID string, req domain.UpdateTodoRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if _, err := s.owned(ctx, userID, todoID); err != nil {
		return err
	}
	return s.repo.SetCompleted(ctx, todoID, *req.Completed)
}

func (s *service) Delete(ctx context.Context, userID, todoID string) error {
	if _, err := s.owned(ctx, userID, todoID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, todoID)
}

// owned loads the todo and checks it belongs to userID.
func (s *service) owned(ctx context.Context, userID, todoID string) (*domain.Todo, error) {
	t, err := s.repo.Get(ctx, todoID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, fmt.Errorf("todo belongs to another user: %w", domain.ErrForbidden)
	}
	return t, nil
}
