package note

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/student-bubble/internal/domain"
	"github.com/student-bubble/internal/pkg/id"
	"github.com/student-bubble/internal/pkg/validate"
)

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	UserID      string
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.Note, error)
	Save(ctx context.Context, userID string, req domain.SaveNoteRequest) (*domain.Note, error)
	List(ctx context.Context, userID string) ([]domain.Note, error)
	ListUploads(ctx context.Context, userID string) ([]domain.Upload, error)
}

type noteStore interface {
	Put(ctx context.Context, n *domain.Note) error
	ListByUser(ctx context.Context, userID string) ([]domain.Note, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	List(ctx context.Context, prefix string, maxKeys int32) ([]domain.Upload, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	notes      noteStore
	objects    objectStore
	presignTTL time.Duration
	maxKeys    int32
	now        func() time.Time
}

type ServiceDeps struct {
	NoteRepo    noteStore
	ObjectStore objectStore
	PresignTTL  time.Duration
	ListMaxKeys int32
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		notes:      deps.NoteRepo,
		objects:    deps.ObjectStore,
		presignTTL: deps.PresignTTL,
		maxKeys:    deps.ListMaxKeys,
		now:        time.Now,
	}
	if s.presignTTL <= 0 {
		s.presignTTL = 15 * time.Minute
	}
	if s.maxKeys <= 0 {
		s.maxKeys = 100
	}
	return s
}

// Upload stores the file under the caller's prefix and records it as a note
// titled with the original file name.
func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.Note, error) {
	if input.Reader == nil {
		return nil, fmt.Errorf("no file uploaded: %w", domain.ErrBadRequest)
	}
	now := s.now().UTC()
	key := objectKey(input.UserID, now, input.Filename)
	url, err := s.objects.Upload(ctx, key, input.Reader, input.ContentType)
	if err != nil {
		return nil, err
	}
	title := path.Base(input.Filename)
	if title == "." || title == "/" {
		title = sanitizeFilename(input.Filename)
	}
	n := &domain.Note{
		NoteID:    id.New(),
		UserID:    input.UserID,
		Title:     title,
		FileKey:   &key,
		FileURL:   &url,
		CreatedAt: now,
	}
	if err := s.notes.Put(ctx, n); err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			slog.Warn("failed to remove orphaned upload", "key", key, "err", delErr)
		}
		return nil, err
	}
	return n, nil
}

func (s *service) Save(ctx context.Context, userID string, req domain.SaveNoteRequest) (*domain.Note, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("missing fields: %w", domain.ErrBadRequest)
	}
	content := req.Content
	n := &domain.Note{
		NoteID:    id.New(),
		UserID:    userID,
		Title:     req.Title,
		Content:   &content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.notes.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

// ListUploads returns the caller's objects, each with a time-limited GET URL.
func (s *service) ListUploads(ctx context.Context, userID string) ([]domain.Upload, error) {
	items, err := s.objects.List(ctx, userID+"/", s.maxKeys)
	if err != nil {
		return nil, err
	}
	for i := range items {
		url, err := s.objects.PresignedURL(ctx, items[i].Key, s.presignTTL)
		if err != nil {
			return nil, err
		}
		items[i].URL = url
	}
	return items, nil
}

func objectKey(userID string, at time.Time, filename string) string {
	return fmt.Sprintf("%s/%d-%s", userID, at.UnixMilli(), sanitizeFilename(filename))
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) so a name cannot escape its S3 prefix.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." && result != ".." {
		return result
	}
	return "_"
}
