package note

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/student-bubble/internal/domain"
)

type mockNoteStore struct{ mock.Mock }

func (m *mockNoteStore) Put(ctx context.Context, n *domain.Note) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockNoteStore) ListByUser(ctx context.Context, userID string) ([]domain.Note, error) {
	args := m.Called(ctx, userID)
	notes, _ := args.Get(0).([]domain.Note)
	return notes, args.Error(1)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockObjectStore) List(ctx context.Context, prefix string, maxKeys int32) ([]domain.Upload, error) {
	args := m.Called(ctx, prefix, maxKeys)
	items, _ := args.Get(0).([]domain.Upload)
	return items, args.Error(1)
}
func (m *mockObjectStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(ns *mockNoteStore, obj *mockObjectStore) *service {
	svc := NewService(ServiceDeps{NoteRepo: ns, ObjectStore: obj, PresignTTL: time.Minute, ListMaxKeys: 50}).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestUpload_KeyAndNote(t *testing.T) {
	ns, obj := &mockNoteStore{}, &mockObjectStore{}
	wantKey := "u1/1740819600000-lecture_1.pdf"
	obj.On("Upload", mock.Anything, wantKey, mock.Anything, "application/pdf").
		Return("https://bucket.s3.amazonaws.com/"+wantKey, nil)
	ns.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Note) bool {
		return n.UserID == "u1" && n.Title == "lecture 1.pdf" && *n.FileKey == wantKey && n.Content == nil
	})).Return(nil)

	n, err := newTestService(ns, obj).Upload(context.Background(), UploadInput{
		Reader: strings.NewReader("%PDF"), Filename: "lecture 1.pdf", ContentType: "application/pdf", UserID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/"+wantKey, *n.FileURL)
	assert.NotEmpty(t, n.NoteID)
	ns.AssertExpectations(t)
}

func TestUpload_NoFile(t *testing.T) {
	_, err := newTestService(&mockNoteStore{}, &mockObjectStore{}).Upload(context.Background(), UploadInput{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUpload_NoteWriteFailureRemovesObject(t *testing.T) {
	ns, obj := &mockNoteStore{}, &mockObjectStore{}
	obj.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("url", nil)
	obj.On("Delete", mock.Anything, "u1/1740819600000-a.txt").Return(nil)
	ns.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	_, err := newTestService(ns, obj).Upload(context.Background(), UploadInput{
		Reader: strings.NewReader("x"), Filename: "a.txt", UserID: "u1",
	})
	require.Error(t, err)
	obj.AssertCalled(t, "Delete", mock.Anything, "u1/1740819600000-a.txt")
}

func TestSave_MissingFields(t *testing.T) {
	_, err := newTestService(&mockNoteStore{}, nil).Save(context.Background(), "u1", domain.SaveNoteRequest{Title: "t"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestSave_UsesCaller(t *testing.T) {
	ns := &mockNoteStore{}
	ns.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Note) bool {
		return n.UserID == "u1" && n.Title == "t" && *n.Content == "c" && n.FileKey == nil
	})).Return(nil)

	_, err := newTestService(ns, nil).Save(context.Background(), "u1", domain.SaveNoteRequest{Title: "t", Content: "c"})
	require.NoError(t, err)
	ns.AssertExpectations(t)
}

func TestListUploads_CallerPrefixAndPresign(t *testing.T) {
	obj := &mockObjectStore{}
	obj.On("List", mock.Anything, "u1/", int32(50)).Return([]domain.Upload{{Key: "u1/1-a.txt"}, {Key: "u1/2-b.txt"}}, nil)
	obj.On("PresignedURL", mock.Anything, "u1/1-a.txt", time.Minute).Return("signed-a", nil)
	obj.On("PresignedURL", mock.Anything, "u1/2-b.txt", time.Minute).Return("signed-b", nil)

	items, err := newTestService(nil, obj).ListUploads(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "signed-a", items[0].URL)
	assert.Equal(t, "signed-b", items[1].URL)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"notes.pdf":          "notes.pdf",
		"../../etc/passwd":   "passwd",
		`C:\Users\me\hw.doc`: "hw.doc",
		"my file (1).txt":    "my_file__1_.txt",
		"":                   "_",
		"..":                 "_",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}
