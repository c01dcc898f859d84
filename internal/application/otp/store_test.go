package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/student-bubble/internal/domain"
)

func TestMemoryStore_PutOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, domain.OtpRecord{Identity: "a@x.com", Code: "111111", ExpiresAt: t0}))
	require.NoError(t, s.Put(ctx, domain.OtpRecord{Identity: "a@x.com", Code: "222222", ExpiresAt: t0.Add(time.Minute)}))

	rec, ok, err := s.Get(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "222222", rec.Code)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_ConsumeRequiresMatchingCode(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, domain.OtpRecord{Identity: "a@x.com", Code: "111111", ExpiresAt: t0}))

	ok, err := s.Consume(ctx, "a@x.com", "999999")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	ok, err = s.Consume(ctx, "a@x.com", "111111")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, s.Len())

	ok, err = s.Consume(ctx, "a@x.com", "111111")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "5 minutes", humanDuration(5*time.Minute))
	assert.Equal(t, "1 minute", humanDuration(time.Minute))
	assert.Equal(t, "1m30s", humanDuration(90*time.Second))
}
