// Package redisotp keeps one-time codes in Redis, one hash per identity.
package redisotp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/student-bubble/internal/domain"
)

const (
	keyPrefix = "otp:"

	fieldCode      = "code"
	fieldExpiresAt = "expires_at"

	// retention keeps an expired record around so verification can still
	// report it as expired instead of missing.
	retention = time.Hour
)

type Store struct {
	client *redis.Client
}

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(identity string) string { return keyPrefix + identity }

// Put replaces any record for the identity.
func (s *Store) Put(ctx context.Context, rec domain.OtpRecord) error {
	k := key(rec.Identity)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, k)
		p.HSet(ctx, k,
			fieldCode, rec.Code,
			fieldExpiresAt, strconv.FormatInt(rec.ExpiresAt.UnixMilli(), 10),
		)
		p.ExpireAt(ctx, k, rec.ExpiresAt.Add(retention))
		return nil
	})
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, identity string) (domain.OtpRecord, bool, error) {
	vals, err := s.client.HGetAll(ctx, key(identity)).Result()
	if err != nil {
		return domain.OtpRecord{}, false, fmt.Errorf("load otp: %w", err)
	}
	if len(vals) == 0 {
		return domain.OtpRecord{}, false, nil
	}
	ms, err := strconv.ParseInt(vals[fieldExpiresAt], 10, 64)
	if err != nil {
		return domain.OtpRecord{}, false, fmt.Errorf("parse otp expiry: %w", err)
	}
	return domain.OtpRecord{
		Identity:  identity,
		Code:      vals[fieldCode],
		ExpiresAt: time.UnixMilli(ms).UTC(),
	}, true, nil
}

// Consume deletes the record only while its code still equals code. A
// concurrent write to the key aborts the transaction and reports false.
func (s *Store) Consume(ctx context.Context, identity, code string) (bool, error) {
	k := key(identity)
	consumed := false
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, k, fieldCode).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if current != code {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, k)
			return nil
		})
		if err != nil {
			return err
		}
		consumed = true
		return nil
	}, k)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return consumed, nil
}
