package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/student-bubble/internal/domain"
	"github.com/student-bubble/internal/pkg/id"
	"github.com/student-bubble/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// Login failures the client is told about by name.
var (
	ErrUserNotFound    = fmt.Errorf("user not found: %w", domain.ErrBadRequest)
	ErrInvalidPassword = fmt.Errorf("invalid password: %w", domain.ErrBadRequest)
)

type Service interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (domain.VerifyOutcome, error)
	Signup(ctx context.Context, req domain.SignupRequest) (string, *domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error)
}

type otpVerifier interface {
	Issue(ctx context.Context, identity string) (string, error)
	Verify(ctx context.Context, identity, candidate string) (domain.VerifyOutcome, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type tokenSigner interface {
	Sign(userID, email string) (string, error)
}

type service struct {
	verifier otpVerifier
	users    userStore
	tokens   tokenSigner
	now      func() time.Time
}

type ServiceDeps struct {
	Verifier    otpVerifier
	UserRepo    userStore
	JWTProvider tokenSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		verifier: deps.Verifier,
		users:    deps.UserRepo,
		tokens:   deps.JWTProvider,
		now:      time.Now,
	}
}

func (s *service) SendOTP(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email required: %w", domain.ErrBadRequest)
	}
	if _, err := s.verifier.Issue(ctx, email); err != nil {
		slog.Error("otp delivery failed", "identity", email, "err", err)
		return err
	}
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) (domain.VerifyOutcome, error) {
	return s.verifier.Verify(ctx, email, code)
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) (string, *domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return "", nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", nil, err
	}
	if existing != nil {
		return "", nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Put(ctx, u); err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Sign(u.UserID, u.Email)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return "", nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, ErrUserNotFound
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidPassword
	}
	token, err := s.tokens.Sign(u.UserID, u.Email)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
