package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-kpi-tracker/internal/models"

	"go.uber.org/zap"
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, u *models.User) (bool, error)
}

// Service logs users in and seeds accounts from the CLI
type Service struct {
	users  UserStore
	tokens *Tokens
	log    *zap.Logger
}

func NewService(users UserStore, tokens *Tokens, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, tokens: tokens, log: log.Named("auth")}
}

// Login verifies credentials and returns a signed token with the user
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, models.Invalid("email", "email and password are required")
	}
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !VerifyPassword(password, u.PasswordHash) {
		s.log.Info("Auth: password mismatch", zap.String("email", u.Email))
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Bootstrap creates or updates a user with an explicit password and role
func (s *Service) Bootstrap(ctx context.Context, email, username, password, role string) (*models.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, false, models.Invalid("email", "a valid email is required")
	}
	if len(password) < 8 {
		return nil, false, models.Invalid("password", "must be at least 8 characters")
	}
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, false, models.Invalid("role", "unknown role %q", role)
	}
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	u := &models.User{Username: username, Email: email, PasswordHash: hash, Role: r}
	created, err := s.users.UpsertUser(ctx, u)
	if err != nil {
		return nil, false, fmt.Errorf("bootstrap user: %w", err)
	}
	s.log.Info("Auth: user bootstrapped",
		zap.String("email", u.Email), zap.String("role", string(r)), zap.Bool("created", created))
	return u, created, nil
}
