// Package service contains application services for accounts, content and share links.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgcrypto "github.com/and161185/brainly/internal/crypto"
	"github.com/and161185/brainly/internal/errs"
	"github.com/and161185/brainly/internal/limiter"
	"github.com/and161185/brainly/internal/model"
	"github.com/and161185/brainly/internal/repository"
	"github.com/and161185/brainly/internal/token"
	"github.com/gofrs/uuid/v5"
)

// bcrypt ignores input past 72 bytes.
const maxPasswordLen = 72

// SignupInput carries the fields required to create an account.
type SignupInput struct {
	Username string
	Name     string
	Email    string
	Password string
}

// AuthService defines account creation and authentication.
type AuthService interface {
	// Signup creates a user and returns a session token.
	Signup(ctx context.Context, in SignupInput) (string, error)
	// Signin checks credentials with rate limiting and returns a session token.
	Signin(ctx context.Context, username, password, ip string) (string, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens *token.Manager
	lim    limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens *token.Manager, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens, lim: lim}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Signup validates input, stores a bcrypt hash and issues a token for the new user.
func (s *AuthServiceImpl) Signup(ctx context.Context, in SignupInput) (string, error) {
	if blank(in.Username) || blank(in.Name) || blank(in.Email) || in.Password == "" {
		return "", fmt.Errorf("%w: username, name, email and password are required", errs.ErrValidation)
	}
	if len(in.Password) > maxPasswordLen {
		return "", fmt.Errorf("%w: password longer than %d bytes", errs.ErrValidation, maxPasswordLen)
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	hash, err := pkgcrypto.HashPassword([]byte(in.Password))
	if err != nil {
		return "", err
	}
	u := &model.User{
		ID:       uid,
		Username: in.Username,
		Name:     in.Name,
		Email:    in.Email,
		PwdHash:  hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}
	return s.tokens.Issue(u.ID, u.Username)
}

// Signin authenticates with rate limiting by (username, ip).
func (s *AuthServiceImpl) Signin(ctx context.Context, username, password, ip string) (string, error) {
	if blank(username) || password == "" {
		return "", fmt.Errorf("%w: username and password are required", errs.ErrValidation)
	}
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return "", err
	}
	var stored []byte
	if u != nil {
		stored = u.PwdHash
	}
	// runs a bcrypt round even for unknown users
	if !pkgcrypto.VerifyPassword([]byte(password), stored) {
		// a lockout placed here applies from the next attempt on
		_, _, _ = s.lim.Failure(ctx, username, ipHash)
		return "", errs.ErrUnauthorized
	}

	// best-effort
	_ = s.lim.Success(ctx, username, ipHash)

	return s.tokens.Issue(u.ID, u.Username)
}
