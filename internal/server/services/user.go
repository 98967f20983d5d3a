// Package services contains server-side business logic. This file implements
// UserService: registration, login and resolving bearer tokens to users.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/dmitrijs2005/flava/internal/dbx"
	"github.com/dmitrijs2005/flava/internal/logging"
	"github.com/dmitrijs2005/flava/internal/server/auth"
	"github.com/dmitrijs2005/flava/internal/server/models"
	"github.com/dmitrijs2005/flava/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ActionTokenTTL is the lifetime of verification and reset tokens.
const ActionTokenTTL = time.Hour

// Notifier delivers action-token emails. Implementations must not block.
type Notifier interface {
	SendVerification(email, username, token string)
	SendPasswordReset(email, username, token string)
}

// Tokens groups the credential primitives UserService depends on.
type Tokens struct {
	Hasher     *auth.Hasher
	Sessions   *auth.Codec
	Actions    *auth.Codec
	SessionTTL time.Duration
}

// UserService provides authentication-related operations.
type UserService struct {
	db          dbx.DB
	repomanager repomanager.RepositoryManager
	tokens      Tokens
	notifier    Notifier
	logger      logging.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewUserService(db dbx.DB, m repomanager.RepositoryManager, tokens Tokens, notifier Notifier, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		notifier:    notifier,
		logger:      logger,
	}
}

// RegisterInput is a validated registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// Register creates an unverified user and mails a verification link. A
// taken email or username yields common.ErrConflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	digest, err := s.tokens.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: digest,
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	if _, err := s.RequestVerification(ctx, u); err != nil {
		s.logger.Error(ctx, "verification token not issued", "user_id", u.ID, "error", err)
	}
	return u, nil
}

// Login checks credentials and returns a session token. Unknown email and
// wrong password produce the same common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep timing equal to a password mismatch
			s.tokens.Hasher.Verify(password, s.dummy())
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !s.tokens.Hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Sessions.Issue(auth.Claims{auth.ClaimSubject: user.Username}, s.tokens.SessionTTL, "")
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// Resolve maps a session token to its user. Every token or lookup failure
// is common.ErrorUnauthorized; only store outages surface differently.
func (s *UserService) Resolve(ctx context.Context, bearer string) (*models.User, error) {
	claims, err := s.tokens.Sessions.Verify(bearer, "")
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	username, ok := claims.Subject()
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return user, nil
}

// GetByID returns a user or common.ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.tokens.Hasher.Hash("flava-dummy-password")
	})
	return s.dummyDigest
}
