package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/dmitrijs2005/flava/internal/dbx"
	"github.com/dmitrijs2005/flava/internal/server/auth"
	"github.com/dmitrijs2005/flava/internal/server/models"
)

// Action tokens carry the user's email as subject and are bound to one
// scope. They are not single-use: a token stays redeemable until it expires.

// RequestVerification issues an email-verification token for user and hands
// it to the notifier.
func (s *UserService) RequestVerification(ctx context.Context, user *models.User) (string, error) {
	token, err := s.issueAction(user.Email, auth.ScopeEmailVerification)
	if err != nil {
		return "", err
	}
	s.notifier.SendVerification(user.Email, user.Username, token)
	return token, nil
}

// RedeemVerification marks the token's user verified. Token failures are
// *auth.TokenError values; a vanished user is common.ErrorNotFound.
func (s *UserService) RedeemVerification(ctx context.Context, token string) error {
	email, err := s.verifyAction(token, auth.ScopeEmailVerification)
	if err != nil {
		return err
	}

	return s.db.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user.Verified {
			return nil
		}
		return repo.MarkVerified(ctx, user.ID)
	})
}

// RequestPasswordReset issues a password-reset token for the account with
// the given email. Unknown emails yield common.ErrorNotFound.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := s.issueAction(user.Email, auth.ScopePasswordReset)
	if err != nil {
		return "", err
	}
	s.notifier.SendPasswordReset(user.Email, user.Username, token)
	return token, nil
}

// RedeemPasswordReset replaces the password of the token's user.
func (s *UserService) RedeemPasswordReset(ctx context.Context, token, newPassword string) error {
	email, err := s.verifyAction(token, auth.ScopePasswordReset)
	if err != nil {
		return err
	}

	digest, err := s.tokens.Hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		return fmt.Errorf("hash password: %w", err)
	}

	return s.db.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		return repo.UpdatePassword(ctx, user.ID, digest)
	})
}

func (s *UserService) issueAction(email, scope string) (string, error) {
	token, err := s.tokens.Actions.Issue(auth.Claims{auth.ClaimSubject: email}, ActionTokenTTL, scope)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

func (s *UserService) verifyAction(token, scope string) (string, error) {
	claims, err := s.tokens.Actions.Verify(token, scope)
	if err != nil {
		return "", err
	}
	email, ok := claims.Subject()
	if !ok {
		return "", auth.ErrTokenBadSignature
	}
	return email, nil
}
