package users

import (
	"context"

	"github.com/dmitrijs2005/flava/internal/server/models"
	"github.com/google/uuid"
)

// Repository persists user accounts. Lookups return common.ErrorNotFound
// when no row matches; Create returns common.ErrorAlreadyExists when the
// email or username is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
