package repository

import (
	"context"

	"github.com/and161185/brainly/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ShareLinkRepository stores at most one share link per user.
type ShareLinkRepository interface {
	// Create inserts a link; an existing link for the user or a duplicate hash yields errs.ErrAlreadyExists.
	Create(ctx context.Context, l *model.ShareLink) error
	// GetByUser returns the user's link or errs.ErrNotFound.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.ShareLink, error)
	// GetByHash resolves a link by its public hash or returns errs.ErrNotFound.
	GetByHash(ctx context.Context, hash string) (*model.ShareLink, error)
	// DeleteByUser removes the user's link if any.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
