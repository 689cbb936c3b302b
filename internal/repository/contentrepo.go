package repository

import (
	"context"

	"github.com/and161185/brainly/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ContentRepository stores bookmarked links scoped to their owner.
type ContentRepository interface {
	// Create inserts a content row.
	Create(ctx context.Context, c *model.Content) error
	// ListByUser returns the owner's content in creation order, with Username filled.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Content, error)
	// Delete removes the row matching both id and owner. It reports whether a row was removed.
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
}
