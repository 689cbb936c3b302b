package postgres

import (
	"context"

	"github.com/and161185/brainly/internal/errs"
	"github.com/and161185/brainly/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// ShareLinkRepo implements ShareLinkRepository using PostgreSQL.
type ShareLinkRepo struct{ db *DB }

// NewShareLinkRepo constructs a share link repository.
func NewShareLinkRepo(db *DB) *ShareLinkRepo { return &ShareLinkRepo{db: db} }

// Create inserts a link. Both user_id and hash are unique.
func (r *ShareLinkRepo) Create(ctx context.Context, l *model.ShareLink) error {
	const q = `INSERT INTO share_links (user_id, hash) VALUES ($1, $2)`
	_, err := r.db.Pool.Exec(ctx, q, l.UserID, l.Hash)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByUser selects the user's link.
func (r *ShareLinkRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*model.ShareLink, error) {
	const q = `SELECT user_id, hash, created_at FROM share_links WHERE user_id=$1`
	return scanShareLink(r.db.Pool.QueryRow(ctx, q, userID))
}

// GetByHash selects a link by its public hash.
func (r *ShareLinkRepo) GetByHash(ctx context.Context, hash string) (*model.ShareLink, error) {
	const q = `SELECT user_id, hash, created_at FROM share_links WHERE hash=$1`
	return scanShareLink(r.db.Pool.QueryRow(ctx, q, hash))
}

// DeleteByUser removes the user's link; deleting nothing is not an error.
func (r *ShareLinkRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	const q = `DELETE FROM share_links WHERE user_id=$1`
	_, err := r.db.Pool.Exec(ctx, q, userID)
	return err
}

func scanShareLink(row pgx.Row) (*model.ShareLink, error) {
	var l model.ShareLink
	if err := row.Scan(&l.UserID, &l.Hash, &l.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}
