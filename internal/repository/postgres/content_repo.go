package postgres

import (
	"context"

	"github.com/and161185/brainly/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ContentRepo implements ContentRepository using PostgreSQL.
type ContentRepo struct{ db *DB }

// NewContentRepo constructs a content repository.
func NewContentRepo(db *DB) *ContentRepo { return &ContentRepo{db: db} }

// Create inserts a content row. Nil tags are stored as an empty array.
func (r *ContentRepo) Create(ctx context.Context, c *model.Content) error {
	const q = `
INSERT INTO contents (id, user_id, link, type, title, tags)
VALUES ($1, $2, $3, $4, $5, $6)`
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.db.Pool.Exec(ctx, q, c.ID, c.UserID, c.Link, c.Type, c.Title, tags)
	return err
}

// ListByUser returns the owner's content joined with the owner's username.
func (r *ContentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Content, error) {
	const q = `
SELECT c.id, c.user_id, u.username, c.link, c.type, c.title, c.tags, c.created_at
FROM contents c JOIN users u ON u.id = c.user_id
WHERE c.user_id=$1
ORDER BY c.created_at ASC, c.id ASC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Content{}
	for rows.Next() {
		var c model.Content
		if err = rows.Scan(&c.ID, &c.UserID, &c.Username, &c.Link, &c.Type, &c.Title, &c.Tags, &c.CreatedAt); err != nil {
			return nil, err
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes content only when both id and owner match.
func (r *ContentRepo) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM contents WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
