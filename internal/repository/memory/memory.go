// Package memory contains in-process implementations of repository interfaces.
// They keep the same uniqueness guarantees as the PostgreSQL schema and are
// used when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/and161185/brainly/internal/errs"
	"github.com/and161185/brainly/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/puzpuzpuz/xsync/v3"
)

type contentRow struct {
	c   model.Content
	seq int64
}

// Store holds all collections; repositories are views over it.
type Store struct {
	users      *xsync.MapOf[uuid.UUID, model.User]
	userByName *xsync.MapOf[string, uuid.UUID]
	contents   *xsync.MapOf[uuid.UUID, contentRow]
	links      *xsync.MapOf[uuid.UUID, model.ShareLink]
	linkByHash *xsync.MapOf[string, uuid.UUID]
	seq        atomic.Int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:      xsync.NewMapOf[uuid.UUID, model.User](),
		userByName: xsync.NewMapOf[string, uuid.UUID](),
		contents:   xsync.NewMapOf[uuid.UUID, contentRow](),
		links:      xsync.NewMapOf[uuid.UUID, model.ShareLink](),
		linkByHash: xsync.NewMapOf[string, uuid.UUID](),
	}
}

// Users returns the user repository view.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Contents returns the content repository view.
func (s *Store) Contents() *ContentRepo { return &ContentRepo{s: s} }

// ShareLinks returns the share link repository view.
func (s *Store) ShareLinks() *ShareLinkRepo { return &ShareLinkRepo{s: s} }

// UserRepo implements UserRepository in memory.
type UserRepo struct{ s *Store }

// Create stores the user unless the username is taken.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cpy := *u
	cpy.PwdHash = append([]byte(nil), u.PwdHash...)
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = time.Now().UTC()
	}
	// the row goes in first so the name index never points at a missing user
	r.s.users.Store(cpy.ID, cpy)
	if _, loaded := r.s.userByName.LoadOrStore(cpy.Username, cpy.ID); loaded {
		r.s.users.Delete(cpy.ID)
		return errs.ErrAlreadyExists
	}
	return nil
}

// GetByID loads a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := r.s.users.Load(id)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

// GetByUsername loads a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, ok := r.s.userByName.Load(username)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// ContentRepo implements ContentRepository in memory.
type ContentRepo struct{ s *Store }

// Create stores a content row.
func (r *ContentRepo) Create(ctx context.Context, c *model.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cpy := *c
	cpy.Username = ""
	cpy.Tags = append([]string{}, c.Tags...)
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = time.Now().UTC()
	}
	if _, loaded := r.s.contents.LoadOrStore(cpy.ID, contentRow{c: cpy, seq: r.s.seq.Add(1)}); loaded {
		return errs.ErrAlreadyExists
	}
	return nil
}

// ListByUser returns the owner's content in insertion order with Username filled.
func (r *ContentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []contentRow
	r.s.contents.Range(func(_ uuid.UUID, row contentRow) bool {
		if row.c.UserID == userID {
			rows = append(rows, row)
		}
		return true
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	var username string
	if u, ok := r.s.users.Load(userID); ok {
		username = u.Username
	}
	out := make([]model.Content, 0, len(rows))
	for _, row := range rows {
		c := row.c
		c.Username = username
		c.Tags = append([]string{}, row.c.Tags...)
		out = append(out, c)
	}
	return out, nil
}

// Delete removes the row only if it belongs to userID.
func (r *ContentRepo) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	deleted := false
	r.s.contents.Compute(id, func(row contentRow, loaded bool) (contentRow, bool) {
		if !loaded {
			return row, true
		}
		if row.c.UserID != userID {
			return row, false
		}
		deleted = true
		return row, true
	})
	return deleted, nil
}

// ShareLinkRepo implements ShareLinkRepository in memory.
type ShareLinkRepo struct{ s *Store }

// Create stores the link unless the user already has one or the hash is taken.
func (r *ShareLinkRepo) Create(ctx context.Context, l *model.ShareLink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cpy := *l
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = time.Now().UTC()
	}
	if _, loaded := r.s.linkByHash.LoadOrStore(cpy.Hash, cpy.UserID); loaded {
		return errs.ErrAlreadyExists
	}
	if _, loaded := r.s.links.LoadOrStore(cpy.UserID, cpy); loaded {
		r.s.linkByHash.Delete(cpy.Hash)
		return errs.ErrAlreadyExists
	}
	return nil
}

// GetByUser returns the user's link.
func (r *ShareLinkRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*model.ShareLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, ok := r.s.links.Load(userID)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &l, nil
}

// GetByHash resolves a link by hash.
func (r *ShareLinkRepo) GetByHash(ctx context.Context, hash string) (*model.ShareLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	userID, ok := r.s.linkByHash.Load(hash)
	if !ok {
		return nil, errs.ErrNotFound
	}
	l, ok := r.s.links.Load(userID)
	if !ok || l.Hash != hash {
		return nil, errs.ErrNotFound
	}
	return &l, nil
}

// DeleteByUser removes the user's link if present.
func (r *ShareLinkRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l, ok := r.s.links.LoadAndDelete(userID); ok {
		r.s.linkByHash.Delete(l.Hash)
	}
	return nil
}
