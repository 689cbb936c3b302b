package service

import (
	"context"
	"errors"
	"fmt"

	pkgcrypto "github.com/and161185/brainly/internal/crypto"
	"github.com/and161185/brainly/internal/errs"
	"github.com/and161185/brainly/internal/model"
	"github.com/and161185/brainly/internal/repository"
	"github.com/gofrs/uuid/v5"
	"golang.org/x/sync/errgroup"
)

// ShareHashLen is the length of generated share hashes.
const ShareHashLen = 10

const maxHashAttempts = 5

// ShareService defines publishing of a read-only snapshot of a user's content.
type ShareService interface {
	// Enable returns the user's share hash, creating one if needed.
	Enable(ctx context.Context, userID uuid.UUID) (string, error)
	// Disable removes the user's share link if any.
	Disable(ctx context.Context, userID uuid.UUID) error
	// Resolve returns the owner's username and content for a public hash.
	Resolve(ctx context.Context, hash string) (*model.SharedBrain, error)
}

type ShareServiceImpl struct {
	links    repository.ShareLinkRepository
	contents repository.ContentRepository
	users    repository.UserRepository
	gen      func(n int) (string, error)
}

// NewShareService constructs ShareService.
func NewShareService(links repository.ShareLinkRepository, contents repository.ContentRepository, users repository.UserRepository) *ShareServiceImpl {
	return &ShareServiceImpl{links: links, contents: contents, users: users, gen: pkgcrypto.RandString}
}

// Enable is idempotent: an existing link is returned as is. When two requests
// race, the loser's insert conflicts and the next pass reads the winner's hash.
// A conflict caused by a hash collision retries with a fresh hash.
func (s *ShareServiceImpl) Enable(ctx context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}
	for i := 0; i < maxHashAttempts; i++ {
		l, err := s.links.GetByUser(ctx, userID)
		if err == nil {
			return l.Hash, nil
		}
		if !errors.Is(err, errs.ErrNotFound) {
			return "", err
		}

		hash, err := s.gen(ShareHashLen)
		if err != nil {
			return "", err
		}
		err = s.links.Create(ctx, &model.ShareLink{UserID: userID, Hash: hash})
		if err == nil {
			return hash, nil
		}
		if !errors.Is(err, errs.ErrAlreadyExists) {
			return "", err
		}
	}
	return "", errors.New("share: could not allocate a unique hash")
}

// Disable deletes unconditionally.
func (s *ShareServiceImpl) Disable(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}
	return s.links.DeleteByUser(ctx, userID)
}

// Resolve loads the owner's content and user record in parallel.
func (s *ShareServiceImpl) Resolve(ctx context.Context, hash string) (*model.SharedBrain, error) {
	if hash == "" {
		return nil, ErrInvalidShareLink
	}
	l, err := s.links.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrInvalidShareLink
		}
		return nil, err
	}

	var (
		content []model.Content
		owner   *model.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.contents.ListByUser(gctx, l.UserID)
		content = c
		return err
	})
	g.Go(func() error {
		u, err := s.users.GetByID(gctx, l.UserID)
		if errors.Is(err, errs.ErrNotFound) {
			return ErrOwnerNotFound
		}
		owner = u
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if content == nil {
		content = []model.Content{}
	}
	return &model.SharedBrain{Username: owner.Username, Content: content}, nil
}
