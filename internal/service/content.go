package service

import (
	"context"
	"fmt"

	"github.com/and161185/brainly/internal/errs"
	"github.com/and161185/brainly/internal/model"
	"github.com/and161185/brainly/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// ContentInput is a link to bookmark.
type ContentInput struct {
	Link  string
	Type  string
	Title string
}

// ContentService defines owner-scoped operations over bookmarked content.
type ContentService interface {
	// Create stores content for the user with an empty tag list.
	Create(ctx context.Context, userID uuid.UUID, in ContentInput) (*model.Content, error)
	// List returns all content owned by the user.
	List(ctx context.Context, userID uuid.UUID) ([]model.Content, error)
	// Delete removes the user's content by id; a missing row is not an error.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type ContentServiceImpl struct {
	repo repository.ContentRepository
}

// NewContentService constructs ContentService.
func NewContentService(repo repository.ContentRepository) *ContentServiceImpl {
	return &ContentServiceImpl{repo: repo}
}

// Create validates input and stores the content.
func (s *ContentServiceImpl) Create(ctx context.Context, userID uuid.UUID, in ContentInput) (*model.Content, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}
	if blank(in.Link) || blank(in.Type) || blank(in.Title) {
		return nil, fmt.Errorf("%w: link, type and title are required", errs.ErrValidation)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	c := &model.Content{
		ID:     id,
		Link:   in.Link,
		Type:   in.Type,
		Title:  in.Title,
		UserID: userID,
		Tags:   []string{},
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the user's content.
func (s *ContentServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]model.Content, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}
	return s.repo.ListByUser(ctx, userID)
}

// Delete scopes the delete to the owner. Ownership is enforced by the repository predicate.
func (s *ContentServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return fmt.Errorf("%w: empty userID/id", errs.ErrValidation)
	}
	_, err := s.repo.Delete(ctx, userID, id)
	return err
}
