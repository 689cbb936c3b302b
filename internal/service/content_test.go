package service

import (
	"context"
	"errors"
	"testing"

	"github.com/and161185/brainly/internal/errs"
	"github.com/and161185/brainly/internal/model"
	"github.com/and161185/brainly/internal/repository"
	"github.com/gofrs/uuid/v5"
)

type fakeContents struct {
	rows []model.Content

	createErr error
	listErr   error

	lastDeleteUser uuid.UUID
	lastDeleteID   uuid.UUID
}

var _ repository.ContentRepository = (*fakeContents)(nil)

func (f *fakeContents) Create(_ context.Context, c *model.Content) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, *c)
	return nil
}
func (f *fakeContents) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Content, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Content{}
	for _, c := range f.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeContents) Delete(_ context.Context, userID, id uuid.UUID) (bool, error) {
	f.lastDeleteUser, f.lastDeleteID = userID, id
	for i, c := range f.rows {
		if c.ID == id && c.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func TestContent_Create(t *testing.T) {
	t.Parallel()
	repo := &fakeContents{}
	s := NewContentService(repo)
	uid := uuid.Must(uuid.NewV4())

	if _, err := s.Create(context.Background(), uuid.Nil, ContentInput{Link: "l", Type: "t", Title: "x"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error (nil userID), got %v", err)
	}
	if _, err := s.Create(context.Background(), uid, ContentInput{Link: "l", Type: "t"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error (no title), got %v", err)
	}

	c, err := s.Create(context.Background(), uid, ContentInput{Link: "http://e.com", Type: "article", Title: "t"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == uuid.Nil || c.UserID != uid {
		t.Fatalf("bad content: %+v", c)
	}
	if c.Tags == nil || len(c.Tags) != 0 {
		t.Fatalf("tags must be an empty sequence, got %#v", c.Tags)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("row not stored")
	}

	repo.createErr = errors.New("boom")
	if _, err := s.Create(context.Background(), uid, ContentInput{Link: "l", Type: "t", Title: "x"}); err == nil {
		t.Fatalf("want propagated repo error")
	}
}

func TestContent_ListAndDelete_OwnerScoped(t *testing.T) {
	t.Parallel()
	repo := &fakeContents{}
	s := NewContentService(repo)
	alice, bob := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	ctx := context.Background()

	c, err := s.Create(ctx, alice, ContentInput{Link: "l", Type: "t", Title: "a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := s.List(ctx, bob)
	if err != nil || len(list) != 0 {
		t.Fatalf("bob must see nothing: %v %v", list, err)
	}

	if err := s.Delete(ctx, bob, c.ID); err != nil {
		t.Fatalf("non-matching delete is still success: %v", err)
	}
	if repo.lastDeleteUser != bob {
		t.Fatalf("delete must be scoped by caller")
	}
	list, _ = s.List(ctx, alice)
	if len(list) != 1 {
		t.Fatalf("bob's delete removed alice's row")
	}

	if err := s.Delete(ctx, alice, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ = s.List(ctx, alice)
	if len(list) != 0 {
		t.Fatalf("row not deleted")
	}

	if err := s.Delete(ctx, alice, uuid.Nil); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error on nil id, got %v", err)
	}
	if _, err := s.List(ctx, uuid.Nil); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error on nil user, got %v", err)
	}
}
