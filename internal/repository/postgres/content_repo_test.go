package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/and161185/brainly/internal/model"
	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestContentRepo_Create_EmptyTags(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewContentRepo(db)
	c := &model.Content{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: uuid.Must(uuid.NewV4()),
		Link:   "http://e.com",
		Type:   "article",
		Title:  "t",
	}

	mock.ExpectExec(`INSERT INTO contents \(id, user_id, link, type, title, tags\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)`).
		WithArgs(c.ID, c.UserID, c.Link, c.Type, c.Title, []string{}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(context.Background(), c))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepo_ListByUser(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewContentRepo(db)
	userID := uuid.Must(uuid.NewV4())
	id1, id2 := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	now := time.Now()

	cols := []string{"id", "user_id", "username", "link", "type", "title", "tags", "created_at"}
	mock.ExpectQuery(`SELECT c.id, c.user_id, u.username, c.link, c.type, c.title, c.tags, c.created_at FROM contents c JOIN users u ON u.id = c.user_id WHERE c.user_id=\$1`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(id1, userID, "alice", "http://a", "article", "a", []string{}, now).
			AddRow(id2, userID, "alice", "http://b", "video", "b", []string{"t1"}, now.Add(time.Second)))

	out, err := r.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, id1, out[0].ID)
	require.Equal(t, "alice", out[0].Username)
	require.Equal(t, []string{"t1"}, out[1].Tags)
}

func TestContentRepo_ListByUser_EmptyAndError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewContentRepo(db)
	userID := uuid.Must(uuid.NewV4())

	cols := []string{"id", "user_id", "username", "link", "type", "title", "tags", "created_at"}
	mock.ExpectQuery(`SELECT c.id`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(cols))
	out, err := r.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)

	boom := errors.New("boom")
	mock.ExpectQuery(`SELECT c.id`).
		WithArgs(userID).
		WillReturnError(boom)
	_, err = r.ListByUser(context.Background(), userID)
	require.ErrorIs(t, err, boom)
}

func TestContentRepo_Delete_ScopedToOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewContentRepo(db)
	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`DELETE FROM contents WHERE id=\$1 AND user_id=\$2`).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	ok, err := r.Delete(context.Background(), userID, id)
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectExec(`DELETE FROM contents WHERE id=\$1 AND user_id=\$2`).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	ok, err = r.Delete(context.Background(), userID, id)
	require.NoError(t, err)
	require.False(t, ok)
}
