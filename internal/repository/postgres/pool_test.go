package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/and161185/brainly/internal/errs"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestDB_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	db := &DB{Pool: mock}
	ctx := context.Background()

	mock.ExpectPing()
	require.NoError(t, db.Ping(ctx))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	require.Error(t, db.Ping(ctx))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_BadDSN(t *testing.T) {
	_, err := New(context.Background(), "postgres://%%")
	require.Error(t, err)
}

func TestNotFound(t *testing.T) {
	require.ErrorIs(t, notFound(pgx.ErrNoRows), errs.ErrNotFound)
	require.ErrorIs(t, notFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)), errs.ErrNotFound)

	other := errors.New("bad column")
	require.Equal(t, other, notFound(other))
	require.NoError(t, notFound(nil))
}
