package artisan

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_ApplyOrderRevenue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	agg := NewAggregator()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE artisans\s+SET total_sales = total_sales \+ 1`).
			WithArgs(50.0, "art-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)
		defer tx.Rollback()

		assert.NoError(t, agg.ApplyOrderRevenue(ctx, tx, "art-1", 50.0))
	})

	t.Run("UnknownArtisan", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE artisans\s+SET total_sales = total_sales \+ 1`).
			WithArgs(50.0, "art-missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)
		defer tx.Rollback()

		err = agg.ApplyOrderRevenue(ctx, tx, "art-missing", 50.0)
		assert.ErrorIs(t, err, ErrArtisanNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE artisans\s+SET total_sales = total_sales \+ 1`).
			WithArgs(10.0, "art-1").
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)
		defer tx.Rollback()

		assert.Error(t, agg.ApplyOrderRevenue(ctx, tx, "art-1", 10.0))
	})
}
