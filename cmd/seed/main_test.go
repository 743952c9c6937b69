package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/apperr"
	"libraryapi/internal/library"
	"libraryapi/internal/library/mocks"
)

func TestSeed_SkipsExistingCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	categories := mocks.NewMockCategoryRepository(ctrl)
	books := mocks.NewMockBookRepository(ctrl)
	tx := mocks.NewMockTransactor(ctrl)
	svc := library.NewService(categories, books, tx, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tx.EXPECT().
		WithinTx(gomock.Any(), library.ReadWrite, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ library.TxMode, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()

	saved := map[int64]library.Category{}
	categories.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c library.Category) (library.Category, error) {
			if c.Name == "Fiction" {
				return library.Category{}, apperr.ConstraintViolation("duplicate key")
			}
			c.ID = int64(len(saved) + 1)
			saved[c.ID] = c
			return c, nil
		}).
		AnyTimes()
	categories.EXPECT().
		FindByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64) (library.Category, error) {
			return saved[id], nil
		}).
		AnyTimes()
	books.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b library.Book) (library.Book, error) {
			b.ID = 1
			return b, nil
		}).
		Times(3)

	nCategories, nBooks, err := seed(context.Background(), svc)
	require.NoError(t, err)
	assert.Equal(t, 3, nCategories)
	assert.Equal(t, 3, nBooks)
}
