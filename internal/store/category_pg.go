package store

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/library"
)

// CategoryPG is the Postgres implementation of library.CategoryRepository.
type CategoryPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewCategoryPG(db *pgxpool.Pool, timeout time.Duration) *CategoryPG {
	return &CategoryPG{db: db, timeout: timeout}
}

func (r *CategoryPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *CategoryPG) FindByID(ctx context.Context, id int64) (library.Category, error) {
	query, args, err := build(selectCategories().Where(goqu.C(colID).Eq(id)))
	if err != nil {
		return library.Category{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var c library.Category
	if err := conn(ctx, r.db).QueryRow(timeoutCtx, query, args...).Scan(&c.ID, &c.Name); err != nil {
		return library.Category{}, translate(err)
	}
	return c, nil
}

func (r *CategoryPG) Save(ctx context.Context, c library.Category) (library.Category, error) {
	var b sqlBuilder
	if c.ID == 0 {
		b = dialect.Insert(tableCategories).
			Rows(goqu.Record{colName: c.Name}).
			Returning(colID).
			Prepared(true)
	} else {
		b = dialect.Update(tableCategories).
			Set(goqu.Record{colName: c.Name}).
			Where(goqu.C(colID).Eq(c.ID)).
			Returning(colID).
			Prepared(true)
	}
	query, args, err := build(b)
	if err != nil {
		return library.Category{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := conn(ctx, r.db).QueryRow(timeoutCtx, query, args...).Scan(&c.ID); err != nil {
		return library.Category{}, fmt.Errorf("save category: %w", translate(err))
	}
	c.Books = nil
	return c, nil
}

func (r *CategoryPG) DeleteByID(ctx context.Context, id int64) error {
	query, args, err := build(dialect.Delete(tableCategories).Where(goqu.C(colID).Eq(id)).Prepared(true))
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := conn(ctx, r.db).Exec(timeoutCtx, query, args...)
	if err != nil {
		return fmt.Errorf("delete category: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return library.ErrRecordNotFound
	}
	return nil
}

func (r *CategoryPG) FindAll(ctx context.Context) ([]library.Category, error) {
	query, args, err := build(selectCategories())
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := conn(ctx, r.db).Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []library.Category{}
	for rows.Next() {
		var c library.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
