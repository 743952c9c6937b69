package store

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/library"
)

// BookPG is the Postgres implementation of library.BookRepository.
type BookPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewBookPG(db *pgxpool.Pool, timeout time.Duration) *BookPG {
	return &BookPG{db: db, timeout: timeout}
}

func (r *BookPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *BookPG) FindByID(ctx context.Context, id int64) (library.Book, error) {
	query, args, err := build(selectBooks().Where(bookCol(colID).Eq(id)))
	if err != nil {
		return library.Book{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(conn(ctx, r.db).QueryRow(timeoutCtx, query, args...))
	if err != nil {
		return library.Book{}, translate(err)
	}
	return b, nil
}

func (r *BookPG) Save(ctx context.Context, b library.Book) (library.Book, error) {
	record := goqu.Record{
		colName:        b.Name,
		colDescription: b.Description,
		colCategoryID:  nil,
	}
	if b.Category != nil {
		record[colCategoryID] = b.Category.ID
	}

	var sb sqlBuilder
	if b.ID == 0 {
		sb = dialect.Insert(tableBooks).Rows(record).Returning(colID).Prepared(true)
	} else {
		sb = dialect.Update(tableBooks).
			Set(record).
			Where(goqu.C(colID).Eq(b.ID)).
			Returning(colID).
			Prepared(true)
	}
	query, args, err := build(sb)
	if err != nil {
		return library.Book{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := conn(ctx, r.db).QueryRow(timeoutCtx, query, args...).Scan(&b.ID); err != nil {
		return library.Book{}, fmt.Errorf("save book: %w", translate(err))
	}
	b.CategoryID = 0
	return b, nil
}

func (r *BookPG) DeleteByID(ctx context.Context, id int64) error {
	query, args, err := build(dialect.Delete(tableBooks).Where(goqu.C(colID).Eq(id)).Prepared(true))
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := conn(ctx, r.db).Exec(timeoutCtx, query, args...)
	if err != nil {
		return fmt.Errorf("delete book: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return library.ErrRecordNotFound
	}
	return nil
}

func (r *BookPG) FindAll(ctx context.Context) ([]library.Book, error) {
	return r.list(ctx, selectBooks())
}

func (r *BookPG) FindByName(ctx context.Context, name string) ([]library.Book, error) {
	return r.list(ctx, selectBooks().Where(bookCol(colName).Eq(name)))
}

func (r *BookPG) FindByCategoryID(ctx context.Context, categoryID int64) ([]library.Book, error) {
	return r.list(ctx, selectBooks().Where(bookCol(colCategoryID).Eq(categoryID)))
}

func (r *BookPG) list(ctx context.Context, ds *goqu.SelectDataset) ([]library.Book, error) {
	query, args, err := build(ds)
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

	out := []library.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// scanBook reads the columns produced by selectBooks.
func scanBook(row pgx.Row) (library.Book, error) {
	var (
		b            library.Book
		categoryID   *int64
		categoryName *string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &categoryID, &categoryName); err != nil {
		return library.Book{}, err
	}
	if categoryID != nil {
		b.Category = &library.Category{ID: *categoryID}
		if categoryName != nil {
			b.Category.Name = *categoryName
		}
	}
	return b, nil
}
