package library

import (
	"context"
	"errors"
)

//go:generate mockgen -destination=mocks/mock_ports.go -package=mocks libraryapi/internal/library CategoryRepository,BookRepository,Transactor

// ErrRecordNotFound is returned by repositories when no row matches an id.
var ErrRecordNotFound = errors.New("record not found")

// TxMode selects the access mode of a transaction.
type TxMode int

const (
	ReadWrite TxMode = iota
	ReadOnly
)

// Transactor runs fn inside one transaction. Repository calls made with the
// context passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, mode TxMode, fn func(ctx context.Context) error) error
}

// CategoryRepository defines the contract for category storage.
type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (Category, error)
	// Save inserts when c.ID is zero and updates otherwise.
	Save(ctx context.Context, c Category) (Category, error)
	DeleteByID(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]Category, error)
}

// BookRepository defines the contract for book storage.
type BookRepository interface {
	FindByID(ctx context.Context, id int64) (Book, error)
	// Save inserts when b.ID is zero and updates otherwise. The category
	// reference is taken from b.Category.
	Save(ctx context.Context, b Book) (Book, error)
	DeleteByID(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]Book, error)
	FindByName(ctx context.Context, name string) ([]Book, error)
	FindByCategoryID(ctx context.Context, categoryID int64) ([]Book, error)
}
