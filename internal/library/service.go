package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"libraryapi/internal/apperr"
)

const emptyListMessage = "The list is empty"

// Service provides catalog business logic. Every method is one transaction.
type Service struct {
	categories CategoryRepository
	books      BookRepository
	tx         Transactor
	logger     *slog.Logger
}

// NewService creates a catalog service.
func NewService(categories CategoryRepository, books BookRepository, tx Transactor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		categories: categories,
		books:      books,
		tx:         tx,
		logger:     logger,
	}
}

// AddCategory stores c as a new category.
func (s *Service) AddCategory(ctx context.Context, c Category) (Category, error) {
	s.logger.Info("adding category", "name", c.Name)

	c.ID = 0
	c.Books = nil
	var added Category
	err := s.tx.WithinTx(ctx, ReadWrite, func(ctx context.Context) error {
		var err error
		added, err = s.categories.Save(ctx, c)
		return err
	})
	if err != nil {
		return Category{}, err
	}
	return added, nil
}

// AddBook resolves b.CategoryID and stores b under that category.
func (s *Service) AddBook(ctx context.Context, b Book) (Book, error) {
	s.logger.Info("adding book", "name", b.Name, "category_id", b.CategoryID)

	var added Book
	err := s.tx.WithinTx(ctx, ReadWrite, func(ctx context.Context) error {
		category, err := s.findCategory(ctx, b.CategoryID, "Category not found")
		if err != nil {
			return err
		}
		b.ID = 0
		b.Category = &category
		added, err = s.books.Save(ctx, b)
		return err
	})
	if err != nil {
		return Book{}, err
	}

	s.logger.Info("added book", "id", added.ID, "name", added.Name)
	return added, nil
}

// UpdateBook overwrites the name and description of book id.
func (s *Service) UpdateBook(ctx context.Context, id int64, patch Book) (Book, error) {
	s.logger.Info("updating book", "id", id)

	var updated Book
	err := s.tx.WithinTx(ctx, ReadWrite, func(ctx context.Context) error {
		existing, err := s.findBook(ctx, id)
		if err != nil {
			return err
		}
		existing.Name = patch.Name
		existing.Description = patch.Description
		updated, err = s.books.Save(ctx, existing)
		return resolveMissing(err, "Book not found with ID %d", id)
	})
	if err != nil {
		return Book{}, err
	}
	return updated, nil
}

// FindAllBooks returns every book. An empty catalog is an error.
func (s *Service) FindAllBooks(ctx context.Context) ([]Book, error) {
	s.logger.Info("getting all books")

	var books []Book
	err := s.tx.WithinTx(ctx, ReadOnly, func(ctx context.Context) error {
		var err error
		books, err = s.books.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, apperr.EmptyCollection(emptyListMessage)
	}

	s.logger.Info("retrieved books", "count", len(books))
	return books, nil
}

// FindBooksByName returns the books whose name equals name exactly.
// No match is an empty result, not an error.
func (s *Service) FindBooksByName(ctx context.Context, name string) ([]Book, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.NullInput("name of the book is null")
	}
	s.logger.Info("searching books by name", "name", name)

	var books []Book
	err := s.tx.WithinTx(ctx, ReadOnly, func(ctx context.Context) error {
		var err error
		books, err = s.books.FindByName(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}

	s.logger.Info("retrieved books by name", "name", name, "count", len(books))
	return books, nil
}

// GetBooksByGenre returns the books of category categoryID, possibly none.
func (s *Service) GetBooksByGenre(ctx context.Context, categoryID int64) ([]Book, error) {
	s.logger.Info("getting books for category", "category_id", categoryID)

	var books []Book
	err := s.tx.WithinTx(ctx, ReadOnly, func(ctx context.Context) error {
		if _, err := s.findCategory(ctx, categoryID, "Category not found"); err != nil {
			return err
		}
		var err error
		books, err = s.books.FindByCategoryID(ctx, categoryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// DeleteBook removes book id.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	s.logger.Info("deleting book", "id", id)

	err := s.tx.WithinTx(ctx, ReadWrite, func(ctx context.Context) error {
		book, err := s.findBook(ctx, id)
		if err != nil {
			return err
		}
		return resolveMissing(s.books.DeleteByID(ctx, book.ID), "Book not found with ID %d", id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("deleted book", "id", id)
	return nil
}

// UpdateCategory overwrites the name of category id.
func (s *Service) UpdateCategory(ctx context.Context, id int64, patch Category) (Category, error) {
	s.logger.Info("updating category", "id", id)

	var updated Category
	err := s.tx.WithinTx(ctx, ReadWrite, func(ctx context.Context) error {
		existing, err := s.findCategory(ctx, id, fmt.Sprintf("Category not found with ID %d", id))
		if err != nil {
			return err
		}
		existing.Name = patch.Name
		updated, err = s.categories.Save(ctx, existing)
		return resolveMissing(err, "Category not found with ID %d", id)
	})
	if err != nil {
		return Category{}, err
	}
	return updated, nil
}

// DeleteCategory removes category id. Its books are kept.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	s.logger.Info("deleting category", "id", id)

	err := s.tx.WithinTx(ctx, ReadWrite, func(ctx context.Context) error {
		category, err := s.findCategory(ctx, id, fmt.Sprintf("Category not found with ID %d", id))
		if err != nil {
			return err
		}
		return resolveMissing(s.categories.DeleteByID(ctx, category.ID), "Category not found with ID %d", id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("deleted category", "id", id)
	return nil
}

// GetAllGenres returns every category with its books. No categories is an error.
func (s *Service) GetAllGenres(ctx context.Context) ([]Category, error) {
	s.logger.Info("getting all categories")

	var categories []Category
	err := s.tx.WithinTx(ctx, ReadOnly, func(ctx context.Context) error {
		var err error
		categories, err = s.categories.FindAll(ctx)
		if err != nil || len(categories) == 0 {
			return err
		}
		books, err := s.books.FindAll(ctx)
		if err != nil {
			return err
		}
		attachBooks(categories, books)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, apperr.EmptyCollection(emptyListMessage)
	}

	s.logger.Info("retrieved categories", "count", len(categories))
	return categories, nil
}

func (s *Service) findCategory(ctx context.Context, id int64, notFoundMsg string) (Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return Category{}, apperr.NotFound(notFoundMsg)
	}
	if err != nil {
		return Category{}, fmt.Errorf("find category %d: %w", id, err)
	}
	return category, nil
}

func (s *Service) findBook(ctx context.Context, id int64) (Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return Book{}, apperr.NotFoundf("Book not found with ID %d", id)
	}
	if err != nil {
		return Book{}, fmt.Errorf("find book %d: %w", id, err)
	}
	return book, nil
}

// resolveMissing maps a row that vanished between lookup and write to NotFound.
func resolveMissing(err error, format string, id int64) error {
	if errors.Is(err, ErrRecordNotFound) {
		return apperr.NotFoundf(format, id)
	}
	return err
}

// attachBooks fills each category's Books from books, keeping book order.
func attachBooks(categories []Category, books []Book) {
	byCategory := make(map[int64][]Book, len(categories))
	for _, b := range books {
		if b.Category == nil {
			continue
		}
		owner := b.Category.ID
		b.Category = nil
		byCategory[owner] = append(byCategory[owner], b)
	}
	for i := range categories {
		categories[i].Books = byCategory[categories[i].ID]
	}
}
