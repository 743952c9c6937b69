package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/apperr"
	"libraryapi/internal/config"
	"libraryapi/internal/library"
	"libraryapi/internal/logger"
	"libraryapi/internal/store"
)

type seedBook struct {
	name        string
	description string
}

var catalog = []struct {
	genre string
	books []seedBook
}{
	{"Fiction", []seedBook{
		{"Pride and Prejudice", "A novel of manners by Jane Austen"},
		{"The Trial", "Josef K. is arrested and prosecuted by a remote authority"},
	}},
	{"Science Fiction", []seedBook{
		{"Dune", "Sci-fi epic set on the desert planet Arrakis"},
		{"Foundation", "The fall and rebirth of a galactic empire"},
	}},
	{"History", []seedBook{
		{"SPQR", "A history of ancient Rome"},
	}},
	{"Philosophy", nil},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	log := logger.Setup(os.Stderr, cfg.LogLevel, cfg.IsProduction())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		fatal(fmt.Errorf("connect to database: %w", err))
	}
	defer pool.Close()

	svc := library.NewService(
		store.NewCategoryPG(pool, cfg.QueryTimeout),
		store.NewBookPG(pool, cfg.QueryTimeout),
		store.NewTxManager(pool),
		log.With("component", "seed"),
	)

	categories, books, err := seed(ctx, svc)
	if err != nil {
		fatal(err)
	}
	log.Info("seed finished", "categories", categories, "books", books)
}

// seed adds the sample catalog and skips categories that already exist.
func seed(ctx context.Context, svc *library.Service) (int, int, error) {
	var categories, books int
	for _, entry := range catalog {
		category, err := svc.AddCategory(ctx, library.Category{Name: entry.genre})
		if errors.Is(err, apperr.ErrConstraintViolation) {
			slog.Info("category already present, skipping", "name", entry.genre)
			continue
		}
		if err != nil {
			return categories, books, fmt.Errorf("add category %q: %w", entry.genre, err)
		}
		categories++

		for _, b := range entry.books {
			if _, err := svc.AddBook(ctx, library.Book{
				Name:        b.name,
				Description: b.description,
				CategoryID:  category.ID,
			}); err != nil {
				return categories, books, fmt.Errorf("add book %q: %w", b.name, err)
			}
			books++
		}
	}
	return categories, books, nil
}

func fatal(err error) {
	slog.Error("seed failed", "error", err)
	os.Exit(1)
}
