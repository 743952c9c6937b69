package library_test

import (
	"context"
	"sort"
	"sync"

	"libraryapi/internal/library"
)

// memStore is an in-memory storage collaborator. A failed transaction restores
// the state captured when it began.
type memStore struct {
	mu         sync.Mutex
	categories map[int64]library.Category
	books      map[int64]memBook
	nextCatID  int64
	nextBookID int64
}

type memBook struct {
	name        string
	description string
	categoryID  int64
}

func newMemStore() *memStore {
	return &memStore{
		categories: map[int64]library.Category{},
		books:      map[int64]memBook{},
	}
}

func (m *memStore) WithinTx(ctx context.Context, _ library.TxMode, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	cats := make(map[int64]library.Category, len(m.categories))
	for k, v := range m.categories {
		cats[k] = v
	}
	books := make(map[int64]memBook, len(m.books))
	for k, v := range m.books {
		books[k] = v
	}
	nextCat, nextBook := m.nextCatID, m.nextBookID
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.categories, m.books = cats, books
		m.nextCatID, m.nextBookID = nextCat, nextBook
		m.mu.Unlock()
		return err
	}
	return nil
}

type memCategories struct{ *memStore }

type memBooks struct{ *memStore }

func (r memCategories) FindByID(_ context.Context, id int64) (library.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return library.Category{}, library.ErrRecordNotFound
	}
	return c, nil
}

func (r memCategories) Save(_ context.Context, c library.Category) (library.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.categories {
		if existing.Name == c.Name && id != c.ID {
			return library.Category{}, errDuplicate
		}
	}
	if c.ID == 0 {
		r.nextCatID++
		c.ID = r.nextCatID
	} else if _, ok := r.categories[c.ID]; !ok {
		return library.Category{}, library.ErrRecordNotFound
	}
	c.Books = nil
	r.categories[c.ID] = c
	return c, nil
}

func (r memCategories) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return library.ErrRecordNotFound
	}
	delete(r.categories, id)
	for bid, b := range r.books {
		if b.categoryID == id {
			b.categoryID = 0
			r.books[bid] = b
		}
	}
	return nil
}

func (r memCategories) FindAll(_ context.Context) ([]library.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]library.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memBooks) FindByID(_ context.Context, id int64) (library.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return library.Book{}, library.ErrRecordNotFound
	}
	return r.toBook(id, b), nil
}

func (r memBooks) Save(_ context.Context, b library.Book) (library.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		r.nextBookID++
		b.ID = r.nextBookID
	} else if _, ok := r.books[b.ID]; !ok {
		return library.Book{}, library.ErrRecordNotFound
	}
	var categoryID int64
	if b.Category != nil {
		categoryID = b.Category.ID
	}
	r.books[b.ID] = memBook{name: b.Name, description: b.Description, categoryID: categoryID}
	return r.toBook(b.ID, r.books[b.ID]), nil
}

func (r memBooks) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return library.ErrRecordNotFound
	}
	delete(r.books, id)
	return nil
}

func (r memBooks) FindAll(_ context.Context) ([]library.Book, error) {
	return r.filter(func(memBook) bool { return true }), nil
}

func (r memBooks) FindByName(_ context.Context, name string) ([]library.Book, error) {
	return r.filter(func(b memBook) bool { return b.name == name }), nil
}

func (r memBooks) FindByCategoryID(_ context.Context, categoryID int64) ([]library.Book, error) {
	return r.filter(func(b memBook) bool { return b.categoryID == categoryID }), nil
}

func (r memBooks) filter(keep func(memBook) bool) []library.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []library.Book{}
	for id, b := range r.books {
		if keep(b) {
			out = append(out, r.toBook(id, b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// toBook must be called with mu held.
func (r memBooks) toBook(id int64, b memBook) library.Book {
	book := library.Book{ID: id, Name: b.name, Description: b.description}
	if c, ok := r.categories[b.categoryID]; ok {
		book.Category = &library.Category{ID: c.ID, Name: c.Name}
	}
	return book
}
