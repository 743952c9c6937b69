package library

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"libraryapi/internal/apperr"
	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Routes mounts the catalog endpoints under /library.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Route("/library", func(r chi.Router) {
		r.Post("/category/addcategory", h.AddCategory)
		r.Get("/category/genres", h.GetAllGenres)
		r.Put("/updatecategory/{categoryId}", h.UpdateCategory)
		r.Delete("/deletecategory/{categoryId}", h.DeleteCategory)

		r.Post("/books/addbook", h.AddBook)
		r.Put("/books/{id}", h.UpdateBook)
		r.Get("/books/{id}", h.GetBooksByGenre)
		r.Get("/getallbook", h.FindAllBooks)
		r.Get("/getbookbyname/{name}", h.FindBooksByName)
		r.Delete("/deletebook/{bookId}", h.DeleteBook)
	})
}

type CategoryReq struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
}

type AddBookReq struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"required,notblank,max=250"`
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
}

type UpdateBookReq struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"required,notblank,max=250"`
}

// AddCategory handles POST /v1/library/category/addcategory
func (h *HTTPHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryReq
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.service.AddCategory(r.Context(), Category{Name: req.Name})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, category)
}

// AddBook handles POST /v1/library/books/addbook
func (h *HTTPHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req AddBookReq
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.service.AddBook(r.Context(), Book{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, book)
}

// UpdateBook handles PUT /v1/library/books/{id}
func (h *HTTPHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateBookReq
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.service.UpdateBook(r.Context(), id, Book{Name: req.Name, Description: req.Description})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}

// GetAllGenres handles GET /v1/library/category/genres
func (h *HTTPHandler) GetAllGenres(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAllGenres(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, categories, map[string]any{"total": len(categories)})
}

// GetBooksByGenre handles GET /v1/library/books/{id} where id is a category.
func (h *HTTPHandler) GetBooksByGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	books, err := h.service.GetBooksByGenre(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// DeleteBook handles DELETE /v1/library/deletebook/{bookId}
func (h *HTTPHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bookId")
	if !ok {
		return
	}

	if err := h.service.DeleteBook(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessAccepted(w, r, map[string]any{"id": id, "deleted": true})
}

// FindAllBooks handles GET /v1/library/getallbook
func (h *HTTPHandler) FindAllBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.FindAllBooks(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// FindBooksByName handles GET /v1/library/getbookbyname/{name}
func (h *HTTPHandler) FindBooksByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// chi matches on RawPath when it is set, leaving the segment escaped.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}

	books, err := h.service.FindBooksByName(r.Context(), name)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// UpdateCategory handles PUT /v1/library/updatecategory/{categoryId}
func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}
	var req CategoryReq
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, Category{Name: req.Name})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, category, nil)
}

// DeleteCategory handles DELETE /v1/library/deletecategory/{categoryId}
func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessAccepted(w, r, map[string]any{"id": id, "deleted": true})
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		httpx.WriteError(w, r, apperr.ValidationWithDetails("invalid path parameter",
			[]httpx.ErrorDetail{{Field: param, Message: param + " must be an integer"}}))
		return 0, false
	}
	return id, true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := httpx.DecodeJSON(r, req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return false
		}
		httpx.WriteError(w, r, apperr.Validation("invalid request body").WithCause(err))
		return false
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.WriteError(w, r, apperr.ValidationWithDetails("invalid input", details))
		return false
	}
	return true
}
