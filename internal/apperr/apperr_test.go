package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("Book not found with ID %d", 7)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrEmptyCollection))
	assert.Equal(t, "Book not found with ID 7", err.Error())
}

func TestError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("add book: %w", NotFound("Category not found"))

	assert.True(t, errors.Is(err, ErrNotFound))

	var appErr *Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, CodeNotFound, appErr.Code)
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := ConstraintViolation("category name already exists").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.Contains(t, err.Error(), "category name already exists")
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestError_WithDetailsKeepsCode(t *testing.T) {
	details := map[string]string{"constraint": "categories_name_key"}
	err := ConstraintViolation("rejected").WithDetails(details)

	assert.Equal(t, CodeConstraintViolation, err.Code)
	assert.Equal(t, details, err.Details)
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeEmptyCollection, http.StatusNotFound},
		{CodeNullInput, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeDuplicateName, http.StatusConflict},
		{CodeConstraintViolation, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNullInput, CodeOf(NullInput("name of the book is null")))
	assert.Equal(t, CodeEmptyCollection, CodeOf(fmt.Errorf("list: %w", EmptyCollection("The list is empty"))))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("connection refused")))
}
