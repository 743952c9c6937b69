package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"libraryapi/internal/apperr"
)

const (
	MessageNotFound            = "No value is present in DB, please change your request"
	MessageEmptyCollection     = "The list is empty"
	MessageNullInput           = "Input field is empty, please look into it"
	MessageDuplicateName       = "Name is already present"
	MessageConstraintViolation = "Request violates a data constraint"
	MessageValidation          = "Validation failed"
	MessageInternal            = "An internal error occurred"
	MessageBadRequest          = "Request could not be processed"
	MessageMethodNotAllowed    = "Please change your HTTP method type"
)

var boundaryMessages = map[apperr.Code]string{
	apperr.CodeNotFound:            MessageNotFound,
	apperr.CodeEmptyCollection:     MessageEmptyCollection,
	apperr.CodeNullInput:           MessageNullInput,
	apperr.CodeDuplicateName:       MessageDuplicateName,
	apperr.CodeConstraintViolation: MessageConstraintViolation,
	apperr.CodeValidation:          MessageValidation,
	apperr.CodeInternal:            MessageInternal,
}

// WriteError renders err as an error envelope. Coded errors keep their code and
// get the fixed message for their kind; the specific reason goes into details.
// Anything else is logged and reported as an internal error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		slog.ErrorContext(r.Context(), "unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFrom(r),
		)
		JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", MessageInternal, nil)
		return
	}

	status := appErr.HTTPStatus()
	message, known := boundaryMessages[appErr.Code]
	if !known {
		message = MessageBadRequest
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "internal error", "error", err, "request_id", RequestIDFrom(r))
		JSONError(w, r, status, string(appErr.Code), message, nil)
		return
	}

	slog.WarnContext(r.Context(), "request failed",
		"code", appErr.Code,
		"reason", appErr.Message,
		"details", appErr.Details,
		"request_id", RequestIDFrom(r),
	)
	JSONError(w, r, status, string(appErr.Code), message, detailsOf(appErr))
}

// detailsOf returns what a client may see: the reason and any field-level
// validation details. Storage details stay in the log.
func detailsOf(e *apperr.Error) []ErrorDetail {
	var details []ErrorDetail
	if e.Message != "" {
		details = append(details, ErrorDetail{Message: e.Message})
	}
	if fields, ok := e.Details.([]ErrorDetail); ok {
		details = append(details, fields...)
	}
	return details
}
