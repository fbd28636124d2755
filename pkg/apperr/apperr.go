// Package apperr defines the application's error taxonomy and the single
// mapper every handler funnels failures through.
//
// Domain errors are *Error values carrying an HTTP status, a machine-checkable
// kind, an optional field→message map, and an operational flag. Anything that
// is not an *Error (driver faults, panics turned into errors, plain fmt
// errors) is treated as non-operational: it is logged with its cause and the
// caller only ever sees a generic message outside local development.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tempohq/tempo/config"
	"github.com/tempohq/tempo/pkg/listquery"
	"github.com/tempohq/tempo/pkg/logger"
	"github.com/tempohq/tempo/pkg/response"
)

// Kind classifies an error for machine consumption.
type Kind string

const (
	KindValidation   Kind = "ValidationError"
	KindNotFound     Kind = "NotFoundError"
	KindUnauthorized Kind = "AuthenticationError"
	KindBadID        Kind = "InvalidIdentifierError"
	KindInternal     Kind = "ServerError"
)

// Error is the application's domain error.
type Error struct {
	Status      int
	Kind        Kind
	Message     string
	Fields      map[string]string // field → message, validation errors only
	Operational bool
	Err         error // wrapped cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ─── Constructors ─────────────────────────────────────────────────────────────

// Validation builds a 400 error with a field→message map.
func Validation(fields map[string]string) *Error {
	return &Error{
		Status:      http.StatusBadRequest,
		Kind:        KindValidation,
		Message:     "Some fields are invalid",
		Fields:      fields,
		Operational: true,
	}
}

// ValidationField builds a 400 error for a single offending field.
func ValidationField(field, message string) *Error {
	return Validation(map[string]string{field: message})
}

// NotFound builds a 404 error.
func NotFound(message string) *Error {
	return &Error{
		Status:      http.StatusNotFound,
		Kind:        KindNotFound,
		Message:     message,
		Operational: true,
	}
}

// Unauthorized builds a 401 error.
func Unauthorized(message string) *Error {
	return &Error{
		Status:      http.StatusUnauthorized,
		Kind:        KindUnauthorized,
		Message:     message,
		Operational: true,
	}
}

// BadID builds a 400 error for a malformed record identifier.
func BadID(message string) *Error {
	return &Error{
		Status:      http.StatusBadRequest,
		Kind:        KindBadID,
		Message:     message,
		Operational: true,
	}
}

// Internal wraps an unexpected fault. Not operational: the cause is logged
// and the caller receives a generic message.
func Internal(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: "Something went wrong. Please try again later",
		Err:     err,
	}
}

// ─── Store error mapping ──────────────────────────────────────────────────────

// FromMongo translates MongoDB driver errors into domain errors.
// notFoundMsg is used when the document does not exist; dupField names the
// field reported on a unique-index collision.
func FromMongo(err error, notFoundMsg, dupField string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound(notFoundMsg)
	}
	if mongo.IsDuplicateKeyError(err) {
		return ValidationField(dupField, fmt.Sprintf("This %s is already taken", dupField))
	}
	return Internal(err)
}

// ─── Central mapper ───────────────────────────────────────────────────────────

// Write maps any error to the JSON envelope. This is the one place failures
// become HTTP responses; handlers must not format errors themselves.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	var badParam *listquery.BadParamError
	if errors.As(err, &badParam) {
		err = ValidationField(badParam.Param, badParam.Message)
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}

	if !appErr.Operational {
		logger.WithCtx(r.Context()).Error("unhandled error",
			"kind", string(appErr.Kind),
			"error", err.Error(),
			"method", r.Method,
			"path", r.URL.Path,
		)
		if config.IsProduction() {
			response.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again later")
			return
		}
	}

	if appErr.Fields != nil {
		response.ValidationError(w, appErr.Fields)
		return
	}
	response.Error(w, appErr.Status, appErr.Message)
}
