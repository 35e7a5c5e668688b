package errors

import (
	"errors"
	"net/http"
	"strings"
)

// MessageInvalid is the top-level message of every 422 response.
const MessageInvalid = "The given data was invalid."

var (
	// ErrNotFound is matched by every NotFoundError. It is also what callers get
	// when a record exists but the requester may not see it.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned when a bearer token is missing, invalid, expired or revoked.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrEmailTaken is returned on registration with an email that already has an account.
	ErrEmailTaken = errors.New("email already taken")
)

// ValidationError carries per-field messages. Field order is kept so Error() is stable.
type ValidationError struct {
	order  []string
	fields map[string][]string
}

// NewValidationError returns an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string][]string)}
}

// Invalid is a shorthand for a single-field ValidationError.
func Invalid(field, message string) *ValidationError {
	return NewValidationError().Add(field, message)
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if _, ok := e.fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.fields[field] = append(e.fields[field], message)
	return e
}

// Merge copies all messages of other into e, prefixing field names when prefix is set.
func (e *ValidationError) Merge(prefix string, other *ValidationError) *ValidationError {
	if other == nil {
		return e
	}
	for _, field := range other.order {
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}
		for _, msg := range other.fields[field] {
			e.Add(name, msg)
		}
	}
	return e
}

// HasErrors reports whether any message was recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.order) > 0
}

// Fields returns the field to messages map.
func (e *ValidationError) Fields() map[string][]string {
	return e.fields
}

// FieldNames returns the fields in the order they were first added.
func (e *ValidationError) FieldNames() []string {
	return append([]string(nil), e.order...)
}

// Messages returns the messages recorded for field.
func (e *ValidationError) Messages(field string) []string {
	return e.fields[field]
}

// All returns every message in the order fields were first added.
func (e *ValidationError) All() []string {
	var out []string
	for _, field := range e.order {
		out = append(out, e.fields[field]...)
	}
	return out
}

// OrNil returns nil when no message was recorded, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if !e.HasErrors() {
		return MessageInvalid
	}
	parts := make([]string, 0, len(e.order))
	for _, field := range e.order {
		parts = append(parts, field+": "+strings.Join(e.fields[field], ", "))
	}
	return strings.Join(parts, "; ")
}

// DuplicateNameError is returned when an attribute name is already used within a project.
type DuplicateNameError struct {
	ProjectID uint
	Name      string
}

func (e *DuplicateNameError) Error() string {
	return "This attribute name already exists in this project."
}

// NotFoundError names the resource that could not be found (or may not be seen).
type NotFoundError struct {
	Resource string
}

// NotFound creates a NotFoundError for resource.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found."
}

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Body       ErrorResponse
}

func (e *HTTPError) Error() string {
	return e.Body.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Body:       ErrorResponse{Message: message},
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a 500
// without details; the caller logs the underlying error.
func MapErrorToHTTP(err error) *HTTPError {
	var (
		validationErr *ValidationError
		duplicateErr  *DuplicateNameError
		notFoundErr   *NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		return &HTTPError{
			StatusCode: http.StatusUnprocessableEntity,
			Body:       ErrorResponse{Message: MessageInvalid, Errors: validationErr.Fields()},
		}
	case errors.As(err, &duplicateErr):
		return &HTTPError{
			StatusCode: http.StatusUnprocessableEntity,
			Body: ErrorResponse{
				Message: MessageInvalid,
				Errors:  map[string][]string{"name": {duplicateErr.Error()}},
			},
		}
	case errors.Is(err, ErrEmailTaken):
		return &HTTPError{
			StatusCode: http.StatusUnprocessableEntity,
			Body: ErrorResponse{
				Message: MessageInvalid,
				Errors:  map[string][]string{"email": {"The email has already been taken."}},
			},
		}
	case errors.As(err, &notFoundErr):
		return NewHTTPError(http.StatusNotFound, notFoundErr.Error())
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "Not found.")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, "Invalid or expired refresh token")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Server Error")
	}
}
