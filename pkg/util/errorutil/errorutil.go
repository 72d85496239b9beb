package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures that cross the service boundary.
type Kind string

const (
	KindDuplicateIdentifier Kind = "DUPLICATE_IDENTIFIER"
	KindIdentifierNotFound  Kind = "IDENTIFIER_NOT_FOUND"
	KindCredentialMismatch  Kind = "CREDENTIAL_MISMATCH"
	KindValidation          Kind = "VALIDATION_FAILED"
	KindUnauthenticated     Kind = "UNAUTHENTICATED"
	KindForbidden           Kind = "FORBIDDEN"
	KindInternal            Kind = "INTERNAL_ERROR"
)

// Client-facing messages shared by several kinds.
const (
	MsgBadCredentials         = "Username or password incorrect"
	MsgDuplicateIdentifier    = "Username already taken"
	MsgAuthenticationRequired = "Authentication required"
	MsgInternal               = "internal server error"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same kind, so sentinels work with errors.Is.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// NewDomainError constructs a DomainError.
func NewDomainError(kind Kind, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Kind: kind, Message: message, HTTPStatus: status, Details: details}
}

// Sentinels for errors.Is checks.
var (
	ErrDuplicateIdentifier = NewDomainError(KindDuplicateIdentifier, MsgDuplicateIdentifier, http.StatusBadRequest, nil)
	ErrIdentifierNotFound  = NewDomainError(KindIdentifierNotFound, MsgBadCredentials, http.StatusForbidden, nil)
	ErrCredentialMismatch  = NewDomainError(KindCredentialMismatch, MsgBadCredentials, http.StatusForbidden, nil)
)

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(KindValidation, message, http.StatusBadRequest, details)
}

// NewDuplicateIdentifier reports an already registered identifier.
func NewDuplicateIdentifier(err error) error {
	return &DomainError{
		Kind:       KindDuplicateIdentifier,
		Message:    MsgDuplicateIdentifier,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

// NewIdentifierNotFound shares its message with NewCredentialMismatch so
// callers cannot tell which identifiers exist.
func NewIdentifierNotFound() error {
	return NewDomainError(KindIdentifierNotFound, MsgBadCredentials, http.StatusForbidden, nil)
}

func NewCredentialMismatch() error {
	return NewDomainError(KindCredentialMismatch, MsgBadCredentials, http.StatusForbidden, nil)
}

// NewUnauthenticated is returned by the authorization layer when no identity is bound.
// status must be 401 or 403.
func NewUnauthenticated(status int) error {
	if status != http.StatusForbidden {
		status = http.StatusUnauthorized
	}
	return NewDomainError(KindUnauthenticated, MsgAuthenticationRequired, status, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(KindForbidden, message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Kind:       KindInternal,
		Message:    MsgInternal,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Uncategorized
// errors become 400 client errors carrying their own message.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Kind:       KindValidation,
		Message:    err.Error(),
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}
