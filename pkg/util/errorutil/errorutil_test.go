package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_IsMatchesKind(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", NewDuplicateIdentifier(errors.New("unique violation")))

	assert.ErrorIs(t, wrapped, ErrDuplicateIdentifier)
	assert.NotErrorIs(t, wrapped, ErrCredentialMismatch)
	assert.ErrorIs(t, NewIdentifierNotFound(), ErrIdentifierNotFound)
	assert.ErrorIs(t, NewCredentialMismatch(), ErrCredentialMismatch)
}

func TestLoginFailuresShareMessage(t *testing.T) {
	notFound := ToDomainError(NewIdentifierNotFound())
	mismatch := ToDomainError(NewCredentialMismatch())

	assert.Equal(t, notFound.Message, mismatch.Message)
	assert.Equal(t, notFound.HTTPStatus, mismatch.HTTPStatus)
	assert.Equal(t, http.StatusForbidden, mismatch.HTTPStatus)
	assert.NotEqual(t, notFound.Kind, mismatch.Kind)
}

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   Kind
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "domain error passes through",
			err:        NewForbidden("insufficient role"),
			wantKind:   KindForbidden,
			wantStatus: http.StatusForbidden,
			wantMsg:    "insufficient role",
		},
		{
			name:       "wrapped domain error is unwrapped",
			err:        fmt.Errorf("login: %w", NewCredentialMismatch()),
			wantKind:   KindCredentialMismatch,
			wantStatus: http.StatusForbidden,
			wantMsg:    MsgBadCredentials,
		},
		{
			name:       "uncategorized error becomes client error",
			err:        errors.New("something odd"),
			wantKind:   KindValidation,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "something odd",
		},
		{
			name:       "internal hides cause",
			err:        NewInternalError(errors.New("pg: connection refused")),
			wantKind:   KindInternal,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    MsgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestNewUnauthenticated(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, ToDomainError(NewUnauthenticated(http.StatusUnauthorized)).HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ToDomainError(NewUnauthenticated(http.StatusForbidden)).HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, ToDomainError(NewUnauthenticated(0)).HTTPStatus)
}
