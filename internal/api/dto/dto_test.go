package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{name: "valid", req: RegisterRequest{FirstName: "John", LastName: "Doe", Email: "test@example.com", Password: "plainPassword"}},
		{name: "names optional", req: RegisterRequest{Email: "agun@mail.com", Password: "plainPassword"}},
		{name: "missing email", req: RegisterRequest{Password: "plainPassword"}, wantErr: true},
		{name: "bad email", req: RegisterRequest{Email: "not-an-email", Password: "plainPassword"}, wantErr: true},
		{name: "missing password", req: RegisterRequest{Email: "test@example.com"}, wantErr: true},
		{name: "password too long", req: RegisterRequest{Email: "test@example.com", Password: strings.Repeat("x", 73)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, LoginRequest{Email: "agun@mail.com", Password: "x"}.Validate())
	assert.Error(t, LoginRequest{Email: "agun@mail.com"}.Validate())
	assert.Error(t, LoginRequest{Password: "x"}.Validate())
}

func TestEnvelope_JSONShape(t *testing.T) {
	raw, err := json.Marshal(Success(http.StatusCreated, AuthenticationResponse{Token: "abc"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"SUCCESSFUL","message":"CREATED","data":[{"token":"abc"}]}`, string(raw))

	raw, err = json.Marshal(Failure(http.StatusBadRequest, "Username already taken"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"CLIENT_ERROR","message":"Username already taken","data":null}`, string(raw))
}

func TestSeries(t *testing.T) {
	assert.Equal(t, StatusSuccessful, Series(http.StatusOK))
	assert.Equal(t, StatusClientError, Series(http.StatusBadRequest))
	assert.Equal(t, StatusClientError, Series(http.StatusNotFound))
	assert.Equal(t, StatusUnauthorized, Series(http.StatusUnauthorized))
	assert.Equal(t, StatusForbidden, Series(http.StatusForbidden))
	assert.Equal(t, StatusServerError, Series(http.StatusInternalServerError))
	assert.Equal(t, StatusServerError, Series(http.StatusServiceUnavailable))
}
