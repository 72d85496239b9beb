package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/repository"
)

var testPublicPaths = []string{"/api/auth/register", "/api/auth/login", "/docs/*"}

type filterFixture struct {
	filter  *Filter
	tokens  *TokenManager
	users   repository.UserRepository
	metrics *observability.Metrics
	user    *domain.User
}

func newFilterFixture(t *testing.T) *filterFixture {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	user := &domain.User{FirstName: "John", LastName: "Doe", Email: "test@example.com", PasswordHash: "hash", Role: domain.RoleUser}
	require.NoError(t, users.Create(context.Background(), user))

	tokens := newTestTokenManager(t)
	metrics := observability.NewMetrics()
	return &filterFixture{
		filter:  NewFilter(tokens, users, testPublicPaths, zap.NewNop(), metrics),
		tokens:  tokens,
		users:   users,
		metrics: metrics,
		user:    user,
	}
}

func (f *filterFixture) bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := f.tokens.IssueDefault(subject, nil)
	require.NoError(t, err)
	return BearerPrefix + token
}

func TestFilter_BindsValidToken(t *testing.T) {
	f := newFilterFixture(t)

	d := f.filter.Evaluate(context.Background(), Request{
		Path:          "/api/users",
		Authorization: f.bearer(t, "test@example.com"),
	}, nil)

	assert.Equal(t, StateBound, d.State)
	assert.True(t, d.Continue)
	assert.NoError(t, d.Reason)
	require.NotNil(t, d.Context)
	assert.Equal(t, "test@example.com", d.Context.Identifier())
	assert.Equal(t, domain.RoleUser, d.Context.Role)
	assert.Empty(t, d.Context.Principal.PasswordHash)
	assert.False(t, d.Context.AuthenticatedAt.IsZero())
	assert.Equal(t, int64(1), f.metrics.Snapshot().FilterOutcomes[string(StateBound)])
}

func TestFilter_PassThrough(t *testing.T) {
	f := newFilterFixture(t)

	expiredTokens := NewTokenManager(f.tokens.key, time.Minute, WithClock(func() time.Time {
		return time.Now().Add(-time.Hour)
	}))
	expired, err := expiredTokens.IssueDefault("test@example.com", nil)
	require.NoError(t, err)

	otherKey, err := NewSigningKey(randomSecret(t, 64))
	require.NoError(t, err)
	foreign, err := NewTokenManager(otherKey, time.Minute).IssueDefault("test@example.com", nil)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantReason error
	}{
		{name: "no header"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "lowercase bearer", header: "bearer " + f.bearer(t, "test@example.com")[len(BearerPrefix):]},
		{name: "empty token", header: "Bearer "},
		{name: "malformed token", header: "Bearer not-a-token", wantReason: ErrMalformed},
		{name: "foreign signature", header: BearerPrefix + foreign, wantReason: ErrInvalidSignature},
		{name: "expired token", header: BearerPrefix + expired, wantReason: ErrExpired},
		{name: "unknown principal", header: f.bearer(t, "ghost@example.com"), wantReason: repository.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := f.filter.Evaluate(context.Background(), Request{Path: "/api/users", Authorization: tt.header}, nil)

			assert.Equal(t, StatePassThrough, d.State)
			assert.True(t, d.Continue)
			assert.Nil(t, d.Context)
			if tt.wantReason != nil {
				assert.ErrorIs(t, d.Reason, tt.wantReason)
			}
		})
	}
}

func TestFilter_ExemptPaths(t *testing.T) {
	f := newFilterFixture(t)
	header := f.bearer(t, "test@example.com")

	for _, path := range []string{"/api/auth/register", "/api/auth/login", "/docs/", "/docs/index.html"} {
		d := f.filter.Evaluate(context.Background(), Request{Path: path, Authorization: header}, nil)
		assert.Equal(t, StateExempt, d.State, path)
		assert.Nil(t, d.Context, path)
		assert.True(t, d.Continue, path)
	}

	// exact match only for entries without "*"
	for _, path := range []string{"/api/auth/login/extra", "/api/auth", "/api/auth/registerx"} {
		d := f.filter.Evaluate(context.Background(), Request{Path: path, Authorization: header}, nil)
		assert.Equal(t, StateBound, d.State, path)
	}
}

func TestFilter_AlreadyBound(t *testing.T) {
	f := newFilterFixture(t)
	current := &SecurityContext{Principal: f.user.WithoutCredential(), Role: domain.RoleUser}

	d := f.filter.Evaluate(context.Background(), Request{
		Path:          "/api/users",
		Authorization: f.bearer(t, "test@example.com"),
	}, current)

	assert.Equal(t, StateAlreadyBound, d.State)
	assert.Same(t, current, d.Context)
}

type failingStore struct{ err error }

func (s failingStore) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, s.err
}

func TestFilter_StoreFailureIsPassThrough(t *testing.T) {
	tokens := newTestTokenManager(t)
	filter := NewFilter(tokens, failingStore{err: errors.New("db down")}, nil, nil, nil)

	token, err := tokens.IssueDefault("test@example.com", nil)
	require.NoError(t, err)

	d := filter.Evaluate(context.Background(), Request{Path: "/api/users", Authorization: BearerPrefix + token}, nil)
	assert.Equal(t, StatePassThrough, d.State)
	assert.Nil(t, d.Context)
}

func TestFilter_DefaultsMissingRole(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	require.NoError(t, users.Create(context.Background(), &domain.User{Email: "norole@example.com"}))
	tokens := newTestTokenManager(t)
	filter := NewFilter(tokens, users, nil, nil, nil)

	token, err := tokens.IssueDefault("norole@example.com", nil)
	require.NoError(t, err)

	d := filter.Evaluate(context.Background(), Request{Path: "/x", Authorization: BearerPrefix + token}, nil)
	require.Equal(t, StateBound, d.State)
	assert.Equal(t, domain.RoleUser, d.Context.Role)
}

func TestReasonKind(t *testing.T) {
	assert.Equal(t, "malformed", reasonKind(ErrMalformed))
	assert.Equal(t, "invalid_signature", reasonKind(ErrInvalidSignature))
	assert.Equal(t, "expired", reasonKind(ErrExpired))
	assert.Equal(t, "subject_mismatch", reasonKind(ErrSubjectMismatch))
	assert.Equal(t, "principal_not_found", reasonKind(repository.ErrNotFound))
	assert.Equal(t, "principal_lookup_failed", reasonKind(errors.New("x")))
}
