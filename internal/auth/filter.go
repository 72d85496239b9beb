package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/repository"
)

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// FilterState is a state of the per-request authentication state machine.
type FilterState string

const (
	StateUnauthenticated FilterState = "UNAUTHENTICATED"
	StateTokenPresent    FilterState = "TOKEN_PRESENT"
	StateValidated       FilterState = "VALIDATED"
	StateBound           FilterState = "BOUND"
	StatePassThrough     FilterState = "PASS_THROUGH_UNAUTHENTICATED"
	StateExempt          FilterState = "EXEMPT"
	StateAlreadyBound    FilterState = "ALREADY_BOUND"
)

// PrincipalStore loads principals by identifier.
type PrincipalStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Request is the part of an inbound call the filter looks at.
type Request struct {
	Path          string
	Authorization string
}

// Decision is the outcome of Evaluate. Context is the security context the
// request should carry from here on (nil when none is bound).
type Decision struct {
	State    FilterState
	Context  *SecurityContext
	Reason   error
	Continue bool
}

// Filter establishes caller identity from a bearer token. It never rejects;
// enforcement belongs to RequireAuthenticated.
type Filter struct {
	tokens     *TokenManager
	principals PrincipalStore
	exact      map[string]struct{}
	prefixes   []string
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewFilter builds a filter. publicPaths are exempt: exact match, or prefix
// match for entries ending in "*".
func NewFilter(tokens *TokenManager, principals PrincipalStore, publicPaths []string, logger *zap.Logger, metrics *observability.Metrics) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Filter{
		tokens:     tokens,
		principals: principals,
		exact:      make(map[string]struct{}, len(publicPaths)),
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
	for _, p := range publicPaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, "*") {
			f.prefixes = append(f.prefixes, strings.TrimSuffix(p, "*"))
			continue
		}
		f.exact[p] = struct{}{}
	}
	return f
}

// IsPublic reports whether path skips authentication.
func (f *Filter) IsPublic(path string) bool {
	if _, ok := f.exact[path]; ok {
		return true
	}
	for _, prefix := range f.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Evaluate runs the state machine once for req. current is the context
// already bound to the request, if any.
func (f *Filter) Evaluate(ctx context.Context, req Request, current *SecurityContext) Decision {
	if f.IsPublic(req.Path) {
		return f.decide(req, Decision{State: StateExempt, Context: current})
	}

	token, ok := bearerToken(req.Authorization)
	if !ok {
		return f.decide(req, Decision{State: StatePassThrough, Context: current})
	}

	// TOKEN_PRESENT
	subject, err := f.tokens.ExtractSubject(token)
	if err != nil {
		return f.decide(req, Decision{State: StatePassThrough, Context: current, Reason: err})
	}

	if current != nil {
		return f.decide(req, Decision{State: StateAlreadyBound, Context: current})
	}

	principal, err := f.principals.FindByEmail(ctx, subject)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			f.logger.Warn("principal lookup failed", zap.String("path", req.Path), zap.Error(err))
		}
		return f.decide(req, Decision{State: StatePassThrough, Reason: err})
	}

	if err := f.tokens.Check(token, principal.Identifier()); err != nil {
		return f.decide(req, Decision{State: StatePassThrough, Reason: err})
	}

	// VALIDATED
	role := principal.Role
	if role == "" {
		role = domain.RoleUser
	}
	sc := &SecurityContext{
		Principal:       principal.WithoutCredential(),
		Role:            role,
		AuthenticatedAt: f.now(),
	}
	return f.decide(req, Decision{State: StateBound, Context: sc})
}

func (f *Filter) decide(req Request, d Decision) Decision {
	d.Continue = true
	f.metrics.RecordFilterOutcome(string(d.State))
	if d.Reason != nil {
		f.logger.Debug("request not authenticated",
			zap.String("path", req.Path),
			zap.String("state", string(d.State)),
			zap.String("reason", reasonKind(d.Reason)),
		)
	}
	return d
}

func reasonKind(err error) string {
	switch {
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrSubjectMismatch):
		return "subject_mismatch"
	case errors.Is(err, repository.ErrNotFound):
		return "principal_not_found"
	default:
		return "principal_lookup_failed"
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(BearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
