package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

// RegisterInput carries the fields needed to create a principal.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthService coordinates registration and login flows. It is the only
// component that issues tokens.
type AuthService struct {
	users    repository.UserRepository
	hasher   *auth.PasswordHasher
	tokenMgr *auth.TokenManager
	events   events.Dispatcher
	logger   *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Hasher     *auth.PasswordHasher
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    deps.UserRepo,
		hasher:   deps.Hasher,
		tokenMgr: deps.Tokens,
		events:   deps.Dispatcher,
		logger:   logger,
	}
}

// Register creates a USER principal and issues its first token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	if exists {
		return nil, "", apperrors.NewDuplicateIdentifier(nil)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			return nil, "", apperrors.NewValidationError(err.Error(), nil)
		}
		return nil, "", apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperrors.NewDuplicateIdentifier(err)
		}
		return nil, "", apperrors.NewInternalError(err)
	}

	token, err := s.tokenMgr.IssueDefault(user.Identifier(), nil)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.Identifier(), nil))
	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown identifiers and
// wrong passwords produce different kinds with the same client message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.loginFailed(ctx, email, apperrors.KindIdentifierNotFound)
			return nil, "", apperrors.NewIdentifierNotFound()
		}
		return nil, "", apperrors.NewInternalError(err)
	}

	if err := s.authenticate(user, password); err != nil {
		s.loginFailed(ctx, email, apperrors.KindCredentialMismatch)
		return nil, "", err
	}

	token, err := s.tokenMgr.IssueDefault(user.Identifier(), nil)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventLoginSucceeded, user.Identifier(), nil))
	return user, token, nil
}

func (s *AuthService) authenticate(user *domain.User, password string) error {
	if !s.hasher.Matches(password, user.PasswordHash) {
		return apperrors.NewCredentialMismatch()
	}
	return nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string, kind apperrors.Kind) {
	s.publish(ctx, events.NewEvent(events.EventLoginFailed, email, events.LoginFailedPayload{Reason: string(kind)}))
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("audit event handler failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
