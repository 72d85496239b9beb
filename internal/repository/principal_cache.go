package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
)

const principalKeyPrefix = "auth:principal:"

type cachedPrincipal struct {
	ID        string      `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PrincipalCache is a read-through Redis cache in front of a UserRepository
// for the request filter. Cached principals never carry the credential hash,
// and misses are not cached.
type PrincipalCache struct {
	next   UserRepository
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewPrincipalCache wraps next.
func NewPrincipalCache(next UserRepository, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *PrincipalCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrincipalCache{next: next, client: client, ttl: ttl, logger: logger}
}

// FindByEmail returns the principal without its PasswordHash.
func (c *PrincipalCache) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	key := principalKeyPrefix + email

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cp cachedPrincipal
		if err := json.Unmarshal(raw, &cp); err == nil {
			return cp.toUser(), nil
		}
		c.logger.Warn("discarding corrupt principal cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("principal cache read failed", zap.Error(err))
	}

	user, err := c.next.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fromUser(user))
	if err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("principal cache write failed", zap.Error(err))
		}
	}
	return user.WithoutCredential(), nil
}

func fromUser(u *domain.User) cachedPrincipal {
	return cachedPrincipal{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (cp cachedPrincipal) toUser() *domain.User {
	return &domain.User{
		ID:        cp.ID,
		FirstName: cp.FirstName,
		LastName:  cp.LastName,
		Email:     cp.Email,
		Role:      cp.Role,
		CreatedAt: cp.CreatedAt,
		UpdatedAt: cp.UpdatedAt,
	}
}
