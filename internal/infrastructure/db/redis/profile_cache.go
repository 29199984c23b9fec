package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/motiva-app/messaging-api/internal/core/domain"
)

const profileTTL = 5 * time.Minute

// ProfileCache is a read-through cache of user profiles backed by Redis.
// Key format: user:<id>
//
// Entries expire after profileTTL and are invalidated explicitly on every
// status write, so a cached profile is never more than one TTL stale.
type ProfileCache struct {
	client *redis.Client
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

// Get returns the cached profile, or (nil, nil) on a miss.
func (p *ProfileCache) Get(ctx context.Context, id string) (*domain.User, error) {
	raw, err := p.client.Get(ctx, p.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var user cachedUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}
	return user.toDomain(), nil
}

// Set stores the profile for profileTTL. Credentials are never written to
// the cache.
func (p *ProfileCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(fromDomain(user))
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}
	return p.client.Set(ctx, p.key(user.ID), raw, profileTTL).Err()
}

// Invalidate drops the cached profile for the given user.
func (p *ProfileCache) Invalidate(ctx context.Context, id string) error {
	return p.client.Del(ctx, p.key(id)).Err()
}

func (p *ProfileCache) key(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// cachedUser is the wire form stored in Redis. Password hash and refresh
// token deliberately have no field here.
type cachedUser struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	Gender          string    `json:"gender"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	Bio             string    `json:"bio,omitempty"`
	Experience      string    `json:"experience,omitempty"`
	Specialities    string    `json:"specialities,omitempty"`
	Reason          string    `json:"reason,omitempty"`
	ProfilePhotoURL string    `json:"profile_photo_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func fromDomain(u *domain.User) cachedUser {
	return cachedUser{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Gender:          u.Gender,
		Role:            string(u.Role),
		Status:          string(u.Status),
		Bio:             u.Bio,
		Experience:      u.Experience,
		Specialities:    u.Specialities,
		Reason:          u.Reason,
		ProfilePhotoURL: u.ProfilePhotoURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (c *cachedUser) toDomain() *domain.User {
	return &domain.User{
		ID:              c.ID,
		Email:           c.Email,
		FullName:        c.FullName,
		Gender:          c.Gender,
		Role:            domain.Role(c.Role),
		Status:          domain.Status(c.Status),
		Bio:             c.Bio,
		Experience:      c.Experience,
		Specialities:    c.Specialities,
		Reason:          c.Reason,
		ProfilePhotoURL: c.ProfilePhotoURL,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
