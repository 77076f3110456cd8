// Package session keeps server-side login sessions and the signed tokens that point at them.
package session

import (
	"context"
	"errors"
	"time"

	"food-share-api/models"
)

// ErrNotFound is returned for unknown, expired or revoked sessions.
var ErrNotFound = errors.New("session not found")

// Session is the server-side record of an authenticated browser.
type Session struct {
	ID        string          `json:"id"`
	UserID    uint            `json:"user_id"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Store persists sessions until they expire.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
