package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-share-api/models"

	"github.com/google/uuid"
)

// Manager creates, resolves and ends sessions.
type Manager struct {
	store Store
	codec *TokenCodec
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, codec *TokenCodec, ttl time.Duration) *Manager {
	return &Manager{store: store, codec: codec, ttl: ttl, now: time.Now}
}

// TTL is the lifetime of new sessions.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Start creates a session for user and returns its signed token.
func (m *Manager) Start(ctx context.Context, user models.User) (string, Session, error) {
	now := m.now()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return "", Session{}, err
	}
	token, err := m.codec.Issue(sess)
	if err != nil {
		_ = m.store.Delete(ctx, sess.ID)
		return "", Session{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, sess, nil
}

// Resolve returns the live session a token points at.
func (m *Manager) Resolve(ctx context.Context, token string) (Session, error) {
	id, err := m.codec.SessionID(token)
	if err != nil {
		return Session{}, err
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if !sess.ExpiresAt.After(m.now()) {
		_ = m.store.Delete(ctx, id)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// End deletes the session behind token. Unknown or malformed tokens are ignored.
func (m *Manager) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, err := m.codec.SessionIDIgnoringExpiry(token)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
