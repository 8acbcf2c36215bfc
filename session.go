package seoshop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Session identifies one shop installation. It is created by callback
// verification (or NewSession) and passed into every request.
type Session struct {
	ID         string     `json:"id"`
	ShopID     string     `json:"shop_id"`
	Token      string     `json:"token"`
	Language   string     `json:"language"`
	UserSecret string     `json:"user_secret"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// NewSession builds a session for a shop whose token is already known.
func (c *ClientConfig) NewSession(shopID string, token string, language string) *Session {
	if language == "" {
		language = c.language
	}
	return &Session{
		ID:         GetSessionID(shopID),
		ShopID:     shopID,
		Token:      token,
		Language:   language,
		UserSecret: UserSecret(token, c.appSecret),
	}
}

func GetSessionID(shopID string) string {
	return fmt.Sprintf("shop_%s", shopID)
}

type SessionStore interface {
	Get(ctx context.Context, ID string) (*Session, error)
	Store(ctx context.Context, session *Session) error
	Delete(ctx context.Context, ID string) error
}

var ErrNotFound = errors.New("session not found")

func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound)
}

func NewInMemSessionStore() SessionStore {
	return &inMemSessionStore{sessions: map[string]*Session{}}
}

type inMemSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func (i *inMemSessionStore) Get(_ context.Context, id string) (*Session, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (i *inMemSessionStore) Store(_ context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session without id")
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sessions[session.ID] = session
	return nil
}

func (i *inMemSessionStore) Delete(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.sessions, id)
	return nil
}
