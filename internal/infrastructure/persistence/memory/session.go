package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

type sessionEntry struct {
	data     map[string]string
	expireAt time.Time
}

// SessionStore 内存会话存储，与redis.SessionStore方法一致
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[uint]sessionEntry
	blacklist map[string]time.Time
	now       func() time.Time
}

// NewSessionStore 创建内存会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[uint]sessionEntry),
		blacklist: make(map[string]time.Time),
		now:       time.Now,
	}
}

func (s *SessionStore) SaveSession(_ context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error {
	data := make(map[string]string, len(sessionData))
	for k, v := range sessionData {
		data[k] = fmt.Sprint(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sessionEntry{data: data, expireAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, userID uint) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[userID]
	if !ok || !s.now().Before(entry.expireAt) {
		delete(s.sessions, userID)
		return nil, apperrors.ErrUnauthorized
	}
	return entry.data, nil
}

func (s *SessionStore) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *SessionStore) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[token] = s.now().Add(ttl)
	return nil
}

func (s *SessionStore) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expireAt, ok := s.blacklist[token]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expireAt) {
		delete(s.blacklist, token)
		return false, nil
	}
	return true, nil
}
