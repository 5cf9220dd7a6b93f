package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"wildhaven/models"
	"wildhaven/utils"

	"github.com/go-redis/redis/v8"
)

// SessionTTL bounds how long an abandoned flow lingers. Expiry loses the
// in-progress state, which is acceptable: nothing is finalized until
// payment confirms.
const SessionTTL = 30 * time.Minute

// lockTTL bounds a single-flight lock so a crashed request cannot wedge a
// flow permanently.
const lockTTL = 60 * time.Second

// ErrSessionNotFound is returned when a flow session is missing or expired.
var ErrSessionNotFound = errors.New("flow session not found or expired")

// SessionStore holds in-progress flow sessions and the per-flow
// single-flight locks guarding mutating remote calls.
type SessionStore interface {
	Save(ctx context.Context, session *models.FlowSession) error
	Get(ctx context.Context, flowID string) (*models.FlowSession, error)
	Delete(ctx context.Context, flowID string) error

	// AcquireLock claims the single-flight lock for one logical operation
	// on one flow. It returns false when a previous request still holds it.
	AcquireLock(ctx context.Context, flowID, op string) (bool, error)
	ReleaseLock(ctx context.Context, flowID, op string) error
}

// RedisSessionStore keeps sessions as JSON in the flow cache DB.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(flowID string) string {
	return utils.FlowSessionPrefix + flowID
}

func lockKey(flowID, op string) string {
	return utils.FlowLockPrefix + flowID + ":" + op
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.FlowSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal flow session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.FlowID), data, SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store flow session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, flowID string) (*models.FlowSession, error) {
	data, err := s.client.Get(ctx, sessionKey(flowID)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flow session: %w", err)
	}
	var session models.FlowSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse flow session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, flowID string) error {
	if err := s.client.Del(ctx, sessionKey(flowID)).Err(); err != nil {
		return fmt.Errorf("failed to delete flow session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) AcquireLock(ctx context.Context, flowID, op string) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockKey(flowID, op), "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire %s lock: %w", op, err)
	}
	return ok, nil
}

func (s *RedisSessionStore) ReleaseLock(ctx context.Context, flowID, op string) error {
	if err := s.client.Del(ctx, lockKey(flowID, op)).Err(); err != nil {
		return fmt.Errorf("failed to release %s lock: %w", op, err)
	}
	return nil
}

// MemorySessionStore is an in-process SessionStore. Used by tests and
// single-node development runs without Redis.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	locks    map[string]struct{}
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string][]byte),
		locks:    make(map[string]struct{}),
	}
}

func (s *MemorySessionStore) Save(_ context.Context, session *models.FlowSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal flow session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.FlowID] = data
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, flowID string) (*models.FlowSession, error) {
	s.mu.Lock()
	data, ok := s.sessions[flowID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var session models.FlowSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse flow session: %w", err)
	}
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, flowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, flowID)
	return nil
}

func (s *MemorySessionStore) AcquireLock(_ context.Context, flowID, op string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := flowID + ":" + op
	if _, held := s.locks[key]; held {
		return false, nil
	}
	s.locks[key] = struct{}{}
	return true, nil
}

func (s *MemorySessionStore) ReleaseLock(_ context.Context, flowID, op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, flowID+":"+op)
	return nil
}
