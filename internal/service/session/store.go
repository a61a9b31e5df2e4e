package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types recorded in session history.
const (
	EventQueryOptimize = "query_optimize"
)

// Event is one append-only history record. Fields carry the event-specific
// payload, e.g. {original, optimized} for query_optimize.
type Event struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Snapshot is a read-only projection of a session. History and Context are
// copies; mutating them does not touch the store.
type Snapshot struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	History   []Event
	Context   map[string]any
}

type record struct {
	userID    string
	createdAt time.Time
	lastSeen  time.Time
	history   []Event
	context   map[string]any
}

// Store holds conversational sessions in memory. Sessions do not survive a
// restart. Idle sessions expire after ttl and the store never holds more than
// maxSessions; both bounds guard against unbounded growth under load.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*record
	ttl      time.Duration
	max      int
	now      func() time.Time
}

func NewStore(ttl time.Duration, maxSessions int) *Store {
	return &Store{
		sessions: make(map[string]*record),
		ttl:      ttl,
		max:      maxSessions,
		now:      time.Now,
	}
}

// Create allocates a session with a fresh id and empty history and context.
// It never fails; at capacity the idle-longest session is dropped first.
func (s *Store) Create(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		s.evictOldestLocked()
	}

	id := uuid.NewString()
	now := s.now()
	s.sessions[id] = &record{
		userID:    userID,
		createdAt: now,
		lastSeen:  now,
		history:   []Event{},
		context:   make(map[string]any),
	}
	return id
}

// Get returns a read-only snapshot. It has no side effects and does not count
// as session activity.
func (s *Store) Get(id string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, false
	}

	history := make([]Event, len(rec.history))
	copy(history, rec.history)
	context := make(map[string]any, len(rec.context))
	for k, v := range rec.context {
		context[k] = v
	}

	return Snapshot{
		ID:        id,
		UserID:    rec.userID,
		CreatedAt: rec.createdAt,
		History:   history,
		Context:   context,
	}, true
}

func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// AppendEvent appends one history record. Unknown ids are a silent no-op;
// callers that need to report an error must check Exists first.
func (s *Store) AppendEvent(id string, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return
	}

	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now()
	}
	rec.history = append(rec.history, ev)
	rec.lastSeen = s.now()
}

// SetContext stores one cross-turn context value, e.g. the last result set or
// a pending clarification.
func (s *Store) SetContext(id string, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return
	}
	rec.context[key] = value
	rec.lastSeen = s.now()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Evict drops sessions idle longer than the TTL and returns how many were
// removed.
func (s *Store) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, rec := range s.sessions {
		if rec.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, rec := range s.sessions {
		if oldestID == "" || rec.lastSeen.Before(oldest) {
			oldestID = id
			oldest = rec.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}
