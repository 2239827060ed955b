package session

import (
	"sync"
	"time"
)

// Store owns all sessions, keyed by user id. Sessions are created lazily on
// first access and live for the process lifetime.
//
// Concurrent requests for different users run fully in parallel. Concurrent
// requests for the same user are serialized by a per-user lock so the
// read-modify-write of history, flags and cooldown cannot interleave.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	locks    map[string]*sync.Mutex

	now func() time.Time
}

// NewStore creates a store using the wall clock.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates a store with an injectable clock, used by tests
// to exercise flag expiry.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
		now:      now,
	}
}

// Acquire returns the user's session with its lock held. The caller must
// call release when done mutating the session.
func (st *Store) Acquire(userID string) (sess *Session, release func()) {
	st.mu.Lock()
	sess, ok := st.sessions[userID]
	if !ok {
		sess = &Session{
			Flags: make(map[string]time.Time),
			now:   st.now,
		}
		st.sessions[userID] = sess
		st.locks[userID] = &sync.Mutex{}
	}
	lock := st.locks[userID]
	st.mu.Unlock()

	lock.Lock()
	return sess, lock.Unlock
}

// Len returns the number of known sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
