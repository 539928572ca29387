package tracker

import (
	"sync"
	"time"
)

type sessionKey struct {
	userID    string
	channelID string
}

// Tracker holds the currently open voice session per (user, channel). It is
// the in-memory authority on in-progress sessions; the repository mirrors its
// rows for crash recovery.
type Tracker struct {
	mu       sync.Mutex
	sessions map[sessionKey]time.Time
}

func New() *Tracker {
	return &Tracker{sessions: make(map[sessionKey]time.Time)}
}

// Open records the join time for (user, channel), replacing any stale entry
// for the same key.
func (t *Tracker) Open(userID, channelID string, joinedAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[sessionKey{userID, channelID}] = joinedAt
}

// Close removes the open session for (user, channel) and returns the elapsed
// duration. Closing a session that was never opened (a missed join event) is
// tolerated and reports zero with found=false.
func (t *Tracker) Close(userID, channelID string, at time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := sessionKey{userID, channelID}
	joinedAt, ok := t.sessions[key]
	if !ok {
		return 0, false
	}
	delete(t.sessions, key)
	return at.Sub(joinedAt), true
}

// Peek reports the elapsed duration of the open session for (user, channel)
// without closing it, or zero when none exists.
func (t *Tracker) Peek(userID, channelID string, now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	joinedAt, ok := t.sessions[sessionKey{userID, channelID}]
	if !ok {
		return 0
	}
	return now.Sub(joinedAt)
}

// OpenChannelOf returns the channel the user currently occupies. Users occupy
// a single channel at a time, so at most one entry is live per user.
func (t *Tracker) OpenChannelOf(userID string) (channelID string, joinedAt time.Time, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, at := range t.sessions {
		if key.userID == userID {
			return key.channelID, at, true
		}
	}
	return "", time.Time{}, false
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
