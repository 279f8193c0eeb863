package chat

import (
	"slices"
	"sync"

	"github.com/suPer8Hu/ai-assistant/internal/common"
)

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the caller-owned state for one chat: the selected model and
// the transcript of the active session. It is not safe for concurrent use; the
// owner serializes access.
type Conversation struct {
	Provider   string
	Model      string
	SessionID  string
	Transcript []Turn
}

// NewConversation starts a conversation on a fresh, unpersisted session.
func NewConversation(provider string) (*Conversation, error) {
	sid, err := NewSessionID()
	if err != nil {
		return nil, err
	}
	return &Conversation{Provider: provider, SessionID: sid}, nil
}

// Snapshot copies the transcript.
func (c *Conversation) Snapshot() []Turn {
	out := slices.Clone(c.Transcript)
	if out == nil {
		out = []Turn{}
	}
	return out
}

func NewSessionID() (string, error) {
	return common.NewULID()
}

// sessionLocks hands out one mutex per session id; entries are dropped once
// nobody holds or waits on them.
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{m: make(map[string]*sessionLock)}
}

func (l *sessionLocks) Lock(sessionID string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.m[sessionID]
	if !ok {
		e = &sessionLock{}
		l.m[sessionID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, sessionID)
		}
		l.mu.Unlock()
	}
}
