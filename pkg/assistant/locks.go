package assistant

import "sync"

// convLocks serializes Handle calls per conversation. The single-open-incident
// and single-session invariants only hold if a conversation's state is never
// touched by two requests at once; cross-conversation calls need no
// coordination. Locks are created on first use and kept for process lifetime
// (conversation cardinality is bounded at in-memory scale).
type convLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newConvLocks() *convLocks {
	return &convLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the conversation and returns its unlock func.
func (c *convLocks) acquire(conversationID string) func() {
	c.mu.Lock()
	l, ok := c.locks[conversationID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[conversationID] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l.Unlock
}
