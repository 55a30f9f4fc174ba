package assistant

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"homeguard/models"
)

// EscalationThreshold is the number of suggested steps after which an
// unresolved issue is force-escalated into a ticket. Fixed at 2 by product
// decision; deliberately not configurable per category.
const EscalationThreshold = 2

// Step is one suggested self-check and the tenant's eventual reply to it.
type Step struct {
	Suggestion     string
	TenantResponse string
	At             time.Time
}

// Session is one live troubleshooting dialogue. It exists only between
// "issue first detected" and "resolved or escalated" and is deleted on
// either terminal transition.
type Session struct {
	ConversationID string
	Issue          string
	Category       models.Category
	Attempts       int
	Steps          []Step
	StartedAt      time.Time
}

// SessionManager holds at most one live session per conversation. All
// mutation happens under the orchestrator's per-conversation lock; the
// internal mutex only guards the map across conversations.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Start transitions NONE -> ACTIVE. Starting over an existing session
// replaces it; callers check Get first.
func (sm *SessionManager) Start(conversationID, issue string, category models.Category) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[conversationID] = &Session{
		ConversationID: conversationID,
		Issue:          issue,
		Category:       category,
		StartedAt:      time.Now(),
	}
}

// Get returns the live session for the conversation, or nil.
func (sm *SessionManager) Get(conversationID string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.sessions[conversationID]
}

// RecordStep appends a suggested step and increments the attempt counter.
func (sm *SessionManager) RecordStep(conversationID, suggestion string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	s := sm.sessions[conversationID]
	if s == nil {
		return
	}
	s.Steps = append(s.Steps, Step{Suggestion: suggestion, At: time.Now()})
	s.Attempts++
}

// AttachTenantResponse attaches the tenant's reply to the last recorded step.
func (sm *SessionManager) AttachTenantResponse(conversationID, response string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	s := sm.sessions[conversationID]
	if s == nil || len(s.Steps) == 0 {
		return
	}
	s.Steps[len(s.Steps)-1].TenantResponse = response
}

// AttemptCount returns the number of steps suggested so far.
func (sm *SessionManager) AttemptCount(conversationID string) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s := sm.sessions[conversationID]; s != nil {
		return s.Attempts
	}
	return 0
}

// Suggestions returns the step texts already offered, so a new suggestion
// can avoid repeating them.
func (sm *SessionManager) Suggestions(conversationID string) []string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	s := sm.sessions[conversationID]
	if s == nil {
		return nil
	}
	out := make([]string, len(s.Steps))
	for i, st := range s.Steps {
		out[i] = st.Suggestion
	}
	return out
}

// Summarize renders the session for embedding into an escalated incident's
// description.
func (sm *SessionManager) Summarize(conversationID string) string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	s := sm.sessions[conversationID]
	if s == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Troubleshooting attempted (%d steps) for: %s\n", s.Attempts, s.Issue)
	for i, st := range s.Steps {
		fmt.Fprintf(&b, "%d. Suggested: %s\n", i+1, st.Suggestion)
		if st.TenantResponse != "" {
			fmt.Fprintf(&b, "   Tenant response: %s\n", st.TenantResponse)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// End transitions ACTIVE -> NONE, deleting the session.
func (sm *SessionManager) End(conversationID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, conversationID)
}
