package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"homeguard/models"
	"homeguard/pkg/cache"
	"homeguard/pkg/intent"
	"homeguard/pkg/knowledge"
	"homeguard/pkg/services"
	"homeguard/pkg/store"
	"homeguard/pkg/triage"
)

// Oracle generates free-form text. Satisfied by services.GeminiService.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Available() bool
}

// Retrieval answers property questions from indexed house manuals.
// Satisfied by knowledge.Base.
type Retrieval interface {
	Ready() bool
	Query(propertyID, question string) []knowledge.Passage
}

// Request is one inbound chat message.
type Request struct {
	ConversationID string
	PropertyID     string
	UserID         string
	Role           string // models.SenderTenant or models.SenderLandlord
	Text           string
}

// Response is what the assistant decided to do with the message.
type Response struct {
	Reply           string   `json:"reply"`
	Sources         []string `json:"sources,omitempty"`
	IncidentCreated bool     `json:"incident_created"`
	IncidentID      string   `json:"incident_id,omitempty"`
	Category        string   `json:"category,omitempty"`
	Severity        string   `json:"severity,omitempty"`
	Description     string   `json:"description,omitempty"`
}

var ErrEmptyMessage = errors.New("assistant: empty message")

// Orchestrator routes each tenant message through the troubleshooting and
// incident lifecycle. One instance serves all conversations.
type Orchestrator struct {
	conversations store.ConversationStore
	incidents     store.IncidentStore
	sessions      *SessionManager
	oracle        Oracle
	triage        *triage.Classifier
	retrieval     Retrieval
	locks         *convLocks
	answers       *cache.Cache
	answerTTL     time.Duration
}

func NewOrchestrator(conversations store.ConversationStore, incidents store.IncidentStore, oracle Oracle, retrieval Retrieval) *Orchestrator {
	return &Orchestrator{
		conversations: conversations,
		incidents:     incidents,
		sessions:      NewSessionManager(),
		oracle:        oracle,
		triage:        triage.NewClassifier(oracle),
		retrieval:     retrieval,
		locks:         newConvLocks(),
		answers:       cache.Default(),
		answerTTL:     10 * time.Minute,
	}
}

// SetAnswerCacheTTL overrides how long answered questions are served from
// cache.
func (o *Orchestrator) SetAnswerCacheTTL(d time.Duration) {
	if d > 0 {
		o.answerTTL = d
	}
}

// Handle processes one message end to end. Concurrent calls for the same
// conversation are serialized; different conversations proceed in parallel.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (*Response, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	unlock := o.locks.acquire(req.ConversationID)
	defer unlock()

	if err := o.conversations.EnsureConversation(req.ConversationID, req.PropertyID, text); err != nil {
		return nil, err
	}
	if err := o.conversations.AppendMessage(&models.Message{
		ConversationID: req.ConversationID,
		Role:           models.RoleUser,
		SenderID:       req.UserID,
		SenderRole:     req.Role,
		Text:           text,
	}); err != nil {
		return nil, err
	}

	// Landlord messages are stored for the tenant to read. The assistant
	// never replies to the landlord in a tenant conversation.
	if req.Role == models.SenderLandlord {
		return &Response{}, nil
	}

	res := intent.Classify(text)

	if res.IsEscalationConfirmation {
		if resp, handled, err := o.handleConfirmation(ctx, req); handled || err != nil {
			return resp, err
		}
	}

	if inc, err := o.incidents.FindOpen(req.ConversationID); err != nil {
		return nil, err
	} else if inc != nil {
		return o.appendIncidentDetails(req, inc, text)
	}

	if sess := o.sessions.Get(req.ConversationID); sess != nil {
		return o.continueSession(ctx, req, sess, text)
	}

	switch {
	case res.IsUnfixable:
		return o.createIncident(ctx, req, text, "", true)
	case res.IsIssueReport:
		return o.startSession(ctx, req, text)
	case res.IsQuestion:
		return o.answerQuestion(ctx, req, text)
	default:
		return o.smallTalk(ctx, req, text)
	}
}

// smallTalk handles messages that are neither questions nor issue reports.
// With no oracle configured the tenant is told the message was saved; a
// failed oracle call still gets a plain acknowledgment.
func (o *Orchestrator) smallTalk(ctx context.Context, req Request, text string) (*Response, error) {
	if o.oracle == nil || !o.oracle.Available() {
		return o.reply(req, composeMessageSaved(), nil, "")
	}
	out, err := o.oracle.Generate(ctx, buildSmallTalkPrompt(text))
	if err == nil && strings.TrimSpace(out) != "" {
		return o.reply(req, sanitizeAnswer(strings.TrimSpace(out)), nil, "")
	}
	if err != nil {
		log.Printf("[assistant] small-talk oracle failed: %v", err)
	}
	return o.reply(req, composeThanksSaved(), nil, "")
}

// handleConfirmation creates the incident a previous assistant message
// offered to escalate. A bare "yes" with no standing offer is ignored and
// falls through to normal classification.
func (o *Orchestrator) handleConfirmation(ctx context.Context, req Request) (*Response, bool, error) {
	msgs, err := o.conversations.Messages(req.ConversationID)
	if err != nil {
		return nil, true, err
	}
	offerAt := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleAssistant {
			if offersEscalation(msgs[i].Text) {
				offerAt = i
			}
			break
		}
	}
	if offerAt < 0 {
		return nil, false, nil
	}

	// The description is the tenant's actual problem statement. Confirmation
	// messages ("yes", "ok") carry no content, so they never qualify; with
	// nothing else before the offer the generic description stands.
	description := genericIssueDescription
	for i := offerAt - 1; i >= 0; i-- {
		if msgs[i].Role != models.RoleUser || msgs[i].SenderRole != models.SenderTenant {
			continue
		}
		if intent.Classify(msgs[i].Text).IsEscalationConfirmation {
			continue
		}
		description = msgs[i].Text
		break
	}
	resp, err := o.createIncident(ctx, req, description, "", true)
	return resp, true, err
}

func (o *Orchestrator) appendIncidentDetails(req Request, inc *models.Incident, text string) (*Response, error) {
	if err := o.incidents.AppendInfo(inc.ID, text); err != nil {
		return nil, err
	}
	updated, err := o.incidents.Get(inc.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = inc
	}
	resp, err := o.reply(req, composeTicketUpdated(string(updated.Category), string(updated.Severity), updated.Description), nil, updated.ID)
	if err != nil {
		return nil, err
	}
	resp.IncidentID = updated.ID
	resp.Category = string(updated.Category)
	resp.Severity = string(updated.Severity)
	resp.Description = updated.Description
	return resp, nil
}

func (o *Orchestrator) continueSession(ctx context.Context, req Request, sess *Session, text string) (*Response, error) {
	o.sessions.AttachTenantResponse(req.ConversationID, text)

	if intent.Resolved(text) {
		o.sessions.End(req.ConversationID)
		return o.reply(req, composeResolvedAck(), nil, "")
	}

	if sess.Attempts >= EscalationThreshold {
		summary := o.sessions.Summarize(req.ConversationID)
		description := sess.Issue + "\n\n" + summary
		resp, err := o.createIncident(ctx, req, description, sess.Issue, false)
		if err != nil {
			return nil, err
		}
		o.sessions.End(req.ConversationID)
		return resp, nil
	}

	suggestion := o.nextSuggestion(ctx, sess)
	o.sessions.RecordStep(req.ConversationID, suggestion)
	return o.replySuggestion(req, composeTroubleshootingReply(suggestion))
}

func (o *Orchestrator) startSession(ctx context.Context, req Request, text string) (*Response, error) {
	category := triage.Fallback(text).Category
	o.sessions.Start(req.ConversationID, text, category)
	sess := o.sessions.Get(req.ConversationID)
	suggestion := o.nextSuggestion(ctx, sess)
	o.sessions.RecordStep(req.ConversationID, suggestion)
	return o.replySuggestion(req, composeTroubleshootingReply(suggestion))
}

// nextSuggestion asks the oracle for one new diagnostic step, with canned
// per-category steps as the offline fallback.
func (o *Orchestrator) nextSuggestion(ctx context.Context, sess *Session) string {
	tried := o.sessions.Suggestions(sess.ConversationID)
	if o.oracle != nil && o.oracle.Available() {
		out, err := o.oracle.Generate(ctx, buildSuggestionPrompt(sess.Issue, tried))
		if err == nil {
			if s := strings.TrimSpace(out); s != "" && !strings.Contains(strings.ToLower(s), escalationMarker) {
				return s
			}
		} else {
			log.Printf("[assistant] suggestion oracle failed: %v", err)
		}
	}
	return services.FallbackSuggestion(sess.Category, tried)
}

// createIncident triages the description, persists the incident, and answers
// with the ticket confirmation. troubleshot carries the original issue text
// when the ticket follows a failed troubleshooting session.
func (o *Orchestrator) createIncident(ctx context.Context, req Request, description, troubleshot string, direct bool) (*Response, error) {
	if existing, err := o.incidents.FindOpen(req.ConversationID); err != nil {
		return nil, err
	} else if existing != nil {
		return o.appendIncidentDetails(req, existing, description)
	}

	triaged := description
	if troubleshot != "" {
		triaged = troubleshot
	}
	tri := o.triage.Triage(ctx, triaged)

	inc := &models.Incident{
		ID:               uuid.NewString(),
		PropertyID:       req.PropertyID,
		ConversationID:   req.ConversationID,
		Description:      description,
		Category:         tri.Category,
		Severity:         tri.Severity,
		Status:           models.IncidentReported,
		AwaitingMoreInfo: true,
		AISuggested:      true,
	}
	if err := o.incidents.Create(inc); err != nil {
		return nil, err
	}

	reply := composeTicketConfirmation(tri)
	if !direct {
		reply = composeEscalatedTicket(tri)
	}
	resp, err := o.reply(req, reply, nil, inc.ID)
	if err != nil {
		return nil, err
	}
	resp.IncidentCreated = true
	resp.IncidentID = inc.ID
	resp.Category = string(tri.Category)
	resp.Severity = string(tri.Severity)
	resp.Description = description
	return resp, nil
}

// answerQuestion serves property questions from the house manuals and
// everything else from general knowledge, always leaving the tenant a way
// to reach the landlord.
func (o *Orchestrator) answerQuestion(ctx context.Context, req Request, question string) (*Response, error) {
	key := cache.KeyFromStrings("answer", req.PropertyID, question)
	if hit, ok := o.answers.Get(key); ok {
		return o.reply(req, hit, nil, "")
	}

	if o.oracle == nil || !o.oracle.Available() {
		return o.reply(req, composeMessageSaved(), nil, "")
	}

	var passages []knowledge.Passage
	if o.retrieval != nil && o.retrieval.Ready() {
		passages = o.retrieval.Query(req.PropertyID, question)
	}

	var answer string
	var sources []string
	var err error
	if len(passages) > 0 {
		answer, err = o.oracle.Generate(ctx, buildQuestionPrompt(question, passages))
		if err == nil {
			for _, p := range passages {
				sources = append(sources, p.Text)
			}
		} else {
			// degrade to general knowledge before giving up on the oracle
			log.Printf("[assistant] contextual answer oracle failed: %v", err)
			answer, err = o.oracle.Generate(ctx, buildGeneralPrompt(question))
		}
	} else {
		answer, err = o.oracle.Generate(ctx, buildGeneralPrompt(question))
	}
	if err != nil {
		log.Printf("[assistant] answer oracle failed: %v", err)
		return o.reply(req, composeEscalationOffer(), nil, "")
	}

	answer = sanitizeAnswer(answer)
	if len(sources) == 0 {
		answer = ensureEscalationOffer(answer)
	}
	o.answers.Set(key, answer, o.answerTTL)
	return o.reply(req, answer, sources, "")
}

// SuggestReply drafts a landlord reply from recent conversation history.
func (o *Orchestrator) SuggestReply(ctx context.Context, conversationID string) (string, error) {
	if o.oracle == nil || !o.oracle.Available() {
		return "", services.ErrGeminiDisabled
	}
	msgs, err := o.conversations.Messages(conversationID)
	if err != nil {
		return "", err
	}
	start := 0
	if len(msgs) > 10 {
		start = len(msgs) - 10
	}
	var b strings.Builder
	for _, m := range msgs[start:] {
		b.WriteString(m.SenderRole)
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	return o.oracle.Generate(ctx, buildSuggestReplyPrompt(b.String()))
}

func (o *Orchestrator) reply(req Request, text string, sources []string, incidentID string) (*Response, error) {
	msg := &models.Message{
		ConversationID: req.ConversationID,
		Role:           models.RoleAssistant,
		SenderRole:     models.SenderAssistant,
		Text:           text,
		IncidentID:     incidentID,
	}
	if len(sources) > 0 {
		if raw, err := json.Marshal(sources); err == nil {
			msg.SourcesJSON = string(raw)
		}
	}
	if err := o.conversations.AppendMessage(msg); err != nil {
		return nil, err
	}
	return &Response{Reply: text, Sources: sources}, nil
}

func (o *Orchestrator) replySuggestion(req Request, text string) (*Response, error) {
	msg := &models.Message{
		ConversationID: req.ConversationID,
		Role:           models.RoleAssistant,
		SenderRole:     models.SenderAssistant,
		Text:           text,
		IsSuggestion:   true,
	}
	if err := o.conversations.AppendMessage(msg); err != nil {
		return nil, err
	}
	return &Response{Reply: text}, nil
}
