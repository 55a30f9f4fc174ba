package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"homeguard/models"
	"homeguard/pkg/knowledge"
	"homeguard/pkg/store"
)

// scriptedOracle returns canned replies in order. An exhausted script keeps
// returning the last reply.
type scriptedOracle struct {
	replies []string
	calls   int
}

func (s *scriptedOracle) Available() bool { return true }

func (s *scriptedOracle) Generate(ctx context.Context, prompt string) (string, error) {
	i := s.calls
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	s.calls++
	return s.replies[i], nil
}

// flakyOracle errors for the first failFirst calls, then returns reply.
type flakyOracle struct {
	failFirst int
	calls     int
	reply     string
}

func (f *flakyOracle) Available() bool { return true }

func (f *flakyOracle) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.calls <= f.failFirst {
		return "", errors.New("model overloaded")
	}
	return f.reply, nil
}

// downOracle is configured off entirely.
type downOracle struct{}

func (downOracle) Available() bool { return false }

func (downOracle) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("oracle disabled")
}

type stubRetrieval struct {
	passages []knowledge.Passage
}

func (s stubRetrieval) Ready() bool { return true }

func (s stubRetrieval) Query(propertyID, question string) []knowledge.Passage {
	return s.passages
}

func newTestOrchestrator(oracle Oracle) (*Orchestrator, *store.Memory) {
	mem := store.NewMemory()
	return NewOrchestrator(mem, mem, oracle, nil), mem
}

func tenantMsg(conv, text string) Request {
	return Request{ConversationID: conv, PropertyID: "prop-1", UserID: "u1", Role: models.SenderTenant, Text: text}
}

func TestTroubleshootThenEscalate(t *testing.T) {
	o, mem := newTestOrchestrator(nil)
	ctx := context.Background()

	resp, err := o.Handle(ctx, tenantMsg("conv-ac", "My AC is not working"))
	if err != nil {
		t.Fatalf("first message: %v", err)
	}
	if resp.IncidentCreated {
		t.Fatalf("no incident expected on first report")
	}
	if !strings.Contains(resp.Reply, "Let's try") {
		t.Fatalf("expected a troubleshooting suggestion, got %q", resp.Reply)
	}

	resp, err = o.Handle(ctx, tenantMsg("conv-ac", "still broken"))
	if err != nil {
		t.Fatalf("second message: %v", err)
	}
	if resp.IncidentCreated {
		t.Fatalf("no incident expected on second attempt")
	}
	if !strings.Contains(resp.Reply, "Let's try") {
		t.Fatalf("expected a second suggestion, got %q", resp.Reply)
	}

	resp, err = o.Handle(ctx, tenantMsg("conv-ac", "still not working"))
	if err != nil {
		t.Fatalf("third message: %v", err)
	}
	if !resp.IncidentCreated {
		t.Fatalf("expected incident after two failed attempts, got %q", resp.Reply)
	}
	if resp.Category != "AC" {
		t.Fatalf("category = %q, want AC", resp.Category)
	}
	if resp.Severity != "high" {
		t.Fatalf("severity = %q, want high", resp.Severity)
	}

	inc, err := mem.Get(resp.IncidentID)
	if err != nil || inc == nil {
		t.Fatalf("incident not persisted: %v", err)
	}
	if !strings.Contains(inc.Description, "Troubleshooting attempted (2 steps)") {
		t.Fatalf("description missing troubleshooting summary:\n%s", inc.Description)
	}
	if !inc.AwaitingMoreInfo {
		t.Fatalf("new incident should await more info")
	}
}

func TestUnfixableCreatesIncidentImmediately(t *testing.T) {
	o, mem := newTestOrchestrator(nil)

	resp, err := o.Handle(context.Background(), tenantMsg("conv-gas", "There is a gas smell in the kitchen"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !resp.IncidentCreated {
		t.Fatalf("expected immediate incident for a safety hazard, got %q", resp.Reply)
	}

	incs, err := mem.List("prop-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(incs) != 1 {
		t.Fatalf("incidents = %d, want 1", len(incs))
	}
	if incs[0].Status != models.IncidentReported {
		t.Fatalf("status = %q, want reported", incs[0].Status)
	}
}

func TestLandlordMessageStoredWithoutReply(t *testing.T) {
	o, mem := newTestOrchestrator(nil)

	resp, err := o.Handle(context.Background(), Request{
		ConversationID: "conv-ll", PropertyID: "prop-1", UserID: "l1",
		Role: models.SenderLandlord, Text: "I'll send a plumber on Friday",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.Reply != "" {
		t.Fatalf("assistant should not reply to landlord, got %q", resp.Reply)
	}

	msgs, _ := mem.Messages("conv-ll")
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1 (landlord message only)", len(msgs))
	}
	if msgs[0].SenderRole != models.SenderLandlord {
		t.Fatalf("sender role = %q", msgs[0].SenderRole)
	}
}

func TestBareYesWithoutOfferCreatesNothing(t *testing.T) {
	o, mem := newTestOrchestrator(nil)

	resp, err := o.Handle(context.Background(), tenantMsg("conv-yes", "yes"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.IncidentCreated {
		t.Fatalf("bare yes with no standing offer must not create an incident")
	}
	incs, _ := mem.List("prop-1")
	if len(incs) != 0 {
		t.Fatalf("incidents = %d, want 0", len(incs))
	}
}

func TestConfirmationAfterOfferCreatesIncident(t *testing.T) {
	// The first oracle call answers the question (no landlord mention, so an
	// escalation offer gets appended); the second, a triage call, returns
	// garbage and falls back to the keyword classifier.
	oracle := &scriptedOracle{replies: []string{
		"The thermostat model is listed in the unit documentation.",
		"no json here",
	}}
	o, mem := newTestOrchestrator(oracle)
	ctx := context.Background()

	resp, err := o.Handle(ctx, tenantMsg("conv-conf", "What thermostat model does unit 4 have?"))
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if resp.IncidentCreated {
		t.Fatalf("question alone must not create an incident")
	}
	if !offersEscalation(resp.Reply) {
		t.Fatalf("expected an escalation offer in %q", resp.Reply)
	}

	resp, err = o.Handle(ctx, tenantMsg("conv-conf", "yes please"))
	if err != nil {
		t.Fatalf("confirmation: %v", err)
	}
	if !resp.IncidentCreated {
		t.Fatalf("expected incident after confirming the offer, got %q", resp.Reply)
	}

	inc, _ := mem.Get(resp.IncidentID)
	if inc == nil {
		t.Fatalf("incident not persisted")
	}
	if !strings.Contains(inc.Description, "thermostat model") {
		t.Fatalf("description should carry the tenant's question, got %q", inc.Description)
	}
}

func TestConfirmationWithoutIssueUsesGenericDescription(t *testing.T) {
	// The small-talk reply reads like a repair instruction, so it gets
	// rewritten into text that offers escalation. The only tenant message
	// before that offer is itself a confirmation and must not become the
	// ticket description.
	oracle := &scriptedOracle{replies: []string{
		"You should just fix the hinge yourself.",
		"no json here",
	}}
	o, mem := newTestOrchestrator(oracle)
	ctx := context.Background()

	resp, err := o.Handle(ctx, tenantMsg("conv-generic", "ok"))
	if err != nil {
		t.Fatalf("first message: %v", err)
	}
	if resp.IncidentCreated {
		t.Fatalf("bare confirmation must not create an incident")
	}
	if !offersEscalation(resp.Reply) {
		t.Fatalf("expected the rewritten reply to offer escalation, got %q", resp.Reply)
	}

	resp, err = o.Handle(ctx, tenantMsg("conv-generic", "yes"))
	if err != nil {
		t.Fatalf("confirmation: %v", err)
	}
	if !resp.IncidentCreated {
		t.Fatalf("expected incident after confirming the offer")
	}

	inc, _ := mem.Get(resp.IncidentID)
	if inc == nil {
		t.Fatalf("incident not persisted")
	}
	if inc.Description != genericIssueDescription {
		t.Fatalf("description = %q, want the generic fallback", inc.Description)
	}
}

func TestContextualAnswerFailureFallsBackToGeneral(t *testing.T) {
	oracle := &flakyOracle{failFirst: 1, reply: "Most filters should be checked monthly."}
	mem := store.NewMemory()
	retrieval := stubRetrieval{passages: []knowledge.Passage{{Text: "Filter manual excerpt", Score: 2}}}
	o := NewOrchestrator(mem, mem, oracle, retrieval)

	resp, err := o.Handle(context.Background(), tenantMsg("conv-fallback", "How often should I check the filter?"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(resp.Reply, "Most filters should be checked monthly.") {
		t.Fatalf("expected the general-knowledge answer, got %q", resp.Reply)
	}
	if len(resp.Sources) != 0 {
		t.Fatalf("general-knowledge fallback must not claim manual sources: %v", resp.Sources)
	}
	if !offersEscalation(resp.Reply) {
		t.Fatalf("general-knowledge answer should carry an escalation offer, got %q", resp.Reply)
	}
	if oracle.calls != 2 {
		t.Fatalf("oracle calls = %d, want 2 (contextual then general)", oracle.calls)
	}
}

func TestSmallTalkOracleStates(t *testing.T) {
	t.Run("unavailable says message saved", func(t *testing.T) {
		o, _ := newTestOrchestrator(downOracle{})
		resp, err := o.Handle(context.Background(), tenantMsg("conv-down", "greetings from unit 4"))
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if resp.Reply != composeMessageSaved() {
			t.Fatalf("reply = %q, want the message-saved text", resp.Reply)
		}
	})

	t.Run("call failure falls back to acknowledgment", func(t *testing.T) {
		o, _ := newTestOrchestrator(&flakyOracle{failFirst: 10})
		resp, err := o.Handle(context.Background(), tenantMsg("conv-flaky", "greetings again"))
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if resp.Reply != composeThanksSaved() {
			t.Fatalf("reply = %q, want the acknowledgment text", resp.Reply)
		}
	})
}

func TestResolvedEndsSession(t *testing.T) {
	o, mem := newTestOrchestrator(nil)
	ctx := context.Background()

	if _, err := o.Handle(ctx, tenantMsg("conv-fix", "The kitchen light keeps flickering")); err != nil {
		t.Fatalf("report: %v", err)
	}
	resp, err := o.Handle(ctx, tenantMsg("conv-fix", "that fixed it, thanks"))
	if err != nil {
		t.Fatalf("resolution: %v", err)
	}
	if resp.IncidentCreated {
		t.Fatalf("resolved session must not create an incident")
	}
	if !strings.Contains(resp.Reply, "glad") {
		t.Fatalf("expected resolution acknowledgement, got %q", resp.Reply)
	}
	incs, _ := mem.List("prop-1")
	if len(incs) != 0 {
		t.Fatalf("incidents = %d, want 0", len(incs))
	}

	// a fresh report afterwards starts a new session, not an escalation
	resp, err = o.Handle(ctx, tenantMsg("conv-fix", "now the bathroom light is flickering too"))
	if err != nil {
		t.Fatalf("second report: %v", err)
	}
	if resp.IncidentCreated {
		t.Fatalf("new report after resolution should start troubleshooting")
	}
}

func TestNegativeOverridesPositiveResolution(t *testing.T) {
	o, _ := newTestOrchestrator(nil)
	ctx := context.Background()

	if _, err := o.Handle(ctx, tenantMsg("conv-neg", "The router has a problem, no internet")); err != nil {
		t.Fatalf("report: %v", err)
	}
	resp, err := o.Handle(ctx, tenantMsg("conv-neg", "it looked fixed for a minute but still no luck"))
	if err != nil {
		t.Fatalf("mixed reply: %v", err)
	}
	if strings.Contains(resp.Reply, "glad") {
		t.Fatalf("mixed positive/negative reply must not end the session: %q", resp.Reply)
	}
	if !strings.Contains(resp.Reply, "Let's try") {
		t.Fatalf("expected troubleshooting to continue, got %q", resp.Reply)
	}
}

func TestOpenIncidentCollectsOneFollowUp(t *testing.T) {
	o, mem := newTestOrchestrator(nil)
	ctx := context.Background()

	resp, err := o.Handle(ctx, tenantMsg("conv-follow", "I can smell gas near the stove"))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !resp.IncidentCreated {
		t.Fatalf("expected immediate incident")
	}
	id := resp.IncidentID

	resp, err = o.Handle(ctx, tenantMsg("conv-follow", "It gets stronger when the burner is on"))
	if err != nil {
		t.Fatalf("follow-up: %v", err)
	}
	if resp.IncidentCreated {
		t.Fatalf("follow-up must update, not create")
	}
	if resp.IncidentID != id {
		t.Fatalf("follow-up attached to %q, want %q", resp.IncidentID, id)
	}

	inc, _ := mem.Get(id)
	if !strings.Contains(inc.Description, "Additional details") {
		t.Fatalf("description missing appended details:\n%s", inc.Description)
	}
	if inc.AwaitingMoreInfo {
		t.Fatalf("one follow-up should clear AwaitingMoreInfo")
	}

	// with details collected, the next message is classified normally
	resp, err = o.Handle(ctx, tenantMsg("conv-follow", "when is trash pickup?"))
	if err != nil {
		t.Fatalf("later question: %v", err)
	}
	if strings.Contains(resp.Reply, "added your message") {
		t.Fatalf("closed collection window should not keep appending: %q", resp.Reply)
	}
}

func TestEmptyMessageRejected(t *testing.T) {
	o, _ := newTestOrchestrator(nil)
	if _, err := o.Handle(context.Background(), tenantMsg("conv-empty", "   ")); err != ErrEmptyMessage {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestChitchatGetsAcknowledged(t *testing.T) {
	o, _ := newTestOrchestrator(nil)
	resp, err := o.Handle(context.Background(), tenantMsg("conv-chat", "thanks for everything"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.IncidentCreated {
		t.Fatalf("chitchat must not create incidents")
	}
	if resp.Reply == "" {
		t.Fatalf("expected an acknowledgement reply")
	}
}
