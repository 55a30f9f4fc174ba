package assistant

import (
	"strings"
	"testing"

	"homeguard/models"
)

func TestSessionLifecycle(t *testing.T) {
	sm := NewSessionManager()

	if sm.Get("c1") != nil {
		t.Fatalf("expected no session before Start")
	}

	sm.Start("c1", "AC is not cooling", models.CategoryAC)
	sess := sm.Get("c1")
	if sess == nil {
		t.Fatalf("expected session after Start")
	}
	if sess.Attempts != 0 {
		t.Fatalf("new session attempts = %d, want 0", sess.Attempts)
	}

	sm.RecordStep("c1", "Check the thermostat mode")
	if got := sm.AttemptCount("c1"); got != 1 {
		t.Fatalf("attempts after first step = %d, want 1", got)
	}

	sm.AttachTenantResponse("c1", "still blowing warm air")
	sm.RecordStep("c1", "Check the air filter")
	if got := sm.AttemptCount("c1"); got != 2 {
		t.Fatalf("attempts after second step = %d, want 2", got)
	}

	sugg := sm.Suggestions("c1")
	if len(sugg) != 2 || sugg[0] != "Check the thermostat mode" || sugg[1] != "Check the air filter" {
		t.Fatalf("unexpected suggestions: %v", sugg)
	}

	sm.End("c1")
	if sm.Get("c1") != nil {
		t.Fatalf("expected session gone after End")
	}
}

func TestSessionSummarize(t *testing.T) {
	sm := NewSessionManager()
	sm.Start("c2", "heater makes a banging noise", models.CategoryHeater)
	sm.RecordStep("c2", "Check the thermostat setting")
	sm.AttachTenantResponse("c2", "no change")
	sm.RecordStep("c2", "Check the breaker panel")
	sm.AttachTenantResponse("c2", "still banging")

	got := sm.Summarize("c2")
	for _, want := range []string{
		"Troubleshooting attempted (2 steps) for: heater makes a banging noise",
		"1. Suggested: Check the thermostat setting",
		"Tenant response: no change",
		"2. Suggested: Check the breaker panel",
		"Tenant response: still banging",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestSummarizeUnknownConversation(t *testing.T) {
	sm := NewSessionManager()
	if got := sm.Summarize("nope"); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}

func TestRecordStepUnknownConversationIsNoop(t *testing.T) {
	sm := NewSessionManager()
	sm.RecordStep("ghost", "anything")
	sm.AttachTenantResponse("ghost", "anything")
	if got := sm.AttemptCount("ghost"); got != 0 {
		t.Fatalf("attempts = %d, want 0", got)
	}
}
