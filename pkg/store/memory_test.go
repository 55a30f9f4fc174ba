package store

import (
	"strings"
	"testing"

	"homeguard/models"
)

func newIncident(id, conversationID string, awaiting bool) *models.Incident {
	return &models.Incident{
		ID:               id,
		PropertyID:       "prop-1",
		ConversationID:   conversationID,
		Description:      "the AC is not working",
		Category:         models.CategoryAC,
		Severity:         models.SeverityHigh,
		Status:           models.IncidentReported,
		AwaitingMoreInfo: awaiting,
	}
}

func TestFindOpenIdempotent(t *testing.T) {
	m := NewMemory()
	if err := m.Create(newIncident("inc-1", "conv-1", true)); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := m.FindOpen("conv-1")
	if err != nil || first == nil {
		t.Fatalf("expected open incident, got %v err=%v", first, err)
	}
	second, err := m.FindOpen("conv-1")
	if err != nil || second == nil {
		t.Fatalf("expected open incident on second call, got %v err=%v", second, err)
	}
	if first.ID != second.ID {
		t.Fatalf("FindOpen not idempotent: %s vs %s", first.ID, second.ID)
	}
}

func TestAppendInfoClearsAwaiting(t *testing.T) {
	m := NewMemory()
	if err := m.Create(newIncident("inc-1", "conv-1", true)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := m.AppendInfo("inc-1", "it only happens at night"); err != nil {
		t.Fatalf("append info: %v", err)
	}

	inc, err := m.Get("inc-1")
	if err != nil || inc == nil {
		t.Fatalf("get: %v err=%v", inc, err)
	}
	if inc.AwaitingMoreInfo {
		t.Fatalf("expected AwaitingMoreInfo cleared after append")
	}
	if !strings.Contains(inc.Description, "Additional details") {
		t.Fatalf("expected delimited details block, got: %q", inc.Description)
	}
	if !strings.Contains(inc.Description, "it only happens at night") {
		t.Fatalf("expected appended text in description")
	}

	if open, _ := m.FindOpen("conv-1"); open != nil {
		t.Fatalf("expected no open incident after append")
	}
}

func TestAppendInfoUnknownIDIsNoop(t *testing.T) {
	m := NewMemory()
	if err := m.AppendInfo("nope", "whatever"); err != nil {
		t.Fatalf("expected silent no-op for unknown id, got %v", err)
	}
}

func TestFindOpenScopedToConversation(t *testing.T) {
	m := NewMemory()
	_ = m.Create(newIncident("inc-1", "conv-1", true))
	_ = m.Create(newIncident("inc-2", "conv-2", false))

	if open, _ := m.FindOpen("conv-2"); open != nil {
		t.Fatalf("conv-2 incident is not awaiting info, expected nil")
	}
	open, _ := m.FindOpen("conv-1")
	if open == nil || open.ID != "inc-1" {
		t.Fatalf("expected inc-1 open for conv-1, got %v", open)
	}
}

func TestMarkScheduled(t *testing.T) {
	m := NewMemory()
	_ = m.Create(newIncident("inc-1", "conv-1", false))

	if err := m.MarkScheduled("inc-1", "2025-09-01T10:00:00Z"); err != nil {
		t.Fatalf("mark scheduled: %v", err)
	}
	inc, _ := m.Get("inc-1")
	if inc.Status != models.IncidentScheduled {
		t.Fatalf("expected scheduled status, got %s", inc.Status)
	}
	if inc.ScheduledAt == nil {
		t.Fatalf("expected ScheduledAt set")
	}
	// unknown id stays a no-op
	if err := m.MarkScheduled("nope", "bogus"); err != nil {
		t.Fatalf("expected no-op for unknown id, got %v", err)
	}
}

func TestMessagesPreserveOrder(t *testing.T) {
	m := NewMemory()
	_ = m.EnsureConversation("conv-1", "prop-1", "the AC is not working")
	for _, text := range []string{"first", "second", "third"} {
		_ = m.AppendMessage(&models.Message{ConversationID: "conv-1", Role: models.RoleUser, Text: text})
	}
	msgs, err := m.Messages("conv-1")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 3 || msgs[0].Text != "first" || msgs[2].Text != "third" {
		t.Fatalf("expected insertion order preserved, got %+v", msgs)
	}
}
