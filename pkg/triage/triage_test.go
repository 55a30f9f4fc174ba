package triage

import (
	"context"
	"errors"
	"testing"

	"homeguard/models"
)

type stubOracle struct {
	reply string
	err   error
}

func (s *stubOracle) Generate(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func (s *stubOracle) Available() bool { return true }

func TestFallbackCategories(t *testing.T) {
	cases := []struct {
		text string
		want models.Category
	}{
		{"the air conditioning is blowing warm air", models.CategoryAC},
		{"heater makes a clicking sound", models.CategoryHeater},
		{"bedroom lamp keeps flickering", models.CategoryLights},
		{"the kitchen faucet is dripping", models.CategoryPlumbing},
		{"wifi keeps dropping", models.CategoryRouter},
		{"the dishwasher leaves residue", models.CategoryAppliances},
		{"the front gate squeaks", models.CategoryOther},
	}
	for _, tc := range cases {
		got := Fallback(tc.text)
		if got.Category != tc.want {
			t.Fatalf("Fallback(%q).Category = %s, want %s", tc.text, got.Category, tc.want)
		}
		if got.Confidence != 0.6 {
			t.Fatalf("Fallback confidence = %v, want 0.6", got.Confidence)
		}
	}
}

func TestFallbackSeverity(t *testing.T) {
	if got := Fallback("the oven is broken"); got.Severity != models.SeverityHigh {
		t.Fatalf("expected high severity for 'broken', got %s", got.Severity)
	}
	if got := Fallback("the lamp sometimes dims a little"); got.Severity != models.SeverityLow {
		t.Fatalf("expected low severity for 'sometimes', got %s", got.Severity)
	}
	if got := Fallback("the fan is loud"); got.Severity != models.SeverityMedium {
		t.Fatalf("expected medium severity default, got %s", got.Severity)
	}
}

func TestTriageParsesOracleJSON(t *testing.T) {
	c := NewClassifier(&stubOracle{reply: `Here you go:
{"category": "PLUMBING", "severity": "critical", "suggested_actions": ["Shut off water", "Send plumber"], "confidence": 0.9}`})
	got := c.Triage(context.Background(), "water is pouring from the ceiling")
	if got.Category != models.CategoryPlumbing || got.Severity != models.SeverityCritical {
		t.Fatalf("unexpected triage result: %+v", got)
	}
	if len(got.SuggestedActions) != 2 {
		t.Fatalf("expected 2 suggested actions, got %d", len(got.SuggestedActions))
	}
}

func TestTriageMalformedOutputFallsBack(t *testing.T) {
	c := NewClassifier(&stubOracle{reply: "I think it's a plumbing problem, severity high."})
	got := c.Triage(context.Background(), "water leak under the sink")
	if got.Confidence != 0.6 {
		t.Fatalf("expected keyword fallback (confidence 0.6), got %+v", got)
	}
	if got.Category != models.CategoryPlumbing {
		t.Fatalf("expected fallback to classify leak as PLUMBING, got %s", got.Category)
	}
}

func TestTriageBogusEnumFallsBack(t *testing.T) {
	c := NewClassifier(&stubOracle{reply: `{"category": "SPACESHIP", "severity": "high", "suggested_actions": [], "confidence": 0.9}`})
	got := c.Triage(context.Background(), "wifi is down")
	if got.Confidence != 0.6 || got.Category != models.CategoryRouter {
		t.Fatalf("expected keyword fallback for invalid enum, got %+v", got)
	}
}

func TestTriageOracleErrorFallsBack(t *testing.T) {
	c := NewClassifier(&stubOracle{err: errors.New("status 503: overloaded")})
	got := c.Triage(context.Background(), "the heater is broken")
	if got.Category != models.CategoryHeater || got.Severity != models.SeverityHigh {
		t.Fatalf("expected keyword fallback result, got %+v", got)
	}
}
