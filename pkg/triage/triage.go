// Package triage classifies an issue description into a category, severity
// and suggested actions. It prefers the oracle; when the oracle fails or its
// output is not parseable JSON it degrades to a deterministic keyword
// classifier, so Triage never returns an error.
package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"homeguard/models"
)

// Oracle is the text-generation contract triage depends on.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Available() bool
}

// Result of triaging one issue description.
type Result struct {
	Category         models.Category `json:"category"`
	Severity         models.Severity `json:"severity"`
	SuggestedActions []string        `json:"suggested_actions"`
	Confidence       float64         `json:"confidence"`
}

type Classifier struct {
	oracle Oracle
}

func NewClassifier(oracle Oracle) *Classifier {
	return &Classifier{oracle: oracle}
}

const triagePrompt = `Analyze this tenant issue report and classify it.

Issue description: %q

Respond in this exact JSON format:
{
    "category": "AC|HEATER|LIGHTS|PLUMBING|APPLIANCES|ROUTER|OTHER",
    "severity": "low|medium|high|critical",
    "suggested_actions": ["action1", "action2"],
    "confidence": 0.0-1.0
}

Only respond with valid JSON, no other text:`

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// Triage classifies description, degrading to Fallback on any oracle problem.
func (c *Classifier) Triage(ctx context.Context, description string) Result {
	if c.oracle == nil || !c.oracle.Available() {
		return Fallback(description)
	}
	resp, err := c.oracle.Generate(ctx, fmt.Sprintf(triagePrompt, description))
	if err != nil {
		log.Printf("[triage] oracle failed, using keyword fallback: %v", err)
		return Fallback(description)
	}
	r, ok := parseResult(resp)
	if !ok {
		log.Printf("[triage] malformed oracle output, using keyword fallback")
		return Fallback(description)
	}
	return r
}

func parseResult(resp string) (Result, bool) {
	block := jsonBlockRe.FindString(resp)
	if block == "" {
		return Result{}, false
	}
	var r Result
	if err := json.Unmarshal([]byte(block), &r); err != nil {
		return Result{}, false
	}
	if !validCategory(r.Category) || !validSeverity(r.Severity) {
		return Result{}, false
	}
	if len(r.SuggestedActions) == 0 {
		r.SuggestedActions = []string{"Schedule inspection"}
	}
	return r, true
}

func validCategory(c models.Category) bool {
	switch c {
	case models.CategoryAC, models.CategoryHeater, models.CategoryLights,
		models.CategoryPlumbing, models.CategoryAppliances, models.CategoryRouter,
		models.CategoryOther:
		return true
	}
	return false
}

func validSeverity(s models.Severity) bool {
	switch s {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
		return true
	}
	return false
}

var categoryKeywords = []struct {
	category models.Category
	words    []string
}{
	{models.CategoryAC, []string{"ac ", " ac", "air conditioning", "cooling", "air conditioner"}},
	{models.CategoryHeater, []string{"heat", "heater", "heating", "warm"}},
	{models.CategoryLights, []string{"light", "lamp", "bulb", "flicker"}},
	{models.CategoryPlumbing, []string{"water", "leak", "pipe", "faucet", "toilet", "sink", "shower"}},
	{models.CategoryRouter, []string{"wifi", "wi-fi", "internet", "router", "network"}},
	{models.CategoryAppliances, []string{"appliance", "oven", "washer", "dryer", "dishwasher", "fridge", "refrigerator", "microwave", "tv"}},
}

// Fallback is the deterministic keyword classifier used when the oracle is
// unavailable or returns garbage. Confidence is fixed at 0.6.
func Fallback(description string) Result {
	lower := " " + strings.ToLower(description) + " "

	category := models.CategoryOther
	for _, ck := range categoryKeywords {
		if containsAny(lower, ck.words) {
			category = ck.category
			break
		}
	}

	severity := models.SeverityMedium
	if containsAny(lower, []string{"urgent", "emergency", "broken", "not working", "won't"}) {
		severity = models.SeverityHigh
	} else if containsAny(lower, []string{"sometimes", "occasionally", "minor", "small"}) {
		severity = models.SeverityLow
	}

	return Result{
		Category: category,
		Severity: severity,
		SuggestedActions: []string{
			"Schedule inspection",
			"Contact tenant for more details",
		},
		Confidence: 0.6,
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
