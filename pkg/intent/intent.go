// Package intent classifies tenant messages with fixed-vocabulary keyword
// matching. Predicates are independent: an issue report can also read like a
// question. The vocabulary is a deliberate simple heuristic; a learned
// classifier could replace it behind the same functions.
package intent

import "strings"

// Result holds the coarse intents detected in one message.
type Result struct {
	IsQuestion               bool
	IsIssueReport            bool
	IsUnfixable              bool
	IsEscalationConfirmation bool
}

var questionKeywords = []string{
	"how", "what", "where", "when", "why", "can you", "tell me",
	"explain", "do you know", "show me", "help me", "i need to know",
	"how do i", "how to", "what is", "what are", "where is", "where are",
}

var questionPrefixes = []string{
	"how", "what", "where", "when", "why", "can", "tell", "show",
}

var issueKeywords = []string{
	"broken", "not working", "problem", "issue", "faulty", "noise",
	"leak", "flicker", "doesn't work", "won't work", "not functioning",
	"malfunction", "stopped working", "won't turn on", "won't turn off",
}

// Unfixable issues are outside tenant remediation scope: theft, structural
// damage and safety hazards. They bypass troubleshooting entirely, so this
// vocabulary is checked before the generic issue keywords.
var unfixableKeywords = []string{
	"stolen", "theft", "break-in", "broke in", "burglar",
	"crack in the wall", "cracked wall", "foundation", "ceiling collapsed",
	"structural", "gas smell", "smell gas", "gas leak", "carbon monoxide",
	"sparking", "exposed wire", "electrical shock", "mold", "fire",
	"flooding", "flooded",
}

var confirmationWords = []string{
	"yes", "ok", "okay", "sure", "yeah", "yep", "please do",
	"go ahead", "escalate", "contact them", "do it",
}

var resolutionPositive = []string{
	"it works", "it's working", "its working", "working now", "that worked",
	"fixed", "resolved", "solved", "all good", "that did it", "thank you, it",
}

var resolutionNegative = []string{
	"still", "doesn't", "doesn't work", "didn't work", "not working",
	"won't", "no luck", "same problem", "same issue", "nothing changed",
	"did not help", "didn't help", "not fixed", "broken",
}

// Classify evaluates all intent predicates over one message.
func Classify(text string) Result {
	lower := strings.ToLower(strings.TrimSpace(text))
	return Result{
		IsQuestion:               isQuestion(text, lower),
		IsIssueReport:            containsAny(lower, issueKeywords),
		IsUnfixable:              containsAny(lower, unfixableKeywords),
		IsEscalationConfirmation: isConfirmation(lower),
	}
}

func isQuestion(raw, lower string) bool {
	if strings.Contains(raw, "?") {
		return true
	}
	if containsAny(lower, questionKeywords) {
		return true
	}
	for _, p := range questionPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// isConfirmation is only meaningful when the preceding assistant message
// offered escalation; callers must check that precondition first.
func isConfirmation(lower string) bool {
	for _, w := range confirmationWords {
		if lower == w || strings.HasPrefix(lower, w+" ") || strings.HasPrefix(lower, w+",") || strings.HasPrefix(lower, w+".") || strings.HasPrefix(lower, w+"!") {
			return true
		}
	}
	return false
}

// Resolved reports whether a tenant reply during troubleshooting indicates
// the issue is fixed. Negative indicators take precedence over positive ones:
// "it works but still doesn't turn off" is treated as unresolved.
func Resolved(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if containsAny(lower, resolutionNegative) {
		return false
	}
	return containsAny(lower, resolutionPositive)
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
