package assistant

import (
	"fmt"
	"strings"

	utils "homeguard/pkg/utills"
	"homeguard/pkg/triage"
)

// The composer turns orchestration decisions plus oracle output into the
// reply text and keeps all user-facing wording in one place.

// escalationMarker appears in every reply that offers to escalate. The
// orchestrator only trusts a tenant's "yes" when the immediately preceding
// assistant message contains it.
const escalationMarker = "escalate"

const genericIssueDescription = "Tenant requested assistance with an unspecified issue."

func composeTicketConfirmation(tri triage.Result) string {
	var b strings.Builder
	b.WriteString("I've analyzed your issue and created a maintenance ticket.\n\n")
	fmt.Fprintf(&b, "**Category:** %s\n**Severity:** %s\n\n", tri.Category, tri.Severity)
	if len(tri.SuggestedActions) > 0 {
		b.WriteString("**Suggested actions:**\n")
		for _, a := range tri.SuggestedActions {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n")
	}
	b.WriteString("The landlord will review this and get back to you with scheduling options. If there's anything else I should pass along, just reply here.")
	return b.String()
}

func composeTicketUpdated(category, severity, description string) string {
	return fmt.Sprintf("I've added your message to the existing maintenance ticket.\n\n**Category:** %s\n**Severity:** %s\n**Details so far:** %s\n\nThe landlord will see the update.",
		category, severity, utils.Truncate(description, 200))
}

func composeEscalatedTicket(tri triage.Result) string {
	var b strings.Builder
	b.WriteString("Since that didn't solve it, I've created a maintenance ticket and included everything we tried.\n\n")
	fmt.Fprintf(&b, "**Category:** %s\n**Severity:** %s\n\n", tri.Category, tri.Severity)
	b.WriteString("The landlord will review this and get back to you with scheduling options. If there's anything else I should pass along, just reply here.")
	return b.String()
}

func composeTroubleshootingReply(suggestion string) string {
	return fmt.Sprintf("Let's try a quick check before I create a ticket:\n\n%s\n\nLet me know how it goes. If it doesn't help, I'll bring in your landlord.", suggestion)
}

func composeResolvedAck() string {
	return "Great, glad that sorted it out! If anything else comes up, just send me a message."
}

func composeEscalationOffer() string {
	return "I don't have specific information about that. Would you like me to escalate this question to your landlord? They can provide you with the exact answer you need.\n\nJust let me know if you'd like me to contact them, or you can reach out directly using the chat feature."
}

func composeMessageSaved() string {
	return "I'm currently unable to process your message with AI assistance. Your message has been saved and the landlord will see it. Please contact your landlord directly if you need immediate assistance."
}

func composeThanksSaved() string {
	return "Thank you for your message. I'll make sure the landlord sees this."
}

// offersEscalation reports whether an assistant reply contains an escalation
// offer the tenant could be confirming.
func offersEscalation(text string) bool {
	return strings.Contains(strings.ToLower(text), escalationMarker)
}

// ensureEscalationOffer appends an explicit offer when a general-knowledge
// answer does not already mention one.
func ensureEscalationOffer(answer string) string {
	lower := strings.ToLower(answer)
	if strings.Contains(lower, "landlord") || strings.Contains(lower, escalationMarker) {
		return answer
	}
	return answer + "\n\nIf you need more specific information, I can escalate this to your landlord. Would you like me to do that?"
}

// The assistant helps tenants check things, never fix them. Oracle answers
// that read like repair instructions are replaced with diagnostic guidance.
var repairPatterns = []string{
	"replace the", "replace a", "replace your",
	"tighten the", "tighten a", "tighten your",
	"screw the", "screw a", "screw your",
	"wire the", "wire a", "rewire",
	"repair the", "repair a", "repair your",
	"fix the", "fix a", "fix your",
	"install the", "install a", "install your",
	"disassemble", "take apart", "remove and replace",
}

func sanitizeAnswer(answer string) string {
	lower := strings.ToLower(answer)
	for _, p := range repairPatterns {
		if strings.Contains(lower, p) {
			return "I can help you check a few things, but if repairs are needed, I'll need to escalate this to your landlord.\n\n" +
				"Can you check:\n" +
				"- Is the device plugged in and powered on?\n" +
				"- Are there any visible signs of damage?\n" +
				"- Is there an error message or indicator light?\n\n" +
				"If the issue persists after checking these, I'll create a maintenance ticket for your landlord to handle the repair."
		}
	}
	return answer
}
