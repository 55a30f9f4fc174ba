package assistant

import (
	"fmt"
	"strings"

	"homeguard/pkg/knowledge"
)

const masterPrompt = `You are a polite property-maintenance assistant for tenants.

STRICT RULES:
1. Only help tenants CHECK and DIAGNOSE issues. Never give repair instructions.
2. If a repair is needed, tell the tenant you will escalate to the landlord.
3. Keep answers short, practical, and in plain language.
4. Never invent facts about the property that are not in the provided context.`

func buildQuestionPrompt(question string, passages []knowledge.Passage) string {
	var b strings.Builder
	b.WriteString(masterPrompt)
	b.WriteString("\n\nHOUSE MANUAL CONTEXT:\n")
	for _, p := range passages {
		b.WriteString(p.Text)
		b.WriteString("\n---\n")
	}
	fmt.Fprintf(&b, "\nTENANT QUESTION: %s\n\nAnswer using only the context above. If the context does not cover the question, say so and offer to escalate to the landlord.", question)
	return b.String()
}

func buildGeneralPrompt(question string) string {
	return fmt.Sprintf("%s\n\nTENANT QUESTION: %s\n\nAnswer from general household knowledge. Be clear that this is general guidance, and offer to escalate to the landlord for anything specific to the property.", masterPrompt, question)
}

func buildSuggestionPrompt(issue string, tried []string) string {
	var b strings.Builder
	b.WriteString(masterPrompt)
	fmt.Fprintf(&b, "\n\nA tenant reported this issue: %s\n", issue)
	if len(tried) > 0 {
		b.WriteString("\nAlready suggested (do NOT repeat):\n")
		for _, s := range tried {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	b.WriteString("\nSuggest exactly ONE new safe diagnostic step the tenant can check themselves. One or two sentences, no repair work, no lists. Do not mention escalating yet.")
	return b.String()
}

func buildSmallTalkPrompt(text string) string {
	return fmt.Sprintf("%s\n\nThe tenant wrote: %s\n\nThis is not a question or an issue report. Reply in one or two friendly sentences. Do not offer to escalate.", masterPrompt, text)
}

func buildSuggestReplyPrompt(history string) string {
	return fmt.Sprintf("You are helping a landlord reply to a tenant in a property-maintenance chat.\n\nRecent conversation:\n%s\n\nDraft a short, friendly reply the landlord could send. Write only the reply text.", history)
}
