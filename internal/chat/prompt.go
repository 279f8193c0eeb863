package chat

import (
	"strings"

	"github.com/suPer8Hu/ai-assistant/internal/ai"
)

// CodeGuidance is added to the system prompt when a prompt looks like it asks for code.
const CodeGuidance = "When your answer includes code, put every snippet in a fenced Markdown code block " +
	"and annotate the opening fence with the language name, for example ```python."

// FallbackReply is returned in place of a reply when the runtime call fails.
const FallbackReply = "Sorry, a response is currently unavailable. Please try again later."

var codeKeywords = []string{"python", "code"}

// AugmentSystemPrompt returns systemPrompt with CodeGuidance appended when prompt
// mentions one of the code keywords. Keyword matching is a plain substring test.
// The guidance is never added twice.
func AugmentSystemPrompt(prompt, systemPrompt string) string {
	lower := strings.ToLower(prompt)
	wants := false
	for _, kw := range codeKeywords {
		if strings.Contains(lower, kw) {
			wants = true
			break
		}
	}
	if !wants || strings.Contains(systemPrompt, CodeGuidance) {
		return systemPrompt
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return CodeGuidance
	}
	return strings.TrimRight(systemPrompt, "\n") + "\n\n" + CodeGuidance
}

// BuildMessages lays out the provider input: the system prompt, if any,
// followed by the transcript in order.
func BuildMessages(systemPrompt string, transcript []Turn) []ai.Message {
	out := make([]ai.Message, 0, len(transcript)+1)
	if strings.TrimSpace(systemPrompt) != "" {
		out = append(out, ai.Message{Role: RoleSystem, Content: systemPrompt})
	}
	for _, t := range transcript {
		out = append(out, ai.Message{Role: t.Role, Content: t.Content})
	}
	return out
}
