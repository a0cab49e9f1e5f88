package services

import (
	"fmt"
	"strings"

	"github.com/docchat-io/docchat/internal/core/domain"
)

// FallbackReply is the exact sentence returned when no passage grounds
// the question. Clients match on it, so the wording is fixed.
const FallbackReply = "Sorry, I don't have that information."

// promptHeader instructs the model to stay within the supplied context.
var promptHeader = []string{
	"You are an assistant that answers customer questions strictly using the provided company/document context and recent conversation history.",
	`If the answer cannot be found in the context, reply exactly: "` + FallbackReply + `"`,
	"Be concise and helpful.\n",
}

// FormatContext joins retrieved passages with a visible separator so the
// model can tell them apart.
func FormatContext(passages []string) string {
	return strings.Join(passages, "\n\n---\n\n")
}

// FormatHistory renders messages as alternating "User:"/"Assistant:" lines
// separated by blank lines. Messages must already be in chronological order.
func FormatHistory(messages []domain.Message) string {
	if len(messages) == 0 {
		return ""
	}
	lines := make([]string, len(messages))
	for i, msg := range messages {
		role := "Assistant"
		if msg.Role == domain.RoleUser {
			role = "User"
		}
		lines[i] = fmt.Sprintf("%s: %s", role, msg.Content)
	}
	return strings.Join(lines, "\n\n")
}

// BuildPrompt assembles the generation prompt. The history and context
// blocks are omitted when empty so the model never sees a bare heading.
func BuildPrompt(question, history, context string) string {
	parts := make([]string, 0, len(promptHeader)+4)
	parts = append(parts, promptHeader...)

	if history != "" {
		parts = append(parts, fmt.Sprintf("RECENT CONVERSATION:\n%s\n", history))
	}
	if context != "" {
		parts = append(parts, fmt.Sprintf("DOCUMENT CONTEXT:\n%s\n", context))
	}

	parts = append(parts,
		fmt.Sprintf("Question: %s\n", question),
		"Answer:",
	)
	return strings.Join(parts, "\n")
}
