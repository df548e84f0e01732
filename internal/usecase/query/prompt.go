package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
)

const promptTemplate = `You are a courteous assistant that answers questions about uploaded documents.

Work from three inputs:
- A context block with relevant document excerpts.
- The question asked by the user.
- The history of the prior conversation.

Context:
%s

Conversation history:
%s

Question:
%s

Instructions:
1. Read the context carefully and identify the information most relevant to the question.
2. Check the conversation history for anything that complements the answer.
3. Write a clear, objective and polite answer. Be direct and to the point.
4. Greet the user (e.g. "Hello", "Good morning") only if their question opens with such a greeting. Otherwise do not greet; just answer directly and respectfully.
5. If the available information is not enough to answer, say so politely, explaining that the data is not available or that you need more detail.

Use only the context and history above. Never invent information and never use outside knowledge.`

// buildPrompt composes the generation prompt from the retrieved document
// context, the retrieved conversation history, and the user's question.
func buildPrompt(contextBlock, historyBlock, question string) string {
	return fmt.Sprintf(promptTemplate, contextBlock, historyBlock, question)
}

// formatContext renders retrieved passages in rank order, one block per hit
// with its source file and page.
func formatContext(hits []index.Hit) string {
	var b strings.Builder
	for _, h := range hits {
		fmt.Fprintf(&b, "File: %s\nPage: %s\nText: %s\n\n",
			h.Tags[domain.TagFileName], h.Tags[domain.TagPageNumber], h.Content)
	}
	return b.String()
}

// formatHistory renders retrieved conversation turns in rank order. Hits
// missing either the user or ai tag are skipped.
func formatHistory(hits []index.Hit) string {
	var b strings.Builder
	for _, h := range hits {
		user, hasUser := h.Tags[domain.TagUser]
		ai, hasAI := h.Tags[domain.TagAI]
		if !hasUser || !hasAI {
			continue
		}
		fmt.Fprintf(&b, "user: %s\nai: %s\n\n", user, ai)
	}
	return b.String()
}
