package rag

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

const (
	// ExcerptSeparator sits alone on a line between two excerpts.
	ExcerptSeparator = "---EXCERPT---"

	// NoExcerptMarker is what the model answers when nothing is relevant.
	NoExcerptMarker = "NONE"
)

const retrievalTemplate = `You are a retrieval assistant for a personal portfolio website.
Below is the site owner's biography and resume, followed by a visitor's question.

Your task:
- Copy, word for word, the sentence(s) or paragraph(s) of the document that are most relevant to the question.
- Output ONLY the copied excerpts. No introduction, no explanation, no quotation marks.
- Output at most %d excerpts. Put a line containing only %s between two excerpts.
- If nothing in the document addresses the question, output exactly %s.

Document:
"""
%s
"""

Question: %s`

const generationTemplate = `You are the assistant on a personal portfolio website and answer visitor questions about the site owner.

Rules:
- Answer ONLY from the excerpts below. Never add facts that are not in them.
- If the excerpts do not contain enough information, say plainly that you do not have that information instead of guessing.
- Answer in %s.
- Be concise: a few sentences or a short list. Light markdown is allowed.

%s

Question: %s`

// BuildRetrievalPrompt asks the model to select excerpts of document.
func BuildRetrievalPrompt(question, document string, maxExcerpts int) string {
	return fmt.Sprintf(retrievalTemplate,
		maxExcerpts, ExcerptSeparator, NoExcerptMarker,
		strings.TrimSpace(document), strings.TrimSpace(question))
}

// BuildGenerationPrompt asks the model to answer from excerpts only.
func BuildGenerationPrompt(question string, excerpts domain.ExcerptSet, language string) string {
	var ctx strings.Builder
	if excerpts.Empty() {
		ctx.WriteString("Excerpts: none. No relevant information was found about this question.")
	} else {
		ctx.WriteString("Excerpts:\n")
		for i, e := range excerpts {
			fmt.Fprintf(&ctx, "[%d] %s\n", i+1, e)
		}
	}

	return fmt.Sprintf(generationTemplate, language, strings.TrimRight(ctx.String(), "\n"), strings.TrimSpace(question))
}

// ParseExcerpts splits a retrieval reply into excerpts. Blank fragments and
// the no-excerpt marker are dropped; at most max excerpts are kept.
func ParseExcerpts(raw string, max int) domain.ExcerptSet {
	out := domain.ExcerptSet{}
	for _, part := range strings.Split(raw, ExcerptSeparator) {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, NoExcerptMarker) {
			continue
		}
		out = append(out, part)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
