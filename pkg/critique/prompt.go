package critique

import (
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/umlreview/pkg/ai"
	"github.com/OFFIS-RIT/umlreview/pkg/corpus"
)

const contextHeader = "# Retrieved UML Diagrams (Context) - Similarity Scores:"

// FormatContext renders retrieved matches as the context block of a
// critique prompt. Each match is followed by a blank line.
func FormatContext(matches []corpus.Match) string {
	lines := make([]string, 0, 1+3*len(matches))
	lines = append(lines, contextHeader)
	for _, m := range matches {
		lines = append(lines,
			fmt.Sprintf("## From %s (Similarity: %.4f):", m.File, m.Score),
			m.Text,
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt fills the critique template with the context block and the
// simplified extraction.
func BuildPrompt(simplified string, matches []corpus.Match) string {
	return buildFrom(ai.CritiquePrompt, simplified, matches)
}

func buildFrom(template, simplified string, matches []corpus.Match) string {
	return fmt.Sprintf(template, FormatContext(matches), simplified)
}
