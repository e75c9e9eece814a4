package corpus

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// diagramLanguages are the fence info strings that mark a diagram block.
var diagramLanguages = map[string]bool{
	"plantuml": true,
	"uml":      true,
}

// ExtractFencedBlocks returns the trimmed bodies of the fenced code blocks in
// a markdown document whose language is plantuml or uml, in document order.
// Empty blocks are skipped.
func ExtractFencedBlocks(source []byte) []string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	blocks := make([]string, 0)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !diagramLanguages[strings.ToLower(string(fence.Language(source)))] {
			return ast.WalkSkipChildren, nil
		}

		var buf bytes.Buffer
		lines := fence.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(source))
		}
		if body := strings.TrimSpace(buf.String()); body != "" {
			blocks = append(blocks, body)
		}
		return ast.WalkSkipChildren, nil
	})

	return blocks
}
