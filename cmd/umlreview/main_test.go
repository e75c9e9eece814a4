package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diagram = `<mxfile><diagram><mxGraphModel><root>
<mxCell id="0"/><mxCell id="1" parent="0"/>
<mxCell id="a" value="Animal" style="swimlane;" vertex="1" parent="1"/>
<mxCell id="d" value="Dog" style="swimlane;" vertex="1" parent="1"/>
<mxCell id="e" style="endArrow=block;endFill=0;" edge="1" parent="1" source="d" target="a"/>
</root></mxGraphModel></diagram></mxfile>`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	plantUML, topK, asJSON, verbose = false, 0, false, false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "zoo.xml")
	require.NoError(t, os.WriteFile(file, []byte(diagram), 0o644))

	corpusDir := filepath.Join(dir, "corpus")
	require.NoError(t, os.MkdirAll(corpusDir, 0o755))
	docs := map[string]string{
		"zoo.md":  "```plantuml\nclass Animal\nclass Dog\nDog --|> Animal\n```\n",
		"shop.md": "```uml\nclass Order\nclass Customer\n```\n",
	}
	for name, body := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(corpusDir, name), []byte(body), 0o644))
	}

	t.Setenv("CORPUS_S3_BUCKET", "")
	t.Setenv("CORPUS_DIR", corpusDir)
	return file, corpusDir
}

func TestExtractCommand(t *testing.T) {
	file, _ := writeFixtures(t)

	out, err := run(t, "extract", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Class: Animal")
	assert.Contains(t, out, "Relationship: inheritance from Dog to Animal")

	out, err = run(t, "extract", file, "--plantuml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "@startuml"))
	assert.Contains(t, out, "Dog --|> Animal")
}

func TestExtractCommandMissingFile(t *testing.T) {
	_, err := run(t, "extract", filepath.Join(t.TempDir(), "none.xml"))
	assert.Error(t, err)
}

func TestSimilarCommand(t *testing.T) {
	file, _ := writeFixtures(t)

	out, err := run(t, "similar", file, "-k", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "\tzoo.md"), lines[0])
}

func TestPromptCommand(t *testing.T) {
	file, _ := writeFixtures(t)

	out, err := run(t, "prompt", file)
	require.NoError(t, err)
	assert.Contains(t, out, "# Retrieved UML Diagrams (Context) - Similarity Scores:")
	assert.Contains(t, out, "## From zoo.md")
	assert.Contains(t, out, "Class: Dog")
}
