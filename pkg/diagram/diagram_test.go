package diagram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `<mxfile host="app.diagrams.net">
  <diagram id="d1" name="Page-1">
    <mxGraphModel dx="1000" dy="600">
      <root>
        <mxCell id="0"/>
        <mxCell id="1" parent="0"/>
        <mxCell id="c1" value="Student" style="swimlane;fontStyle=1;html=1;" vertex="1" parent="1">
          <mxGeometry x="40" y="40" width="160" height="90" as="geometry"/>
        </mxCell>
        <mxCell id="c1m" value="+ name&lt;br&gt;- id" style="text;html=1;align=left;" vertex="1" parent="c1">
          <mxGeometry y="26" width="160" height="40" as="geometry"/>
        </mxCell>
        <mxCell id="e1" style="edgeStyle=orthogonalEdgeStyle;endArrow=diamond;endFill=1;" edge="1" parent="1" source="c1" target="c2">
          <mxGeometry relative="1" as="geometry">
            <mxPoint x="100" y="130" as="sourcePoint"/>
            <mxPoint x="100" y="bad" as="targetPoint"/>
          </mxGeometry>
        </mxCell>
        <UserObject label="Course" id="c2">
          <mxCell style="swimlane;" vertex="1" parent="1">
            <mxGeometry x="300" y="40" as="geometry"/>
          </mxCell>
        </UserObject>
      </root>
    </mxGraphModel>
  </diagram>
</mxfile>`

func TestLoadCollectsCellsInOrder(t *testing.T) {
	graph, err := Load([]byte(sampleDocument))
	require.NoError(t, err)

	ids := make([]string, 0, graph.Len())
	for _, n := range graph.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"0", "1", "c1", "c1m", "e1", "c2"}, ids)

	member, ok := graph.Node("c1m")
	require.True(t, ok)
	assert.Equal(t, "c1", member.ParentID)
	assert.Equal(t, "+ name<br>- id", member.Value)
	assert.True(t, member.Style.Text())
	require.NotNil(t, member.Geometry)
	assert.Equal(t, 26.0, member.Geometry.Position.Y)
	assert.Equal(t, 0.0, member.Geometry.Position.X)
	assert.False(t, member.Geometry.Position.InvalidX)

	children := graph.Children("c1")
	require.Len(t, children, 1)
	assert.Equal(t, "c1m", children[0].ID)
}

func TestLoadEdgeGeometry(t *testing.T) {
	graph, err := Load([]byte(sampleDocument))
	require.NoError(t, err)

	edge, ok := graph.Node("e1")
	require.True(t, ok)
	assert.True(t, edge.IsEdge)
	assert.Equal(t, "c1", edge.SourceID)
	assert.Equal(t, "c2", edge.TargetID)
	assert.True(t, edge.Style.EdgeStyled())
	assert.Equal(t, ArrowDiamond, edge.Style.EndArrow())

	require.NotNil(t, edge.Geometry.SourcePoint)
	assert.Equal(t, 130.0, edge.Geometry.SourcePoint.Y)
	require.NotNil(t, edge.Geometry.TargetPoint)
	assert.True(t, edge.Geometry.TargetPoint.InvalidY)
}

func TestLoadUserObjectWrapper(t *testing.T) {
	graph, err := Load([]byte(sampleDocument))
	require.NoError(t, err)

	wrapped, ok := graph.Node("c2")
	require.True(t, ok)
	assert.Equal(t, "Course", wrapped.Value)
	assert.True(t, wrapped.Style.Swimlane())
}

func TestLoadBareGraphModel(t *testing.T) {
	graph, err := Load([]byte(`<mxGraphModel><root><mxCell id="0"/></root></mxGraphModel>`))
	require.NoError(t, err)
	assert.Equal(t, 1, graph.Len())
}

func TestLoadIgnoresCellsOutsideModel(t *testing.T) {
	doc := `<mxfile><mxCell id="stray"/><mxGraphModel><root><mxCell id="0"/></root></mxGraphModel><mxCell id="late"/></mxfile>`
	graph, err := Load([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, graph.Len())
	_, ok := graph.Node("stray")
	assert.False(t, ok)
}

func TestLoadMalformed(t *testing.T) {
	cases := map[string]string{
		"missing model": `<mxfile><diagram/></mxfile>`,
		"syntax error":  `<mxGraphModel><root><mxCell id="0" value="open></root></mxGraphModel>`,
		"empty":         ``,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDocument))
		})
	}
}

func TestLoadDuplicateIDKeepsFirst(t *testing.T) {
	doc := `<mxGraphModel><root><mxCell id="a" value="one"/><mxCell id="a" value="two"/></root></mxGraphModel>`
	graph, err := Load([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, graph.Len())
	n, ok := graph.Node("a")
	require.True(t, ok)
	assert.Equal(t, "one", n.Value)
}

func TestParseStyle(t *testing.T) {
	s := ParseStyle("swimlane;fontStyle=1; endArrow=blockThin ;endFill=0;;dashed=1")
	assert.True(t, s.Swimlane())
	assert.False(t, s.Text())
	assert.Equal(t, ArrowBlock, s.EndArrow())
	filled, set := s.EndFill()
	assert.False(t, filled)
	assert.True(t, set)
	assert.True(t, s.Dashed())
	v, ok := s.Value("fontStyle")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	empty := ParseStyle("")
	assert.Equal(t, ArrowUnset, empty.EndArrow())
	_, set = empty.EndFill()
	assert.False(t, set)

	assert.True(t, ParseStyle("shape=swimlane").Swimlane())
	assert.True(t, ParseStyle("shape=text").Text())
	assert.Equal(t, ArrowOpen, ParseStyle("endArrow=openThin").EndArrow())
	assert.Equal(t, ArrowOther, ParseStyle("endArrow=cross").EndArrow())
	assert.Equal(t, ArrowNone, ParseStyle("endArrow=none").EndArrow())
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "plain", StripMarkup("plain"))
	assert.Equal(t, "a\nb", StripMarkup("a<br>b"))
	assert.Equal(t, "\nx\n\ny\n", StripMarkup("<div>x</div><div>y</div>"))
	assert.Equal(t, "List<String> & co", StripMarkup("List&lt;String&gt; &amp; co"))
	assert.Equal(t, "a b", StripMarkup("a&nbsp;b"))
	assert.Equal(t, "bold", StripMarkup("<b>bold</b>"))
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"+ name", "- id"}, Lines("+ name<br/>  <br>- id"))
	assert.Empty(t, Lines("<br><div></div>"))
	assert.Equal(t, "x y", Text("<div>x</div><div>y</div>"))
}

func TestLeadingText(t *testing.T) {
	assert.Equal(t, "Order", LeadingText("<b>Order</b><br>items"))
	assert.Equal(t, "Student", LeadingText("Student <i>abstract</i>"))
	assert.Equal(t, "Account", LeadingText("Account"))
	assert.Equal(t, "A & B", LeadingText("A &amp; B"))
	assert.Equal(t, "", LeadingText("<br>"))
}
