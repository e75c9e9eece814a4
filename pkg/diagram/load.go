package diagram

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedDocument is returned when a document has no readable graph model.
var ErrMalformedDocument = errors.New("malformed diagram document")

const (
	elemGraphModel = "mxGraphModel"
	elemCell       = "mxCell"
	elemGeometry   = "mxGeometry"
	elemPoint      = "mxPoint"
)

// wrapper elements carry the id and label of the mxCell nested inside them
var wrapperElements = map[string]bool{
	"UserObject": true,
	"object":     true,
}

type wrapper struct {
	id    string
	label string
	depth int
}

// Load parses an uncompressed draw.io export into a CellGraph. The first
// mxGraphModel found at any depth is used; cells outside of it are ignored.
func Load(raw []byte) (*CellGraph, error) {
	return LoadReader(bytes.NewReader(raw))
}

// LoadReader is Load on a stream.
func LoadReader(r io.Reader) (*CellGraph, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	graph := newCellGraph()

	var (
		depth      int
		modelDepth = -1
		cell       *Node
		cellDepth  int
		inGeometry bool
		wrap       *wrapper
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			name := t.Name.Local

			if modelDepth < 0 {
				if name == elemGraphModel {
					modelDepth = depth
				}
				continue
			}

			switch {
			case wrapperElements[name]:
				wrap = &wrapper{
					id:    attr(t, "id"),
					label: attr(t, "label"),
					depth: depth,
				}
			case name == elemCell:
				cell = newNode(t, wrap)
				cellDepth = depth
			case name == elemGeometry && cell != nil:
				cell.Geometry = &Geometry{Position: readPoint(t)}
				inGeometry = true
			case name == elemPoint && inGeometry:
				p := readPoint(t)
				switch attr(t, "as") {
				case "sourcePoint":
					cell.Geometry.SourcePoint = &p
				case "targetPoint":
					cell.Geometry.TargetPoint = &p
				}
			}

		case xml.EndElement:
			name := t.Name.Local
			if modelDepth >= 0 {
				switch {
				case depth == modelDepth:
					return graph, nil
				case name == elemCell && cell != nil && depth == cellDepth:
					graph.add(cell)
					cell = nil
					inGeometry = false
				case name == elemGeometry:
					inGeometry = false
				case wrap != nil && depth == wrap.depth:
					wrap = nil
				}
			}
			depth--
		}
	}

	if modelDepth < 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedDocument, elemGraphModel)
	}
	return graph, nil
}

func newNode(t xml.StartElement, wrap *wrapper) *Node {
	n := &Node{
		ID:       attr(t, "id"),
		ParentID: attr(t, "parent"),
		Style:    ParseStyle(attr(t, "style")),
		Value:    attr(t, "value"),
		IsEdge:   attr(t, "edge") == "1",
		SourceID: attr(t, "source"),
		TargetID: attr(t, "target"),
	}
	if wrap != nil {
		if n.ID == "" {
			n.ID = wrap.id
		}
		if n.Value == "" {
			n.Value = wrap.label
		}
	}
	return n
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func hasAttr(t xml.StartElement, name string) bool {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return true
		}
	}
	return false
}

func readPoint(t xml.StartElement) Point {
	var p Point
	if hasAttr(t, "x") {
		p.X, p.InvalidX = parseCoord(attr(t, "x"))
	}
	if hasAttr(t, "y") {
		p.Y, p.InvalidY = parseCoord(attr(t, "y"))
	}
	return p
}

func parseCoord(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, true
	}
	return v, false
}
