package uml

import (
	"math"
	"strings"

	"github.com/OFFIS-RIT/umlreview/pkg/diagram"
)

// Extract recovers classes, members, annotations and relationships from a
// cell graph. It never fails; cells that cannot be interpreted are skipped.
func Extract(graph *diagram.CellGraph) Extraction {
	ext := newExtraction()
	if graph == nil {
		return ext
	}

	extractClasses(graph, &ext)
	extractAnnotations(graph, &ext)
	extractRelationships(graph, &ext)

	return ext
}

// ExtractDocument loads raw and extracts it. A document that cannot be
// loaded yields a degraded Result.
func ExtractDocument(raw []byte) Result {
	graph, err := diagram.Load(raw)
	if err != nil {
		return Result{Extraction: newExtraction(), Err: err}
	}
	return Result{Extraction: Extract(graph)}
}

func isClass(n *diagram.Node) bool {
	return n.Style.Swimlane() && strings.TrimSpace(n.Value) != ""
}

func extractClasses(graph *diagram.CellGraph, ext *Extraction) {
	for _, n := range graph.Nodes() {
		if !isClass(n) {
			continue
		}
		if _, seen := ext.classIndex[n.ID]; seen {
			continue
		}

		class := Class{
			ID:         n.ID,
			Name:       diagram.LeadingText(n.Value),
			Attributes: make([]string, 0),
			Methods:    make([]string, 0),
		}

		for _, child := range graph.Children(n.ID) {
			if !child.Style.Text() || child.Value == "" {
				continue
			}
			for _, line := range diagram.Lines(child.Value) {
				member := stripVisibility(line)
				if member == "" {
					continue
				}
				if isMethod(line) {
					class.Methods = append(class.Methods, member)
				} else {
					class.Attributes = append(class.Attributes, member)
				}
			}
		}

		ext.classIndex[n.ID] = len(ext.Classes)
		ext.Classes = append(ext.Classes, class)
	}
}

func isMethod(line string) bool {
	return strings.Contains(line, "(") && strings.Contains(line, ")")
}

func stripVisibility(line string) string {
	if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
		line = line[1:]
	}
	return strings.TrimSpace(line)
}

func isAnnotation(n *diagram.Node) bool {
	return n.Style.Text() && !n.Style.EdgeStyled() && strings.TrimSpace(n.Value) != ""
}

func extractAnnotations(graph *diagram.CellGraph, ext *Extraction) {
	for _, n := range graph.Nodes() {
		if !isAnnotation(n) {
			continue
		}
		edge, ok := graph.Node(n.ParentID)
		if !ok || !edge.IsEdge {
			continue
		}

		text := diagram.Text(n.Value)
		if text == "" {
			continue
		}

		if !isMultiplicity(text) {
			ext.labels[edge.ID] = text
			continue
		}

		side, ok := resolveSide(n, edge)
		if !ok {
			continue
		}
		ext.multiplicities[edgeEnd{edgeID: edge.ID, side: side}] = text
	}
}

func isMultiplicity(text string) bool {
	switch {
	case strings.HasPrefix(text, "0"),
		strings.HasPrefix(text, "1"),
		strings.HasPrefix(text, "*"),
		strings.HasPrefix(text, ".."):
		return true
	}
	return false
}

// resolveSide attaches the annotation to the closer connector end by
// vertical distance. Equal distances go to the source.
func resolveSide(annotation, edge *diagram.Node) (Side, bool) {
	if annotation.Geometry == nil || annotation.Geometry.Position.InvalidY {
		return "", false
	}
	if edge.Geometry == nil {
		return "", false
	}

	y := annotation.Geometry.Position.Y
	toSource := distance(y, edge.Geometry.SourcePoint)
	toTarget := distance(y, edge.Geometry.TargetPoint)

	if math.IsInf(toSource, 1) && math.IsInf(toTarget, 1) {
		return "", false
	}
	if toSource <= toTarget {
		return SourceSide, true
	}
	return TargetSide, true
}

func distance(y float64, p *diagram.Point) float64 {
	if p == nil || p.InvalidY {
		return math.Inf(1)
	}
	return math.Abs(y - p.Y)
}

func extractRelationships(graph *diagram.CellGraph, ext *Extraction) {
	for _, n := range graph.Nodes() {
		if !n.IsEdge {
			continue
		}
		ext.Relationships = append(ext.Relationships, Relationship{
			ID:     n.ID,
			FromID: n.SourceID,
			ToID:   n.TargetID,
			Type:   ClassifyRelation(n.Style),
		})
	}
}

// ClassifyRelation maps connector styling to a relationship type. Rules are
// checked in order and the first match wins.
func ClassifyRelation(style diagram.Style) RelationType {
	arrow := style.EndArrow()
	filled, fillSet := style.EndFill()

	switch {
	case arrow == diagram.ArrowDiamond && fillSet && filled:
		return Aggregation
	case arrow == diagram.ArrowBlock && fillSet && !filled:
		return Inheritance
	case arrow == diagram.ArrowBlock && fillSet && filled:
		return Composition
	case arrow == diagram.ArrowNone && style.Dashed():
		return Dependency
	default:
		return Association
	}
}
