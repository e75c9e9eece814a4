package uml

import (
	"fmt"
	"strings"
)

const notAvailable = "N/A"

const (
	classPrefix        = "Class:"
	attributesHeader   = "Attributes:"
	methodsHeader      = "Methods:"
	relationshipPrefix = "Relationship:"
	sourceMultMarker   = " (Source Multiplicity:"
)

// Simplified renders the extraction in the line oriented review grammar.
// Every class block is followed by a blank line, relationships come last.
func (e Extraction) Simplified() string {
	lines := make([]string, 0, len(e.Classes)*4+len(e.Relationships))

	for _, c := range e.Classes {
		lines = append(lines, classPrefix+" "+c.Name)
		if len(c.Attributes) > 0 {
			lines = append(lines, attributesHeader)
			for _, a := range c.Attributes {
				lines = append(lines, "- "+a)
			}
		}
		if len(c.Methods) > 0 {
			lines = append(lines, methodsHeader)
			for _, m := range c.Methods {
				lines = append(lines, "+ "+m)
			}
		}
		lines = append(lines, "")
	}

	for _, r := range e.Relationships {
		lines = append(lines, e.relationshipLine(r))
	}

	return strings.Join(lines, "\n")
}

func (e Extraction) relationshipLine(r Relationship) string {
	source, ok := e.Multiplicity(r.ID, SourceSide)
	if !ok {
		source = notAvailable
	}
	target, ok := e.Multiplicity(r.ID, TargetSide)
	if !ok {
		target = notAvailable
	}
	label, _ := e.Label(r.ID)

	return fmt.Sprintf(
		"%s %s from %s to %s (Source Multiplicity: %s, Target Multiplicity: %s, Label: %s)",
		relationshipPrefix,
		r.Type,
		e.ClassName(r.FromID),
		e.ClassName(r.ToID),
		source,
		target,
		label,
	)
}
