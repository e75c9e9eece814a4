package uml

import (
	"errors"
	"fmt"
	"strings"
)

const (
	startUML = "@startuml"
	endUML   = "@enduml"
)

// ErrInvalidPlantUML is returned by ParsePlantUML for markup it cannot read.
var ErrInvalidPlantUML = errors.New("invalid plantuml markup")

var arrows = map[RelationType]string{
	Inheritance: "--|>",
	Aggregation: "o-->",
	Composition: "*-->",
	Dependency:  "..>",
	Association: "-->",
}

// Arrow returns the PlantUML arrow token for a relationship type. Unknown
// types render as an association.
func Arrow(t RelationType) string {
	if a, ok := arrows[t]; ok {
		return a
	}
	return arrows[Association]
}

func relationForArrow(token string) (RelationType, bool) {
	for t, a := range arrows {
		if a == token {
			return t, true
		}
	}
	return "", false
}

// ToPlantUML rewrites simplified grammar text into a PlantUML class diagram.
// It works line by line on the text alone; lines it does not recognise are
// dropped. Relationship endpoints are split using the class names the text
// declares.
func ToPlantUML(simplified string) string {
	lines := strings.Split(simplified, "\n")

	known := map[string]bool{UnknownClass: true}
	for _, raw := range lines {
		if line := strings.TrimSpace(raw); strings.HasPrefix(line, classPrefix) {
			known[className(line)] = true
		}
	}

	out := []string{startUML}
	open := false

	closeClass := func() {
		if open {
			out = append(out, "}")
			open = false
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
		case strings.HasPrefix(line, classPrefix):
			closeClass()
			out = append(out, fmt.Sprintf("class %s {", quoteName(className(line))))
			open = true
		case line == attributesHeader, line == methodsHeader:
		case strings.HasPrefix(line, relationshipPrefix):
			closeClass()
			rel, ok := parseRelationshipLine(line, known)
			if !ok {
				continue
			}
			out = append(out, fmt.Sprintf("%s %s %s", quoteName(rel.From), Arrow(rel.Type), quoteName(rel.To)))
		case strings.HasPrefix(line, "-"):
			out = append(out, "  -"+strings.TrimSpace(line[1:]))
		case strings.HasPrefix(line, "+"):
			out = append(out, "  +"+strings.TrimSpace(line[1:]))
		}
	}

	closeClass()
	out = append(out, endUML)
	return strings.Join(out, "\n")
}

func className(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, classPrefix))
}

// parseRelationshipLine reads
// "Relationship: <type> from <a> to <b> (Source Multiplicity: ...)".
// Class names may contain " to ". The first split whose halves are both
// known names wins, otherwise the last " to " separates them.
func parseRelationshipLine(line string, known map[string]bool) (Relation, bool) {
	body := strings.TrimSpace(strings.TrimPrefix(line, relationshipPrefix))
	if i := strings.Index(body, sourceMultMarker); i >= 0 {
		body = body[:i]
	}

	kind, rest, ok := strings.Cut(body, " from ")
	if !ok {
		return Relation{}, false
	}

	const sep = " to "
	split := strings.LastIndex(rest, sep)
	if split < 0 {
		return Relation{}, false
	}
	for i := 0; i+len(sep) <= len(rest); i++ {
		if !strings.HasPrefix(rest[i:], sep) {
			continue
		}
		from := strings.TrimSpace(rest[:i])
		to := strings.TrimSpace(rest[i+len(sep):])
		if known[from] && known[to] {
			split = i
			break
		}
	}

	return Relation{
		Type: RelationType(strings.TrimSpace(kind)),
		From: strings.TrimSpace(rest[:split]),
		To:   strings.TrimSpace(rest[split+len(sep):]),
	}, true
}

var nameEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quoteName double quotes names that would not read back as a single bare
// token. Backslashes and quotes inside quoted names are escaped.
func quoteName(name string) string {
	if name == "" || name == "class" || strings.ContainsAny(name, " \t\"\\") || strings.HasPrefix(name, "'") || strings.HasPrefix(name, "@") {
		return `"` + nameEscaper.Replace(name) + `"`
	}
	return name
}

// Relation is a relationship between two named classes.
type Relation struct {
	Type RelationType
	From string
	To   string
}

// Diagram is the structure read back from PlantUML markup.
type Diagram struct {
	Classes   []Class
	Relations []Relation
}

// Structure returns the extraction in the shape ParsePlantUML produces,
// with endpoints resolved to class names.
func (e Extraction) Structure() Diagram {
	d := Diagram{
		Classes:   make([]Class, 0, len(e.Classes)),
		Relations: make([]Relation, 0, len(e.Relationships)),
	}
	for _, c := range e.Classes {
		d.Classes = append(d.Classes, Class{
			Name:       c.Name,
			Attributes: c.Attributes,
			Methods:    c.Methods,
		})
	}
	for _, r := range e.Relationships {
		d.Relations = append(d.Relations, Relation{
			Type: r.Type,
			From: e.ClassName(r.FromID),
			To:   e.ClassName(r.ToID),
		})
	}
	return d
}

// ParsePlantUML reads the subset of PlantUML that ToPlantUML writes.
func ParsePlantUML(markup string) (Diagram, error) {
	d := Diagram{
		Classes:   make([]Class, 0),
		Relations: make([]Relation, 0),
	}

	var (
		started bool
		ended   bool
		current *Class
	)

	for n, raw := range strings.Split(markup, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "'") {
			continue
		}
		lineNo := n + 1

		if !started {
			if line != startUML {
				return Diagram{}, fmt.Errorf("%w: line %d: expected %s", ErrInvalidPlantUML, lineNo, startUML)
			}
			started = true
			continue
		}
		if ended {
			return Diagram{}, fmt.Errorf("%w: line %d: content after %s", ErrInvalidPlantUML, lineNo, endUML)
		}

		if current != nil {
			switch {
			case line == "}":
				d.Classes = append(d.Classes, *current)
				current = nil
			case strings.HasPrefix(line, "-"):
				current.Attributes = append(current.Attributes, strings.TrimSpace(line[1:]))
			case strings.HasPrefix(line, "+"):
				current.Methods = append(current.Methods, strings.TrimSpace(line[1:]))
			default:
				return Diagram{}, fmt.Errorf("%w: line %d: unexpected member %q", ErrInvalidPlantUML, lineNo, line)
			}
			continue
		}

		switch {
		case line == endUML:
			ended = true
		case strings.HasPrefix(line, "class "):
			name, rest, err := readName(strings.TrimSpace(strings.TrimPrefix(line, "class ")))
			if err != nil {
				return Diagram{}, fmt.Errorf("%w: line %d: %v", ErrInvalidPlantUML, lineNo, err)
			}
			c := Class{Name: name, Attributes: make([]string, 0), Methods: make([]string, 0)}
			switch strings.TrimSpace(rest) {
			case "{":
				current = &c
			case "{}", "":
				d.Classes = append(d.Classes, c)
			default:
				return Diagram{}, fmt.Errorf("%w: line %d: unexpected %q after class name", ErrInvalidPlantUML, lineNo, rest)
			}
		default:
			rel, err := readRelation(line)
			if err != nil {
				return Diagram{}, fmt.Errorf("%w: line %d: %v", ErrInvalidPlantUML, lineNo, err)
			}
			d.Relations = append(d.Relations, rel)
		}
	}

	switch {
	case !started:
		return Diagram{}, fmt.Errorf("%w: missing %s", ErrInvalidPlantUML, startUML)
	case current != nil:
		return Diagram{}, fmt.Errorf("%w: class %q is not closed", ErrInvalidPlantUML, current.Name)
	case !ended:
		return Diagram{}, fmt.Errorf("%w: missing %s", ErrInvalidPlantUML, endUML)
	}
	return d, nil
}

func readRelation(line string) (Relation, error) {
	from, rest, err := readName(line)
	if err != nil {
		return Relation{}, err
	}
	arrow, rest, _ := strings.Cut(strings.TrimSpace(rest), " ")
	kind, ok := relationForArrow(arrow)
	if !ok {
		return Relation{}, fmt.Errorf("unknown arrow %q", arrow)
	}
	to, rest, err := readName(strings.TrimSpace(rest))
	if err != nil {
		return Relation{}, err
	}
	if strings.TrimSpace(rest) != "" {
		return Relation{}, fmt.Errorf("unexpected %q after relation", rest)
	}
	return Relation{Type: kind, From: from, To: to}, nil
}

// readName reads a bare or double quoted name from the start of s. Quoted
// names may escape quotes and backslashes with a backslash.
func readName(s string) (name, rest string, err error) {
	if strings.HasPrefix(s, `"`) {
		var b strings.Builder
		for i := 1; i < len(s); i++ {
			switch s[i] {
			case '\\':
				if i+1 < len(s) {
					i++
					b.WriteByte(s[i])
				}
			case '"':
				return b.String(), s[i+1:], nil
			default:
				b.WriteByte(s[i])
			}
		}
		return "", "", errors.New("unterminated quoted name")
	}
	name, rest, _ = strings.Cut(s, " ")
	if name == "" {
		return "", "", errors.New("missing name")
	}
	return name, rest, nil
}
