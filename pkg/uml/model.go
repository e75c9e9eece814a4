package uml

// RelationType is the kind of a relationship between two classes.
type RelationType string

const (
	Inheritance RelationType = "inheritance"
	Aggregation RelationType = "aggregation"
	Composition RelationType = "composition"
	Dependency  RelationType = "dependency"
	Association RelationType = "association"
)

// UnknownClass is the name rendered for relationship endpoints that do not
// resolve to a class.
const UnknownClass = "Unknown"

// DegradedOutput replaces the simplified text of a document that could not be
// read.
const DegradedOutput = "Could not extract UML information."

// Class is a class box with its members in drawing order.
type Class struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
	Methods    []string `json:"methods"`
}

// Relationship is a connector between two cells. FromID and ToID are the raw
// source and target references and may not name a class.
type Relationship struct {
	ID     string       `json:"id"`
	FromID string       `json:"from_id"`
	ToID   string       `json:"to_id"`
	Type   RelationType `json:"type"`
}

// Side is the connector end a multiplicity belongs to.
type Side string

const (
	SourceSide Side = "source"
	TargetSide Side = "target"
)

// Multiplicity is a cardinality annotation attached to one end of an edge.
type Multiplicity struct {
	EdgeID string `json:"edge_id"`
	Side   Side   `json:"side"`
	Text   string `json:"text"`
}

// Label is free text attached to an edge.
type Label struct {
	EdgeID string `json:"edge_id"`
	Text   string `json:"text"`
}

type edgeEnd struct {
	edgeID string
	side   Side
}

// Extraction is the structure recovered from one diagram.
type Extraction struct {
	Classes       []Class        `json:"classes"`
	Relationships []Relationship `json:"relationships"`

	classIndex     map[string]int
	multiplicities map[edgeEnd]string
	labels         map[string]string
}

func newExtraction() Extraction {
	return Extraction{
		Classes:        make([]Class, 0),
		Relationships:  make([]Relationship, 0),
		classIndex:     make(map[string]int),
		multiplicities: make(map[edgeEnd]string),
		labels:         make(map[string]string),
	}
}

// Class returns the class with the given id.
func (e Extraction) Class(id string) (Class, bool) {
	i, ok := e.classIndex[id]
	if !ok {
		return Class{}, false
	}
	return e.Classes[i], true
}

// ClassName resolves a class id to its name, or UnknownClass.
func (e Extraction) ClassName(id string) string {
	if c, ok := e.Class(id); ok {
		return c.Name
	}
	return UnknownClass
}

// Multiplicity returns the multiplicity on one side of an edge.
func (e Extraction) Multiplicity(edgeID string, side Side) (string, bool) {
	m, ok := e.multiplicities[edgeEnd{edgeID: edgeID, side: side}]
	return m, ok
}

// Label returns the label of an edge.
func (e Extraction) Label(edgeID string) (string, bool) {
	l, ok := e.labels[edgeID]
	return l, ok
}

// Multiplicities lists the resolved multiplicities ordered by relationship
// then side.
func (e Extraction) Multiplicities() []Multiplicity {
	out := make([]Multiplicity, 0, len(e.multiplicities))
	for _, r := range e.Relationships {
		for _, side := range []Side{SourceSide, TargetSide} {
			if text, ok := e.Multiplicity(r.ID, side); ok {
				out = append(out, Multiplicity{EdgeID: r.ID, Side: side, Text: text})
			}
		}
	}
	return out
}

// Labels lists the labels ordered by relationship.
func (e Extraction) Labels() []Label {
	out := make([]Label, 0, len(e.labels))
	for _, r := range e.Relationships {
		if text, ok := e.Label(r.ID); ok {
			out = append(out, Label{EdgeID: r.ID, Text: text})
		}
	}
	return out
}

// Result is the outcome of extracting a raw document. Err is set when the
// document could not be loaded, in which case Extraction is empty.
type Result struct {
	Extraction Extraction
	Err        error
}

// Degraded reports whether the document could not be read.
func (r Result) Degraded() bool {
	return r.Err != nil
}

// Simplified renders the extraction, or DegradedOutput when degraded.
func (r Result) Simplified() string {
	if r.Degraded() {
		return DegradedOutput
	}
	return r.Extraction.Simplified()
}
