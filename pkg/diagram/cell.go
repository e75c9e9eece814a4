package diagram

// Point is a position read from geometry attributes. An attribute that is
// absent reads as zero, one that is present but not a number marks its axis
// invalid.
type Point struct {
	X        float64
	Y        float64
	InvalidX bool
	InvalidY bool
}

// Geometry is the mxGeometry of a cell. SourcePoint and TargetPoint are only
// set for connectors that carry explicit endpoints.
type Geometry struct {
	Position    Point
	SourcePoint *Point
	TargetPoint *Point
}

// Node is a single mxCell.
type Node struct {
	ID       string
	ParentID string
	Style    Style
	Value    string
	Geometry *Geometry
	IsEdge   bool
	SourceID string
	TargetID string
}

// CellGraph holds the cells of one graph model in document order.
type CellGraph struct {
	nodes []*Node
	byID  map[string]*Node
}

func newCellGraph() *CellGraph {
	return &CellGraph{
		nodes: make([]*Node, 0),
		byID:  make(map[string]*Node),
	}
}

func (g *CellGraph) add(n *Node) {
	g.nodes = append(g.nodes, n)
	if n.ID == "" {
		return
	}
	// the first cell with an id wins the index slot
	if _, exists := g.byID[n.ID]; !exists {
		g.byID[n.ID] = n
	}
}

// Nodes returns the cells in document order.
func (g *CellGraph) Nodes() []*Node {
	return g.nodes
}

// Node looks up a cell by id.
func (g *CellGraph) Node(id string) (*Node, bool) {
	if id == "" {
		return nil, false
	}
	n, ok := g.byID[id]
	return n, ok
}

// Children returns the cells whose parent is id, in document order.
func (g *CellGraph) Children(id string) []*Node {
	children := make([]*Node, 0)
	for _, n := range g.nodes {
		if n.ParentID == id {
			children = append(children, n)
		}
	}
	return children
}

// Len returns the number of cells.
func (g *CellGraph) Len() int {
	return len(g.nodes)
}
