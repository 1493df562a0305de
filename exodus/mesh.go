package exodus

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Axis names for the three boundary node-sets, in node-set order
var axisNames = [3]string{"x", "y", "z"}

// Element is one row of an element block
type Element struct {
	ID    int    // 1-based, global across all blocks
	Type  string // Block code taken from the connect<N> header
	Nodes []int  // 1-based node indices
}

// Face is an element face in GeoFEST local face numbering
type Face struct {
	Element int
	Side    int
}

// BuoyancyGroup holds the faces of one side-set numbered 2 or higher
type BuoyancyGroup struct {
	SideSet int
	Faces   []Face
}

// Mesh accumulates everything read from the dump
type Mesh struct {
	NumNodes int
	// Raw coordinates, one slice per axis, length NumNodes
	X, Y, Z []float64
	// Boundary holds per node {x, y, z} flags, 0 = fixed and 1 = free
	Boundary  [][3]int
	Elements  []Element
	PlotNodes []string
	Traction  []Face
	Buoyancy  []BuoyancyGroup

	hasCoords   bool
	hasTraction bool
	axes        [3]bool
	pending     map[int][]string // side-set element lists awaiting their side list
	sideSets    map[int]bool
}

func NewMesh() *Mesh {
	return &Mesh{
		pending:  make(map[int][]string),
		sideSets: make(map[int]bool),
	}
}

// DeclareNodes fixes the node count and sizes the boundary vectors
func (m *Mesh) DeclareNodes(n int) error {
	if n < 1 {
		return grammarf("node count %d", n)
	}
	if m.NumNodes != 0 {
		if m.NumNodes != n {
			return grammarf("node count redeclared as %d, was %d", n, m.NumNodes)
		}
		return nil
	}
	m.NumNodes = n
	m.Boundary = make([][3]int, n)
	return nil
}

// SetCoordinates takes all X values, then all Y, then all Z
func (m *Mesh) SetCoordinates(values []string) error {
	if m.NumNodes == 0 {
		return grammarf("coordinates before num_nodes declaration")
	}
	if len(values) != 3*m.NumNodes {
		return grammarf("expected %d coordinate values for %d nodes, got %d",
			3*m.NumNodes, m.NumNodes, len(values))
	}
	coords := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return grammarf("coordinate %q is not a number", v)
		}
		coords[i] = f
	}
	n := m.NumNodes
	m.X, m.Y, m.Z = coords[:n], coords[n:2*n], coords[2*n:]
	m.hasCoords = true
	return nil
}

// SetBoundaryAxis marks every node in members fixed along axis (1, 2 or 3)
// and every other node free. Calling it again with the same members gives
// the same flags.
func (m *Mesh) SetBoundaryAxis(axis int, members []string) error {
	if axis < 1 || axis > 3 {
		return grammarf("boundary node-set %d, want 1, 2 or 3", axis)
	}
	if m.NumNodes == 0 {
		return grammarf("node-set %d before num_nodes declaration", axis)
	}
	inSet := make(map[string]bool, len(members))
	for _, node := range members {
		inSet[node] = true
	}
	for i := range m.Boundary {
		flag := 1
		if inSet[strconv.Itoa(i+1)] {
			flag = 0
		}
		m.Boundary[i][axis-1] = flag
	}
	m.axes[axis-1] = true
	return nil
}

func (m *Mesh) SetPlotNodes(members []string) {
	m.PlotNodes = members
}

// AddElement appends an element and returns its global index
func (m *Mesh) AddElement(typeCode string, nodes []string) (int, error) {
	id := len(m.Elements) + 1
	el := Element{ID: id, Type: typeCode, Nodes: make([]int, len(nodes))}
	for i, tok := range nodes {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, grammarf("element %d node %q is not an integer", id, tok)
		}
		el.Nodes[i] = n
	}
	m.Elements = append(m.Elements, el)
	return id, nil
}

func (m *Mesh) NumElements() int {
	return len(m.Elements)
}

// SideSetElements holds a side-set's element list until its side list arrives
func (m *Mesh) SideSetElements(ordinal int, elements []string) error {
	if _, ok := m.pending[ordinal]; ok || m.sideSets[ordinal] {
		return grammarf("side-set %d element list repeated", ordinal)
	}
	m.pending[ordinal] = elements
	return nil
}

// SideSetSides pairs a side list with its pending element list. Side-set 1
// becomes the traction group, every other side-set a buoyancy group.
func (m *Mesh) SideSetSides(ordinal int, sides []string) error {
	elements, ok := m.pending[ordinal]
	if !ok {
		return grammarf("side-set %d side list without element list", ordinal)
	}
	delete(m.pending, ordinal)
	faces, err := ZipFaces(elements, sides)
	if err != nil {
		return fmt.Errorf("side-set %d: %w", ordinal, err)
	}
	m.sideSets[ordinal] = true
	if ordinal == 1 {
		m.Traction = faces
		m.hasTraction = true
		return nil
	}
	m.Buoyancy = append(m.Buoyancy, BuoyancyGroup{SideSet: ordinal, Faces: faces})
	return nil
}

// HasTraction reports whether side-set 1 was present
func (m *Mesh) HasTraction() bool {
	return m.hasTraction
}

// ZipFaces pairs element indices with Exodus side numbers, converting each
// side to GeoFEST numbering
func ZipFaces(elements, sides []string) ([]Face, error) {
	if len(elements) != len(sides) {
		return nil, fmt.Errorf("%w: %d elements, %d sides", ErrLengthMismatch, len(elements), len(sides))
	}
	faces := make([]Face, len(elements))
	for i := range elements {
		el, err := strconv.Atoi(elements[i])
		if err != nil {
			return nil, grammarf("element %q is not an integer", elements[i])
		}
		side, err := strconv.Atoi(sides[i])
		if err != nil {
			return nil, grammarf("side %q of element %d is not an integer", sides[i], el)
		}
		gs, err := GeoFESTSide(side)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", el, err)
		}
		faces[i] = Face{Element: el, Side: gs}
	}
	return faces, nil
}

// Validate checks the mesh is complete enough to emit
func (m *Mesh) Validate() error {
	if m.NumNodes == 0 {
		return grammarf("num_nodes declaration missing")
	}
	if !m.hasCoords {
		return grammarf("coord section missing")
	}
	for i, seen := range m.axes {
		if !seen {
			return grammarf("node-set %d (fixed in %s) missing", i+1, axisNames[i])
		}
	}
	if len(m.pending) != 0 {
		ordinals := make([]int, 0, len(m.pending))
		for n := range m.pending {
			ordinals = append(ordinals, n)
		}
		sort.Ints(ordinals)
		return grammarf("side-set %d element list has no side list", ordinals[0])
	}
	return nil
}

// BoundingBox returns the raw coordinate extents
func (m *Mesh) BoundingBox() (lo, hi [3]float64) {
	if !m.hasCoords {
		return
	}
	for i, c := range [3][]float64{m.X, m.Y, m.Z} {
		lo[i], hi[i] = floats.Min(c), floats.Max(c)
	}
	return
}
