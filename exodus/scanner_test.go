package exodus

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Trimmed ncdump listing of a four node mesh with three side-sets
var dumpFile = `netcdf test {
dimensions:
	len_string = 33 ;
	four = 4 ;
	num_dim = 3 ;
	num_nodes = 4 ;
	num_elem = 2 ;
	num_el_blk = 1 ;
	num_node_sets = 4 ;
	num_side_sets = 3 ;
variables:
	int connect3(num_el_in_blk1, num_nod_per_el1) ;
		connect3:elem_type = "TRI3" ;
	int node_ns1(num_nod_ns1) ;
	int elem_ss1(num_side_ss1) ;
	int side_ss1(num_side_ss1) ;
	double coord(num_dim, num_nodes) ;

// global attributes:
		:api_version = 4.98f ;
data:

 coord =
  0, 1, 0, 0,
  0, 0, 1, 0,
  0, 0, 0, 1.5 ;

 node_ns1 = 1, 2 ;

 node_ns2 = 3 ;

 node_ns3 = ;

 node_ns4 = 1, 2,
    3, 4 ;

 connect3 =
  10, 11, 12,
  11, 12, 13 ;

 elem_ss1 = 5, 5 ;

 side_ss1 = 1, 2 ;

 elem_ss2 = 1 ;

 side_ss2 = 4 ;

 elem_ss3 = 2, 2 ;

 side_ss3 = 3, 3 ;
}
`

func scan(t *testing.T, dump string) (*Mesh, error) {
	t.Helper()
	return NewScanner(strings.NewReader(dump)).Scan()
}

func TestScanDump(t *testing.T) {
	m, err := scan(t, dumpFile)
	require.NoError(t, err)

	assert.Equal(t, 4, m.NumNodes)
	assert.Equal(t, []float64{0, 1, 0, 0}, m.X)
	assert.Equal(t, []float64{0, 0, 1, 0}, m.Y)
	assert.Equal(t, []float64{0, 0, 0, 1.5}, m.Z)
	assert.Len(t, m.Boundary, m.NumNodes)

	assert.Equal(t, [][3]int{{0, 1, 1}, {0, 1, 1}, {1, 0, 1}, {1, 1, 1}}, m.Boundary)
	assert.Equal(t, []string{"1", "2", "3", "4"}, m.PlotNodes)

	require.Len(t, m.Elements, 2)
	assert.Equal(t, Element{ID: 1, Type: "3", Nodes: []int{10, 11, 12}}, m.Elements[0])
	assert.Equal(t, Element{ID: 2, Type: "3", Nodes: []int{11, 12, 13}}, m.Elements[1])

	assert.True(t, m.HasTraction())
	assert.Equal(t, []Face{{5, 3}, {5, 1}}, m.Traction)

	require.Len(t, m.Buoyancy, 2)
	assert.Equal(t, 2, m.Buoyancy[0].SideSet)
	assert.Equal(t, []Face{{1, 4}}, m.Buoyancy[0].Faces)
	assert.Equal(t, 3, m.Buoyancy[1].SideSet)
	assert.Equal(t, []Face{{2, 2}, {2, 2}}, m.Buoyancy[1].Faces)

	lo, hi := m.BoundingBox()
	assert.Equal(t, [3]float64{0, 0, 0}, lo)
	assert.Equal(t, [3]float64{1, 1, 1.5}, hi)
}

func TestScanElementIndexAcrossBlocks(t *testing.T) {
	dump := `
 num_nodes = 2 ;
 coord =
  0, 1,
  0, 0,
  0, 0 ;
 node_ns1 = 1 ;
 node_ns2 = 1 ;
 node_ns3 = 1 ;
 connect1 =
  1, 2, 3, 4,
  2, 3, 4, 5 ;
 connect2 =
  5, 6, 7, 8 ;
 connect3 =
  1, 2, 3, 4,
  5, 6, 7, 8 ;
`
	m, err := scan(t, dump)
	require.NoError(t, err)
	require.Len(t, m.Elements, 5)
	for i, el := range m.Elements {
		assert.Equal(t, i+1, el.ID)
	}
	assert.Equal(t, "1", m.Elements[1].Type)
	assert.Equal(t, "2", m.Elements[2].Type)
	assert.Equal(t, "3", m.Elements[4].Type)
}

func TestScanBuoyancyOrderFollowsStream(t *testing.T) {
	// Side-set 1 appears after the buoyancy sets and does not disturb their order
	dump := `
 num_nodes = 1 ;
 coord =
  0, 0, 0 ;
 node_ns1 = 1 ;
 node_ns2 = 1 ;
 node_ns3 = 1 ;
 elem_ss2 = 7 ;
 side_ss2 = 1 ;
 elem_ss3 = 8 ;
 side_ss3 = 2 ;
 elem_ss1 = 9 ;
 side_ss1 = 3 ;
`
	m, err := scan(t, dump)
	require.NoError(t, err)
	require.Len(t, m.Buoyancy, 2)
	assert.Equal(t, 2, m.Buoyancy[0].SideSet)
	assert.Equal(t, 3, m.Buoyancy[1].SideSet)
	assert.Equal(t, []Face{{9, 2}}, m.Traction)
	assert.Nil(t, m.PlotNodes)
}

func TestScanErrors(t *testing.T) {
	const head = `
 num_nodes = 2 ;
 coord =
  0, 1,
  0, 0,
  0, 0 ;
 node_ns1 = 1 ;
 node_ns2 = 2 ;
 node_ns3 = 1, 2 ;
`
	tests := []struct {
		name    string
		dump    string
		want    error
		section State
		header  string
	}{
		{
			name:    "unterminated coordinates",
			dump:    " num_nodes = 1 ;\n coord =\n  0, 0, 0,\n",
			want:    ErrGrammar,
			section: Coordinates,
			header:  "coord",
		},
		{
			name:    "coordinate count",
			dump:    " num_nodes = 2 ;\n coord =\n  0, 0, 0 ;\n",
			want:    ErrGrammar,
			section: Coordinates,
			header:  "coord",
		},
		{
			name:    "coordinates before node count",
			dump:    " coord =\n  0, 0, 0 ;\n",
			want:    ErrGrammar,
			section: Coordinates,
			header:  "coord",
		},
		{
			name:    "node count not a number",
			dump:    " num_nodes = many ;\n",
			want:    ErrGrammar,
			section: Idle,
			header:  "num_nodes",
		},
		{
			name:    "face index out of range",
			dump:    head + " elem_ss1 = 1, 2 ;\n side_ss1 = 1, 5 ;\n",
			want:    ErrFaceIndex,
			section: TractionSides,
			header:  "side_ss1",
		},
		{
			name:    "side-set length mismatch",
			dump:    head + " elem_ss2 = 1, 2 ;\n side_ss2 = 1 ;\n",
			want:    ErrLengthMismatch,
			section: BuoyancySides,
			header:  "side_ss2",
		},
		{
			name:    "side list without element list",
			dump:    head + " side_ss2 = 1 ;\n",
			want:    ErrGrammar,
			section: BuoyancySides,
			header:  "side_ss2",
		},
		{
			name:    "connectivity not integer",
			dump:    head + " connect1 =\n  1, x, 2 ;\n",
			want:    ErrGrammar,
			section: Connectivity,
			header:  "connect1",
		},
		{
			name:    "unterminated connectivity",
			dump:    head + " connect1 =\n  1, 2, 3,\n",
			want:    ErrGrammar,
			section: Connectivity,
			header:  "connect1",
		},
		{
			name:    "header without equals",
			dump:    head + " elem_ss1 1 ;\n",
			want:    ErrGrammar,
			section: TractionElements,
			header:  "elem_ss1",
		},
		{
			name:    "zero ordinal",
			dump:    head + " node_ns0 = 1 ;\n",
			want:    ErrGrammar,
			section: Idle,
			header:  "node_ns0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scan(t, tt.dump)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			var se *SectionError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.section, se.Section)
			assert.Equal(t, tt.header, se.Header)
		})
	}
}

func TestScanIncompleteMesh(t *testing.T) {
	tests := []struct {
		name, dump, msg string
	}{
		{"no node count", "", "num_nodes"},
		{"no coordinates", " num_nodes = 1 ;\n", "coord"},
		{"missing z node-set", " num_nodes = 1 ;\n coord =\n 0, 0, 0 ;\n node_ns1 = 1 ;\n node_ns2 = 1 ;\n", "node-set 3"},
		{"dangling element list", " num_nodes = 1 ;\n coord =\n 0, 0, 0 ;\n node_ns1 = 1 ;\n node_ns2 = 1 ;\n node_ns3 = 1 ;\n elem_ss4 = 1 ;\n", "side-set 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scan(t, tt.dump)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrGrammar)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestScanNodeSetOrder(t *testing.T) {
	// Node-sets out of order still land on their own axis
	dump := `
 num_nodes = 2 ;
 coord =
  0, 1,
  0, 0,
  0, 0 ;
 node_ns3 = 2 ;
 node_ns1 = 1 ;
 node_ns2 = 1, 2 ;
`
	m, err := scan(t, dump)
	require.NoError(t, err)
	assert.Equal(t, [][3]int{{0, 0, 1}, {1, 0, 0}}, m.Boundary)
}

func TestHeaderRecognize(t *testing.T) {
	byToken := func(tok string) header {
		for _, h := range headers {
			if h.token == tok {
				return h
			}
		}
		t.Fatalf("no header %s", tok)
		return header{}
	}
	tests := []struct {
		header, token, suffix string
		ok                    bool
	}{
		{"coord", "coord", "", true},
		{"coord", "coordx", "", false},
		{"num_nodes", "num_nodes", "", true},
		{"num_nodes", "num_node_sets", "", false},
		{"connect", "connect1", "1", true},
		{"connect", "connect1:elem_type", "", false},
		{"connect", "connect", "", false},
		{"node_ns", "node_ns12", "12", true},
		{"node_ns", "num_nod_ns1", "", false},
		{"elem_ss", "elem_ss1", "1", true},
		{"side_ss", "side_ss2", "2", true},
	}
	for _, tt := range tests {
		suffix, ok := byToken(tt.header).recognize(tt.token)
		assert.Equal(t, tt.ok, ok, tt.token)
		assert.Equal(t, tt.suffix, suffix, tt.token)
	}
	assert.Equal(t, TractionElements, byToken("elem_ss").next(1))
	assert.Equal(t, BuoyancyElements, byToken("elem_ss").next(2))
	assert.Equal(t, TractionSides, byToken("side_ss").next(1))
	assert.Equal(t, BuoyancySides, byToken("side_ss").next(7))
}
