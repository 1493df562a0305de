package exodus

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// State is the section the scanner is reading
type State uint8

const (
	Idle State = iota
	Coordinates
	NodeSet
	Connectivity
	TractionElements
	TractionSides
	BuoyancyElements
	BuoyancySides
)

func (s State) String() string {
	return [...]string{"Idle", "Coordinates", "NodeSet", "Connectivity",
		"TractionElements", "TractionSides", "BuoyancyElements", "BuoyancySides"}[s]
}

type matchKind uint8

const (
	matchExact  matchKind = iota
	matchPrefix           // token is the prefix followed by a decimal ordinal
)

// header recognizes one section-opening token of the dump
type header struct {
	match matchKind
	token string
	// next picks the section from the ordinal carried by the token
	next func(ordinal int) State
	// inline handles single-line declarations without leaving Idle
	inline func(s *Scanner, values []string) error
}

func always(st State) func(int) State {
	return func(int) State { return st }
}

func bySideSet(traction, buoyancy State) func(int) State {
	return func(ordinal int) State {
		if ordinal == 1 {
			return traction
		}
		return buoyancy
	}
}

var headers = []header{
	{match: matchExact, token: "num_nodes", inline: (*Scanner).declareNodes},
	{match: matchExact, token: "coord", next: always(Coordinates)},
	{match: matchPrefix, token: "node_ns", next: always(NodeSet)},
	{match: matchPrefix, token: "connect", next: always(Connectivity)},
	{match: matchPrefix, token: "elem_ss", next: bySideSet(TractionElements, BuoyancyElements)},
	{match: matchPrefix, token: "side_ss", next: bySideSet(TractionSides, BuoyancySides)},
}

// recognize returns the ordinal suffix of a prefix header as text
func (h header) recognize(token string) (suffix string, ok bool) {
	switch h.match {
	case matchExact:
		return "", token == h.token
	case matchPrefix:
		rest, found := strings.CutPrefix(token, h.token)
		if !found || rest == "" {
			return "", false
		}
		for _, c := range rest {
			if c < '0' || c > '9' {
				return "", false
			}
		}
		return rest, true
	}
	return "", false
}

var handlers = map[State]func(s *Scanner, values []string) error{
	Coordinates:      (*Scanner).readCoordinates,
	NodeSet:          (*Scanner).readNodeSet,
	Connectivity:     (*Scanner).readConnectivity,
	TractionElements: (*Scanner).readSideSetElements,
	TractionSides:    (*Scanner).readSideSetSides,
	BuoyancyElements: (*Scanner).readSideSetElements,
	BuoyancySides:    (*Scanner).readSideSetSides,
}

// Scanner reads an ncdump listing of an Exodus II file into a Mesh
type Scanner struct {
	logger *slog.Logger
	r      *lineReader
	mesh   *Mesh

	state      State
	header     string // token that opened the current section
	headerLine int
	suffix     string // ordinal or block code carried by the header
	ordinal    int
}

type Option func(*Scanner)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

func NewScanner(r io.Reader, opts ...Option) *Scanner {
	s := &Scanner{
		logger: slog.Default(),
		r:      newLineReader(r),
		mesh:   NewMesh(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan consumes the whole dump and returns the validated mesh
func (s *Scanner) Scan() (*Mesh, error) {
	for {
		line, ok := s.r.next()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := s.step(fields); err != nil {
			return nil, err
		}
	}
	if err := s.r.err(); err != nil {
		return nil, fmt.Errorf("reading dump: %w", err)
	}
	if s.state != Idle {
		return nil, s.fail(grammarf("end of dump inside section"))
	}
	if err := s.mesh.Validate(); err != nil {
		return nil, err
	}
	lo, hi := s.mesh.BoundingBox()
	s.logger.Debug("Mesh read",
		slog.Int("nodes", s.mesh.NumNodes),
		slog.Int("elements", s.mesh.NumElements()),
		slog.Int("buoyancyGroups", len(s.mesh.Buoyancy)),
		slog.Any("min", lo), slog.Any("max", hi))
	return s.mesh, nil
}

// step runs one line through the state machine: Idle looks for a header,
// any other state runs its section reader once and returns to Idle.
func (s *Scanner) step(fields []string) error {
	if s.state == Idle {
		if err := s.idle(fields); err != nil {
			return err
		}
		if s.state == Idle {
			return nil
		}
	}
	values, err := headerValues(fields)
	if err != nil {
		return s.fail(err)
	}
	if err = handlers[s.state](s, values); err != nil {
		return s.fail(err)
	}
	s.state = Idle
	return nil
}

func (s *Scanner) idle(fields []string) error {
	for _, h := range headers {
		suffix, ok := h.recognize(fields[0])
		if !ok {
			continue
		}
		s.header, s.headerLine, s.suffix = fields[0], s.r.line, suffix
		if h.inline != nil {
			values, err := headerValues(fields)
			if err == nil {
				err = h.inline(s, values)
			}
			if err != nil {
				return s.fail(err)
			}
			return nil
		}
		s.ordinal = 0
		if suffix != "" {
			n, err := strconv.Atoi(suffix)
			if err != nil || n < 1 {
				return s.fail(grammarf("header ordinal %q", suffix))
			}
			s.ordinal = n
		}
		s.state = h.next(s.ordinal)
		return nil
	}
	return nil
}

func (s *Scanner) fail(err error) error {
	return &SectionError{Section: s.state, Header: s.header, Line: s.headerLine, Err: err}
}

// headerValues returns the tokens following "name =" on a header line
func headerValues(fields []string) ([]string, error) {
	for i, f := range fields {
		if f == "=" {
			return fields[i+1:], nil
		}
	}
	return nil, grammarf("expected \"=\" after %s", fields[0])
}

func (s *Scanner) declareNodes(values []string) error {
	vals := cleanTokens(values)
	if len(vals) == 0 {
		return grammarf("num_nodes has no value")
	}
	n, err := strconv.Atoi(vals[0])
	if err != nil {
		return grammarf("num_nodes value %q is not an integer", vals[0])
	}
	return s.mesh.DeclareNodes(n)
}

func (s *Scanner) readCoordinates(values []string) error {
	s.logger.Info("Getting node coordinates")
	coords, err := readList(values, s.r)
	if err != nil {
		return err
	}
	return s.mesh.SetCoordinates(coords)
}

// Node-sets 1-3 fix x, y and z in turn, higher ordinals list plot nodes
func (s *Scanner) readNodeSet(values []string) error {
	nodes, err := readList(values, s.r)
	if err != nil {
		return err
	}
	if s.ordinal > 3 {
		s.logger.Info("Getting nodes to plot data for", slog.Int("nodeSet", s.ordinal))
		s.mesh.SetPlotNodes(nodes)
		return nil
	}
	s.logger.Info("Getting boundary conditions",
		slog.Int("nodeSet", s.ordinal), slog.String("fixed", axisNames[s.ordinal-1]))
	return s.mesh.SetBoundaryAxis(s.ordinal, nodes)
}

// readConnectivity reads one element per line until the terminator
func (s *Scanner) readConnectivity(values []string) error {
	s.logger.Info("Getting element connectivity", slog.String("block", s.suffix))
	row := cleanTokens(values)
	for {
		done := len(row) > 0 && row[len(row)-1] == terminator
		if done {
			row = row[:len(row)-1]
		}
		if len(row) > 0 {
			if _, err := s.mesh.AddElement(s.suffix, row); err != nil {
				return err
			}
		}
		if done {
			return nil
		}
		line, ok := s.r.next()
		if !ok {
			if err := s.r.err(); err != nil {
				return err
			}
			return grammarf("end of dump before list terminator %q", terminator)
		}
		row = cleanTokens(strings.Fields(line))
	}
}

func (s *Scanner) readSideSetElements(values []string) error {
	s.logSideSet()
	elements, err := readList(values, s.r)
	if err != nil {
		return err
	}
	return s.mesh.SideSetElements(s.ordinal, elements)
}

func (s *Scanner) readSideSetSides(values []string) error {
	s.logSideSet()
	sides, err := readList(values, s.r)
	if err != nil {
		return err
	}
	return s.mesh.SideSetSides(s.ordinal, sides)
}

func (s *Scanner) logSideSet() {
	if s.ordinal == 1 {
		s.logger.Info("Getting surface traction data", slog.String("header", s.header))
		return
	}
	s.logger.Info("Getting buoyancy data", slog.String("header", s.header), slog.Int("sideSet", s.ordinal))
}
