// Package geofest writes the fixed-column input files read by the GeoFEST
// finite element solver. Every record file ends with a "0 0" sentinel row.
package geofest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/exo2geo/exodus"
)

// CoordScale converts mesh units to solver units
const CoordScale = 1000.

const sentinel = "0 0\n"

// Output files, in the order WriteAll produces them
const (
	CoordFile     = "coord.dat"
	ElementFile   = "eldata.dat"
	BoundaryFile  = "bcc.dat"
	TractionFile  = "surfdata.dat"
	BuoyancyFile  = "buoydata.dat"
	StressFile    = "stresses.dat"
	PlotNodesFile = "plotNodes.dat"
)

// Number of stress components per row of the initial stress file
const stressComponents = 10

// Buoyancy is the physical data paired with one buoyancy face group
type Buoyancy struct {
	Direction [3]float64
	Density   float64 // rho*g
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatVector(v [3]float64) string {
	return formatFloat(v[0]) + " " + formatFloat(v[1]) + " " + formatFloat(v[2])
}

// WriteCoords writes "id x y z" with coordinates scaled by CoordScale
func WriteCoords(w io.Writer, m *exodus.Mesh) (err error) {
	x := floats.ScaleTo(make([]float64, m.NumNodes), CoordScale, m.X)
	y := floats.ScaleTo(make([]float64, m.NumNodes), CoordScale, m.Y)
	z := floats.ScaleTo(make([]float64, m.NumNodes), CoordScale, m.Z)
	for i := 0; i < m.NumNodes; i++ {
		if _, err = fmt.Fprintf(w, "%d %s %s %s\n", i+1,
			formatFloat(x[i]), formatFloat(y[i]), formatFloat(z[i])); err != nil {
			return
		}
	}
	_, err = io.WriteString(w, sentinel)
	return
}

// WriteElements writes "id 0 type n1 n2 ..."
func WriteElements(w io.Writer, m *exodus.Mesh) (err error) {
	var sb strings.Builder
	for _, el := range m.Elements {
		sb.Reset()
		fmt.Fprintf(&sb, "%d 0 %s", el.ID, el.Type)
		for _, n := range el.Nodes {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(n))
		}
		sb.WriteByte('\n')
		if _, err = io.WriteString(w, sb.String()); err != nil {
			return
		}
	}
	_, err = io.WriteString(w, sentinel)
	return
}

// WriteBoundary writes "id 0 fx fy fz", 0 = fixed and 1 = free
func WriteBoundary(w io.Writer, m *exodus.Mesh) (err error) {
	for i, bc := range m.Boundary {
		if _, err = fmt.Fprintf(w, "%d 0 %d %d %d\n", i+1, bc[0], bc[1], bc[2]); err != nil {
			return
		}
	}
	_, err = io.WriteString(w, sentinel)
	return
}

// WriteTraction writes "element side Fx Fy Fz" for every traction face
func WriteTraction(w io.Writer, faces []exodus.Face, force [3]float64) (err error) {
	f := formatVector(force)
	for _, face := range faces {
		if _, err = fmt.Fprintf(w, "%d %d %s\n", face.Element, face.Side, f); err != nil {
			return
		}
	}
	_, err = io.WriteString(w, sentinel)
	return
}

// WriteBuoyancy writes each group as a "count dx dy dz rho_g" header, its
// faces, and its own sentinel. Groups and values pair up by position.
func WriteBuoyancy(w io.Writer, groups []exodus.BuoyancyGroup, values []Buoyancy) (err error) {
	if len(groups) != len(values) {
		return fmt.Errorf("%d buoyancy groups but %d buoyancy values", len(groups), len(values))
	}
	for i, g := range groups {
		if _, err = fmt.Fprintf(w, "%d %s %s\n", len(g.Faces),
			formatVector(values[i].Direction), formatFloat(values[i].Density)); err != nil {
			return
		}
		for _, face := range g.Faces {
			if _, err = fmt.Fprintf(w, "%d %d\n", face.Element, face.Side); err != nil {
				return
			}
		}
		if _, err = io.WriteString(w, sentinel); err != nil {
			return
		}
	}
	return
}

// WriteStresses writes a zero initial stress row per element and a closing zero row
func WriteStresses(w io.Writer, m *exodus.Mesh) (err error) {
	row := strings.TrimSpace(strings.Repeat("0 ", stressComponents)) + "\n"
	for i := 0; i <= m.NumElements(); i++ {
		if _, err = io.WriteString(w, row); err != nil {
			return
		}
	}
	return
}

// WritePlotNodes writes the plot node list on a single line
func WritePlotNodes(w io.Writer, m *exodus.Mesh) (err error) {
	_, err = io.WriteString(w, strings.Join(m.PlotNodes, " ")+"\n")
	return
}
