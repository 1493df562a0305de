package geofest

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/notargets/exo2geo/exodus"
)

// Loads are the physical values applied to the mesh face groups
type Loads struct {
	Traction [3]float64 // Surface traction force on side-set 1
	Buoyancy []Buoyancy // One per buoyancy group, in group order
}

// Emitter writes a complete set of GeoFEST input files into Dir
type Emitter struct {
	Dir    string
	logger *slog.Logger
}

func NewEmitter(dir string, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{Dir: dir, logger: logger}
}

type record struct {
	file  string
	msg   string
	write func(w io.Writer) error
}

// WriteAll writes every record file for a fully scanned mesh. Files written
// before a failure are left in place.
func (e *Emitter) WriteAll(m *exodus.Mesh, loads Loads) error {
	if len(loads.Buoyancy) != len(m.Buoyancy) {
		return fmt.Errorf("mesh has %d buoyancy side-sets but %d buoyancy values were given",
			len(m.Buoyancy), len(loads.Buoyancy))
	}
	if !m.HasTraction() {
		e.logger.Warn("No side-set 1 in mesh, surface traction file will be empty")
	}
	records := []record{
		{CoordFile, "Writing node coordinate data", func(w io.Writer) error { return WriteCoords(w, m) }},
		{ElementFile, "Writing element connectivity data", func(w io.Writer) error { return WriteElements(w, m) }},
		{BoundaryFile, "Writing boundary condition data", func(w io.Writer) error { return WriteBoundary(w, m) }},
		{TractionFile, "Writing surface traction data", func(w io.Writer) error {
			return WriteTraction(w, m.Traction, loads.Traction)
		}},
		{BuoyancyFile, "Writing buoyancy data", func(w io.Writer) error {
			return WriteBuoyancy(w, m.Buoyancy, loads.Buoyancy)
		}},
		{StressFile, "Writing initial stresses", func(w io.Writer) error { return WriteStresses(w, m) }},
		{PlotNodesFile, "Writing plot nodes", func(w io.Writer) error { return WritePlotNodes(w, m) }},
	}
	for _, r := range records {
		e.logger.Info(r.msg, slog.String("file", r.file))
		if err := e.writeFile(r.file, r.write); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) writeFile(name string, write func(w io.Writer) error) (err error) {
	path := filepath.Join(e.Dir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	bw := bufio.NewWriter(file)
	if err = write(bw); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
