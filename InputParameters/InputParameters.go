package InputParameters

import (
	"errors"
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/exo2geo/geofest"
)

var (
	// ErrArity marks a vector or scalar with the wrong number of values
	ErrArity = errors.New("wrong number of values")
	// ErrNotNumeric marks a value that does not parse as a float
	ErrNotNumeric = errors.New("value is not a number")
)

// Parameters obtained from the YAML input file, or from the operator
type GeoFESTParameters struct {
	Title    string     `json:"Title"`
	Traction []float64  `json:"Traction"` // Surface traction force {X,Y,Z} on side-set 1
	Buoyancy []Buoyancy `json:"Buoyancy"` // In order of increasing side-set number
}

type Buoyancy struct {
	Direction []float64 `json:"Direction"`
	Density   float64   `json:"Density"` // rho*g
}

func (ip *GeoFESTParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate checks vector dimensions and that there is one buoyancy entry
// per buoyancy side-set of the mesh
func (ip *GeoFESTParameters) Validate(numBuoyancy int) error {
	if len(ip.Traction) != 3 {
		return fmt.Errorf("Traction: %w: want 3, got %d", ErrArity, len(ip.Traction))
	}
	if len(ip.Buoyancy) != numBuoyancy {
		return fmt.Errorf("Buoyancy: %w: mesh has %d buoyancy side-sets, got %d entries",
			ErrArity, numBuoyancy, len(ip.Buoyancy))
	}
	for i, b := range ip.Buoyancy {
		if len(b.Direction) != 3 {
			return fmt.Errorf("Buoyancy[%d].Direction: %w: want 3, got %d", i, ErrArity, len(b.Direction))
		}
	}
	return nil
}

// Loads converts validated parameters for the record emitter
func (ip *GeoFESTParameters) Loads() (loads geofest.Loads) {
	copy(loads.Traction[:], ip.Traction)
	loads.Buoyancy = make([]geofest.Buoyancy, len(ip.Buoyancy))
	for i, b := range ip.Buoyancy {
		copy(loads.Buoyancy[i].Direction[:], b.Direction)
		loads.Buoyancy[i].Density = b.Density
	}
	return
}

func (ip *GeoFESTParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%v\t\t= Traction\n", ip.Traction)
	for i, b := range ip.Buoyancy {
		fmt.Printf("Buoyancy[%d] = %v, rho*g = %8.5f\n", i, b.Direction, b.Density)
	}
}
