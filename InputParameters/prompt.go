package InputParameters

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// ErrNoInput marks an input stream that closed before all values were read
var ErrNoInput = errors.New("no more input")

// Policy decides what happens when the operator enters a malformed value
type Policy uint8

const (
	FailFast Policy = iota // Abort the conversion
	Retry                  // Report the error and ask again, up to MaxAttempts times
)

func NewPolicy(label string) (Policy, error) {
	switch strings.ToLower(label) {
	case "fail", "failfast", "":
		return FailFast, nil
	case "retry":
		return Retry, nil
	default:
		return FailFast, fmt.Errorf("unknown input policy %q, want fail or retry", label)
	}
}

func (p Policy) String() string {
	return [...]string{"fail", "retry"}[p]
}

// DefaultMaxAttempts bounds re-prompting under the Retry policy
const DefaultMaxAttempts = 3

const (
	tractionPrompt  = "Enter a floating point {X,Y,Z} as \"X Y Z\" vector for surface traction: "
	directionPrompt = "Enter a floating point {X,Y,Z} as \"X Y Z\" vector for buoyancy direction: "
	densityPrompt   = "Enter a buoyancy value (rho*g): "
)

// Prompter asks the operator for the traction and buoyancy values
type Prompter struct {
	in          *bufio.Scanner
	out         io.Writer
	Policy      Policy
	MaxAttempts int
	logger      *slog.Logger
}

func NewPrompter(in io.Reader, out io.Writer, policy Policy, logger *slog.Logger) *Prompter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prompter{
		in:          bufio.NewScanner(in),
		out:         out,
		Policy:      policy,
		MaxAttempts: DefaultMaxAttempts,
		logger:      logger,
	}
}

// Collect asks for the traction vector, then a direction and a density for
// each of numBuoyancy groups
func (p *Prompter) Collect(numBuoyancy int) (ip *GeoFESTParameters, err error) {
	ip = &GeoFESTParameters{Title: "interactive"}
	var v [3]float64
	if v, err = p.Vector(tractionPrompt); err != nil {
		return nil, fmt.Errorf("surface traction: %w", err)
	}
	ip.Traction = []float64{v[0], v[1], v[2]}
	ip.Buoyancy = make([]Buoyancy, numBuoyancy)
	for i := range ip.Buoyancy {
		if v, err = p.Vector(directionPrompt); err != nil {
			return nil, fmt.Errorf("buoyancy group %d direction: %w", i+1, err)
		}
		ip.Buoyancy[i].Direction = []float64{v[0], v[1], v[2]}
		if ip.Buoyancy[i].Density, err = p.Scalar(densityPrompt); err != nil {
			return nil, fmt.Errorf("buoyancy group %d density: %w", i+1, err)
		}
	}
	return
}

func (p *Prompter) Vector(prompt string) (v [3]float64, err error) {
	err = p.ask(prompt, func(line string) (perr error) {
		v, perr = ParseVector(line)
		return
	})
	return
}

func (p *Prompter) Scalar(prompt string) (f float64, err error) {
	err = p.ask(prompt, func(line string) (perr error) {
		f, perr = ParseScalar(line)
		return
	})
	return
}

func (p *Prompter) ask(prompt string, parse func(line string) error) (err error) {
	attempts := 1
	if p.Policy == Retry && p.MaxAttempts > 1 {
		attempts = p.MaxAttempts
	}
	for i := 0; i < attempts; i++ {
		fmt.Fprint(p.out, prompt)
		if !p.in.Scan() {
			if serr := p.in.Err(); serr != nil {
				return serr
			}
			return ErrNoInput
		}
		if err = parse(p.in.Text()); err == nil {
			return nil
		}
		p.logger.Warn("User input error", slog.String("error", err.Error()),
			slog.Int("attempt", i+1), slog.String("policy", p.Policy.String()))
	}
	return
}

// ParseVector reads exactly three whitespace separated numbers
func ParseVector(line string) (v [3]float64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return v, fmt.Errorf("%w: want 3, got %d in %q", ErrArity, len(fields), line)
	}
	for i, f := range fields {
		if v[i], err = strconv.ParseFloat(f, 64); err != nil {
			return v, fmt.Errorf("%w: %q", ErrNotNumeric, f)
		}
	}
	return
}

// ParseScalar reads exactly one number
func ParseScalar(line string) (f float64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 1 {
		return 0, fmt.Errorf("%w: want 1, got %d in %q", ErrArity, len(fields), line)
	}
	if f, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, fields[0])
	}
	return
}
