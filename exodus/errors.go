package exodus

import (
	"errors"
	"fmt"
)

var (
	// ErrGrammar marks a dump that does not follow the expected section layout
	ErrGrammar = errors.New("malformed dump")
	// ErrFaceIndex marks a side-set face number outside 1..4
	ErrFaceIndex = errors.New("face index out of range")
	// ErrLengthMismatch marks a side-set whose element and side lists differ in length
	ErrLengthMismatch = errors.New("side-set element/side length mismatch")
)

// SectionError scopes a failure to the section being read when it occurred
type SectionError struct {
	Section State
	Header  string // Header token that opened the section
	Line    int    // Line number of the header, 1-based
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("%s section %q at line %d: %v", e.Section, e.Header, e.Line, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

func grammarf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrGrammar, fmt.Sprintf(format, args...))
}
