package exodus

import (
	"bufio"
	"io"
	"strings"
)

// terminator closes every data list in an ncdump listing
const terminator = ";"

// lineReader is a bufio.Scanner that keeps count of the lines consumed
type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func newLineReader(r io.Reader) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &lineReader{scanner: scanner}
}

func (r *lineReader) next() (string, bool) {
	if !r.scanner.Scan() {
		return "", false
	}
	r.line++
	return r.scanner.Text(), true
}

func (r *lineReader) err() error {
	return r.scanner.Err()
}

// cleanTokens strips the trailing comma ncdump places after each value
func cleanTokens(fields []string) (tokens []string) {
	tokens = make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSuffix(f, ","); f != "" {
			tokens = append(tokens, f)
		}
	}
	return
}

// readList completes a list whose first tokens came from the header line,
// reading further lines until the terminator. The terminator is not returned.
func readList(seed []string, r *lineReader) ([]string, error) {
	list := cleanTokens(seed)
	for len(list) == 0 || list[len(list)-1] != terminator {
		line, ok := r.next()
		if !ok {
			if err := r.err(); err != nil {
				return nil, err
			}
			return nil, grammarf("end of dump before list terminator %q", terminator)
		}
		list = append(list, cleanTokens(strings.Fields(line))...)
	}
	return list[:len(list)-1], nil
}
