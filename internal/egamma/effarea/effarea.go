// Package effarea loads pseudorapidity-binned effective-area tables used to
// subtract the pileup contribution from isolation sums.
//
// A table is read once at startup and is immutable afterwards, so a single
// *Table may be shared by any number of goroutines.
package effarea

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every parse failure.
var ErrMalformed = errors.New("malformed effective-area table")

// Bin is one |eta| slice of an effective-area table.
type Bin struct {
	UpperBound float64 // exclusive upper |eta| edge
	Area       float64
}

// Table is an ordered sequence of bins with ascending upper bounds.
// The last bin is open-ended and covers every |eta| beyond the previous edge.
type Table struct {
	source string
	bins   []Bin
}

// Load reads an effective-area table from path.
func Load(path string) (*Table, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open effective-area table: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.source = path
	return t, nil
}

// Parse reads a table from r. Blank lines and '#' comments are ignored. Each
// data line holds either "absEtaMin absEtaMax area" or "absEtaMax area".
func Parse(r io.Reader) (*Table, error) {
	t := &Table{}
	prevUpper := math.Inf(-1)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q is not a number", ErrMalformed, lineNo, f)
			}
			vals[i] = v
		}

		var lower, upper, area float64
		switch len(vals) {
		case 3:
			lower, upper, area = vals[0], vals[1], vals[2]
			if lower >= upper {
				return nil, fmt.Errorf("%w: line %d: empty bin [%g, %g)", ErrMalformed, lineNo, lower, upper)
			}
			if len(t.bins) > 0 && lower < prevUpper {
				return nil, fmt.Errorf("%w: line %d: bin starting at %g overlaps previous edge %g", ErrMalformed, lineNo, lower, prevUpper)
			}
		case 2:
			upper, area = vals[0], vals[1]
		default:
			return nil, fmt.Errorf("%w: line %d: expected 2 or 3 columns, got %d", ErrMalformed, lineNo, len(vals))
		}

		if upper <= prevUpper {
			return nil, fmt.Errorf("%w: line %d: upper edge %g not above %g", ErrMalformed, lineNo, upper, prevUpper)
		}
		prevUpper = upper
		t.bins = append(t.bins, Bin{UpperBound: upper, Area: area})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read effective-area table: %w", err)
	}
	if len(t.bins) == 0 {
		return nil, fmt.Errorf("%w: no bins", ErrMalformed)
	}
	return t, nil
}

// New builds a table directly from bins, validating their order.
func New(bins []Bin) (*Table, error) {
	if len(bins) == 0 {
		return nil, fmt.Errorf("%w: no bins", ErrMalformed)
	}
	for i := 1; i < len(bins); i++ {
		if bins[i].UpperBound <= bins[i-1].UpperBound {
			return nil, fmt.Errorf("%w: bin %d upper edge %g not above %g", ErrMalformed, i, bins[i].UpperBound, bins[i-1].UpperBound)
		}
	}
	return &Table{bins: append([]Bin(nil), bins...)}, nil
}

// Area returns the effective area for the given pseudorapidity. Only |eta|
// matters. The first bin whose upper edge exceeds |eta| wins; values beyond
// the last edge fall in the last bin.
func (t *Table) Area(eta float64) float64 {
	absEta := math.Abs(eta)
	for _, b := range t.bins {
		if absEta < b.UpperBound {
			return b.Area
		}
	}
	return t.bins[len(t.bins)-1].Area
}

// Bins returns a copy of the table's bins.
func (t *Table) Bins() []Bin {
	return append([]Bin(nil), t.bins...)
}

// Source returns the path the table was loaded from, or "" for in-memory tables.
func (t *Table) Source() string {
	return t.source
}
