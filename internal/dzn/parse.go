package dzn

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"svw.info/gridgen/internal/domain"
)

var (
	// "1..n", "1..9" dimension tokens inside array2d headers
	rangeRe = regexp.MustCompile(`\d+\.\.[a-zA-Z0-9]+`)
	// parameter lines such as "n = 9;" or "int: N = 16;"
	paramRe = regexp.MustCompile(`[a-zA-Z0-9]+\s*=\s*\d+;\s*$`)
	digitRe = regexp.MustCompile(`\d+`)
)

// ParseString parses an in-memory .dzn document.
func ParseString(s string) (*domain.Instance, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a .dzn instance, tolerating the quirks of the hakank files:
// '%' comment lines, '_' blanks, "1..n" index ranges and trailing
// parameter lines. The grid dimension is auto-detected from the token
// count, which must be a perfect square whose root is itself a perfect
// square (so the block size is recoverable). Marshal output round-trips
// exactly.
func Parse(r io.Reader) (*domain.Instance, error) {
	var tokens []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		line = strings.ReplaceAll(line, "_", "0")
		line = rangeRe.ReplaceAllString(line, " ")
		if paramRe.MatchString(line) {
			continue
		}
		line = strings.ReplaceAll(line, "array2d", " ")
		tokens = append(tokens, digitRe.FindAllString(line, -1)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	total := len(tokens)
	if total == 0 {
		return nil, fmt.Errorf("no cell data found")
	}
	n := int(math.Sqrt(float64(total)))
	if n*n != total {
		return nil, fmt.Errorf("found %d cells, not a perfect square", total)
	}
	b := int(math.Sqrt(float64(n)))
	if b*b != n {
		return nil, fmt.Errorf("grid dimension %d has no integer block size", n)
	}

	grid := domain.NewGrid(n)
	for i, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		if v < 0 || v > n {
			return nil, fmt.Errorf("cell %d: value %d out of range 0..%d", i, v, n)
		}
		grid.Cells[i] = uint16(v)
	}
	inst := &domain.Instance{
		BlockSize: b,
		Grid:      *grid,
	}
	inst.Density = inst.FilledFraction()
	return inst, nil
}
