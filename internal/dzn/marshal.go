// Package dzn reads and writes benchmark instances in the MiniZinc .dzn
// array2d layout used by the hakank sudoku problem collection.
package dzn

import (
	"bytes"
	"fmt"

	"svw.info/gridgen/internal/domain"
)

// Marshal renders an instance into the canonical .dzn text. The output is
// deterministic: identical instances always serialize to identical bytes.
//
//	%
//	% Generated Sudoku 9x9
//	% Density approximation: 0.40
//	%
//	x = array2d(1..n, 1..n, [
//	   5,   3,   _, ...
//	]);
//
//	n = 9;
//
// Filled cells are right-justified to width 3; blanks render as "  _".
// The density line reports the actual filled fraction, which may differ
// from the requested density because the blank count is floored.
func Marshal(inst *domain.Instance) []byte {
	n := inst.Grid.Size
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%\n%% Generated Sudoku %dx%d\n", n, n)
	fmt.Fprintf(&buf, "%% Density approximation: %.2f\n%%\n", inst.FilledFraction())
	buf.WriteString("x = array2d(1..n, 1..n, [\n")
	for r := 0; r < n; r++ {
		buf.WriteByte(' ')
		for c := 0; c < n; c++ {
			if c > 0 {
				buf.WriteString(", ")
			}
			if v := inst.Grid.At(r, c); v == 0 {
				buf.WriteString("  _")
			} else {
				fmt.Fprintf(&buf, "%3d", v)
			}
		}
		if r < n-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]);\n\n")
	fmt.Fprintf(&buf, "n = %d;\n", n)
	return buf.Bytes()
}
