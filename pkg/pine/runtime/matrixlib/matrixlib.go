// Package matrixlib implements the PineScript matrix.* built-ins (spec.md
// §6.3) over a plain [][]T representation.
package matrixlib

// New returns a rows x cols matrix filled with fill.
func New[T any](rows, cols int, fill T) [][]T {
	out := make([][]T, rows)

	for i := range out {
		row := make([]T, cols)
		for j := range row {
			row[j] = fill
		}

		out[i] = row
	}

	return out
}

// Get returns m[row][col].
func Get[T any](m [][]T, row, col int) T {
	return m[row][col]
}

// Set assigns m[row][col] = v, returning m.
func Set[T any](m [][]T, row, col int, v T) [][]T {
	m[row][col] = v
	return m
}

// Rows returns the number of rows of m.
func Rows[T any](m [][]T) int {
	return len(m)
}

// Cols returns the number of columns of m (0 if m has no rows).
func Cols[T any](m [][]T) int {
	if len(m) == 0 {
		return 0
	}

	return len(m[0])
}
