package alignment

import (
	"fmt"
	"slices"
	"strings"
)

// ResultCell is a matrix cell prepared for rendering. Diagonal cells are
// not plottable: a voter always mirrors itself.
type ResultCell struct {
	Cell
	Plottable bool   `json:"plottable"`
	Label     string `json:"label"`
}

// Result is the renderable form of a Matrix in canonical (X, Y) orientation.
type Result struct {
	Voters []string       `json:"voters"`
	Cells  [][]ResultCell `json:"cells"`
}

// AssembleOption configures Assemble.
type AssembleOption func(*assembleOptions)

type assembleOptions struct {
	emptyDiagonal bool
}

// WithEmptyDiagonalLabels blanks the label of every diagonal cell.
func WithEmptyDiagonalLabels() AssembleOption {
	return func(o *assembleOptions) {
		o.emptyDiagonal = true
	}
}

// Assemble converts a matrix into a Result with per-cell labels.
func Assemble(m *Matrix, opts ...AssembleOption) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: matrix is nil", ErrInvalidVoteTable)
	}
	if len(m.Cells) != len(m.Voters) {
		return nil, fmt.Errorf(
			"%w: %d rows for %d voters",
			ErrInvalidVoteTable, len(m.Cells), len(m.Voters),
		)
	}

	var o assembleOptions
	for _, opt := range opts {
		opt(&o)
	}

	cells := make([][]ResultCell, len(m.Voters))
	for i, x := range m.Voters {
		if len(m.Cells[i]) != len(m.Voters) {
			return nil, fmt.Errorf(
				"%w: row %q has %d cells, want %d",
				ErrInvalidVoteTable, x, len(m.Cells[i]), len(m.Voters),
			)
		}

		row := make([]ResultCell, len(m.Voters))
		for j, y := range m.Voters {
			c := m.Cells[i][j]
			rc := ResultCell{
				Cell:      c,
				Plottable: i != j,
				Label:     Label(x, y, c),
			}
			if i == j && o.emptyDiagonal {
				rc.Label = ""
			}
			row[j] = rc
		}
		cells[i] = row
	}

	return &Result{
		Voters: slices.Clone(m.Voters),
		Cells:  cells,
	}, nil
}

// Label formats the human-readable description of the pair (x, y).
// Lines are separated by "\n".
func Label(x, y string, c Cell) string {
	lines := []string{
		"Voter X: " + x,
		"Voter Y: " + y,
		fmt.Sprintf("%% Matched: %.1f", c.Percent),
		fmt.Sprintf("Matched Votes: %d", c.Agree),
		fmt.Sprintf("%s Total Votes: %d", x, c.DecisiveX),
		fmt.Sprintf("%s Voted Same Items: %d", y, c.DecisiveYOnX),
	}
	return strings.Join(lines, "\n")
}

// Grid is a Result laid out with Y voters as rows and X voters as columns,
// the convention of heatmap renderers. Z is nil where the cell is masked.
type Grid struct {
	X      []string     `json:"x"`
	Y      []string     `json:"y"`
	Z      [][]*float64 `json:"z"`
	Text   [][]string   `json:"text"`
	Masked [][]bool     `json:"masked"`
}

// Transpose lays the result out as a Grid.
func (r *Result) Transpose() Grid {
	n := len(r.Voters)
	g := Grid{
		X:      slices.Clone(r.Voters),
		Y:      slices.Clone(r.Voters),
		Z:      make([][]*float64, n),
		Text:   make([][]string, n),
		Masked: make([][]bool, n),
	}

	for j := range n {
		g.Z[j] = make([]*float64, n)
		g.Text[j] = make([]string, n)
		g.Masked[j] = make([]bool, n)

		for i := range n {
			c := r.Cells[i][j]
			g.Text[j][i] = c.Label
			if !c.Plottable {
				g.Masked[j][i] = true
				continue
			}
			p := c.Percent
			g.Z[j][i] = &p
		}
	}

	return g
}
