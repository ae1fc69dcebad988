// Package alignment computes pairwise voting alignment between voters and
// assembles the result for rendering.
package alignment

import "slices"

// Cell holds the alignment statistics for an ordered voter pair (X, Y).
//
// DecisiveX is the number of items X voted Y or N on. DecisiveYOnX is how
// many of those items Y also voted Y or N on, and Agree is how many of them
// Y voted the same way as X. Percent is Agree*100/DecisiveX, or 0 when X
// cast no decisive votes.
type Cell struct {
	DecisiveX    int     `json:"decisive_x"`
	DecisiveYOnX int     `json:"decisive_y_on_x"`
	Agree        int     `json:"agree"`
	Percent      float64 `json:"percent"`
}

// Matrix is the n×n collection of cells indexed by Voters. Row index is X,
// column index is Y.
type Matrix struct {
	Voters []string `json:"voters"`
	Cells  [][]Cell `json:"cells"`
}

// Len returns the number of voters.
func (m *Matrix) Len() int {
	return len(m.Voters)
}

// At returns the cell for voter index x against voter index y.
func (m *Matrix) At(x, y int) Cell {
	return m.Cells[x][y]
}

// Index returns the position of voter, or -1.
func (m *Matrix) Index(voter string) int {
	return slices.Index(m.Voters, voter)
}

// Row returns the cells of voter X against every voter.
func (m *Matrix) Row(voter string) ([]Cell, bool) {
	i := m.Index(voter)
	if i < 0 {
		return nil, false
	}
	return m.Cells[i], true
}

// Pair returns the cell for the ordered pair (x, y) by voter id.
func (m *Matrix) Pair(x, y string) (Cell, bool) {
	i, j := m.Index(x), m.Index(y)
	if i < 0 || j < 0 {
		return Cell{}, false
	}
	return m.Cells[i][j], true
}
