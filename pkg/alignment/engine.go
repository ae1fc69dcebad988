package alignment

import (
	"fmt"
	"math/bits"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/accord/pkg/votes"
)

// Option configures Compute.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers bounds the number of rows computed concurrently. Values below
// one fall back to the default of one worker per CPU.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Compute builds the alignment matrix for voters over table t.
//
// Voters define the row and column order of the result. Each voter must
// appear in the table exactly once in the list. The computation is a pure
// function of (t, voters): identical input yields a bit-identical matrix.
func Compute(t *votes.Table, voters []string, opts ...Option) (*Matrix, error) {
	if err := validate(t, voters); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	profiles := buildProfiles(t, voters)
	cells := make([][]Cell, len(voters))

	var g errgroup.Group
	g.SetLimit(workerCount(o.workers, len(voters)))

	for x := range profiles {
		g.Go(func() error {
			cells[x] = computeRow(profiles, x)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Matrix{
		Voters: slices.Clone(voters),
		Cells:  cells,
	}, nil
}

func validate(t *votes.Table, voters []string) error {
	if t == nil {
		return fmt.Errorf("%w: table is nil", ErrInvalidVoteTable)
	}
	if len(voters) == 0 && t.Len() > 0 {
		return fmt.Errorf("%w: no voters for %d items", ErrInvalidVoteTable, t.Len())
	}

	seen := make(map[string]struct{}, len(voters))
	for _, v := range voters {
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%w: voter %q listed more than once", ErrInvalidVoteTable, v)
		}
		seen[v] = struct{}{}

		if !t.HasVoter(v) {
			return fmt.Errorf("%w: voter %q not in table", ErrInvalidVoteTable, v)
		}
	}
	return nil
}

// profile holds one voter's decisive votes as bitsets over the item index.
type profile struct {
	decisive bitset
	yes      bitset
	count    int
}

func buildProfiles(t *votes.Table, voters []string) []profile {
	items := t.Items()
	profiles := make([]profile, len(voters))

	for i, voter := range voters {
		p := profile{
			decisive: newBitset(len(items)),
			yes:      newBitset(len(items)),
		}
		for idx, item := range items {
			v, ok := t.Vote(item, voter)
			if !ok || !v.Decisive() {
				continue
			}
			p.decisive.set(idx)
			if v == votes.VoteYes {
				p.yes.set(idx)
			}
			p.count++
		}
		profiles[i] = p
	}

	return profiles
}

// computeRow fills the cells of voter x against every voter. Items where
// both voted decisively and their yes bits match are agreements.
func computeRow(profiles []profile, x int) []Cell {
	px := profiles[x]
	row := make([]Cell, len(profiles))

	for y, py := range profiles {
		var matched, agree int
		for w := range px.decisive {
			both := px.decisive[w] & py.decisive[w]
			matched += bits.OnesCount64(both)
			agree += bits.OnesCount64(both &^ (px.yes[w] ^ py.yes[w]))
		}

		row[y] = Cell{
			DecisiveX:    px.count,
			DecisiveYOnX: matched,
			Agree:        agree,
			Percent:      percent(agree, px.count),
		}
	}

	return row
}

func percent(agree, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(agree*100) / float64(total)
}

func workerCount(requested, rows int) int {
	if requested < 1 {
		requested = runtime.NumCPU()
	}
	return max(min(requested, rows), 1)
}

type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << (uint(i) % 64)
}
