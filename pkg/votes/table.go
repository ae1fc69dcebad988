package votes

import "slices"

const (
	columnItem  = "item_id"
	columnVoter = "voter_id"
)

// Table is a sparse item × voter view of a batch of records. At most one
// vote is held per (item, voter) pair. A Table is immutable once built.
type Table struct {
	items      []string
	voters     []string
	cells      map[string]map[string]Vote
	duplicates int
}

// Build reshapes records into a Table.
//
// When several records share an (item, voter) pair the first one encountered
// wins and later ones are discarded. Voters are ordered ascending; items keep
// the order in which they were first seen.
func Build(records []Record) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	t := &Table{
		cells: make(map[string]map[string]Vote),
	}
	seenVoters := make(map[string]struct{})

	for i, rec := range records {
		if rec.ItemID == "" {
			return nil, &MissingColumnError{Index: i, Column: columnItem}
		}
		if rec.VoterID == "" {
			return nil, &MissingColumnError{Index: i, Column: columnVoter}
		}

		row, ok := t.cells[rec.ItemID]
		if !ok {
			row = make(map[string]Vote)
			t.cells[rec.ItemID] = row
			t.items = append(t.items, rec.ItemID)
		}

		if _, ok := row[rec.VoterID]; ok {
			t.duplicates++
			continue
		}
		row[rec.VoterID] = rec.Vote

		if _, ok := seenVoters[rec.VoterID]; !ok {
			seenVoters[rec.VoterID] = struct{}{}
			t.voters = append(t.voters, rec.VoterID)
		}
	}

	slices.Sort(t.voters)
	return t, nil
}

// Items returns item ids in first-seen order.
func (t *Table) Items() []string {
	return slices.Clone(t.items)
}

// Voters returns the sorted, deduplicated voter ids.
func (t *Table) Voters() []string {
	return slices.Clone(t.voters)
}

// Vote returns the vote cast by voter on item, if any.
func (t *Table) Vote(item, voter string) (Vote, bool) {
	v, ok := t.cells[item][voter]
	return v, ok
}

// HasVoter reports whether voter cast at least one vote in the table.
func (t *Table) HasVoter(voter string) bool {
	_, ok := slices.BinarySearch(t.voters, voter)
	return ok
}

// Len returns the number of distinct items.
func (t *Table) Len() int {
	return len(t.items)
}

// Duplicates returns how many records were dropped by the first-wins rule.
func (t *Table) Duplicates() int {
	return t.duplicates
}
