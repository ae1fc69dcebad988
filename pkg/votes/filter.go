package votes

// Selection narrows a batch of records to a subset of voters and items.
// An empty list selects everything along that axis.
type Selection struct {
	Voters []string `json:"voters,omitempty"`
	Items  []string `json:"items,omitempty"`
}

// IsEmpty reports whether the selection keeps every record.
func (s Selection) IsEmpty() bool {
	return len(s.Voters) == 0 && len(s.Items) == 0
}

// Filter returns the records whose voter and item are selected, in their
// original order so the first-wins rule of Build is unaffected.
func (s Selection) Filter(records []Record) []Record {
	if s.IsEmpty() {
		return records
	}

	m := s.matcher()
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if m.match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

type matcher struct {
	voters map[string]struct{}
	items  map[string]struct{}
}

func (s Selection) matcher() matcher {
	return matcher{
		voters: toSet(s.Voters),
		items:  toSet(s.Items),
	}
}

func (m matcher) match(rec Record) bool {
	if m.voters != nil {
		if _, ok := m.voters[rec.VoterID]; !ok {
			return false
		}
	}
	if m.items != nil {
		if _, ok := m.items[rec.ItemID]; !ok {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
