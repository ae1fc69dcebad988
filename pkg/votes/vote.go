// Package votes models long-form voting records and reshapes them into an
// item × voter table used by alignment computations.
package votes

// Kind classifies a vote token.
type Kind int

const (
	Other Kind = iota
	Yes
	No
	Abstain
)

func (k Kind) String() string {
	switch k {
	case Yes:
		return "yes"
	case No:
		return "no"
	case Abstain:
		return "abstain"
	default:
		return "other"
	}
}

// Vote is the raw token a voter cast on an item. Only "Y" and "N" are
// decisive; matching is case-sensitive.
type Vote string

const (
	VoteYes     Vote = "Y"
	VoteNo      Vote = "N"
	VoteAbstain Vote = "A"
)

// Kind maps the token to its Kind. Unrecognized tokens, including the empty
// token, are Other.
func (v Vote) Kind() Kind {
	switch v {
	case VoteYes:
		return Yes
	case VoteNo:
		return No
	case VoteAbstain:
		return Abstain
	default:
		return Other
	}
}

// Decisive reports whether the vote counts toward alignment statistics.
func (v Vote) Decisive() bool {
	return v == VoteYes || v == VoteNo
}

// Record is a single (item, voter, vote) row.
type Record struct {
	ItemID  string `json:"item_id"`
	VoterID string `json:"voter_id"`
	Vote    Vote   `json:"vote"`
}
