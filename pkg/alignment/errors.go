package alignment

import "errors"

// ErrInvalidVoteTable indicates the voter list does not agree with the
// table it is meant to index.
var ErrInvalidVoteTable = errors.New("invalid vote table")
