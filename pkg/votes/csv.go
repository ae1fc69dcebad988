package votes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Columns names the CSV header fields holding item, voter, and vote values.
type Columns struct {
	Item  string `json:"item" toml:"item"`
	Voter string `json:"voter" toml:"voter"`
	Vote  string `json:"vote" toml:"vote"`
}

// DefaultColumns returns the header names used by UN voting exports.
func DefaultColumns() Columns {
	return Columns{
		Item:  "resolution",
		Voter: "ms_name",
		Vote:  "ms_vote",
	}
}

// Sheet is a parsed vote CSV. Rows keep every column of the source so a
// filtered sheet can be written back without losing data.
type Sheet struct {
	Header []string
	Rows   [][]string

	item, voter, vote int
}

// ReadSheet parses a vote CSV with a header row. Values are trimmed of
// surrounding whitespace. Returns ErrEmptyInput when the file holds no data
// rows and a *MissingColumnError, naming the configured column and file line,
// when a required header or field is absent or an item or voter is blank.
func ReadSheet(r io.Reader, cols Columns) (*Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	s := &Sheet{Header: header}
	if s.item, err = columnIndex(header, cols.Item); err != nil {
		return nil, err
	}
	if s.voter, err = columnIndex(header, cols.Voter); err != nil {
		return nil, err
	}
	if s.vote, err = columnIndex(header, cols.Vote); err != nil {
		return nil, err
	}

	need := max(s.item, s.voter, s.vote) + 1

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(s.Rows), err)
		}

		if isBlank(row) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(row) < need {
			return nil, &MissingColumnError{Index: len(s.Rows), Line: line, Column: missingName(row, s, cols)}
		}

		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		switch {
		case row[s.item] == "":
			return nil, &MissingColumnError{Index: len(s.Rows), Line: line, Column: cols.Item}
		case row[s.voter] == "":
			return nil, &MissingColumnError{Index: len(s.Rows), Line: line, Column: cols.Voter}
		}
		s.Rows = append(s.Rows, row)
	}

	if len(s.Rows) == 0 {
		return nil, ErrEmptyInput
	}

	return s, nil
}

// ReadCSV parses a vote CSV and returns its records in file order.
func ReadCSV(r io.Reader, cols Columns) ([]Record, error) {
	s, err := ReadSheet(r, cols)
	if err != nil {
		return nil, err
	}
	return s.Records(), nil
}

// Records converts every row into a Record.
func (s *Sheet) Records() []Record {
	records := make([]Record, len(s.Rows))
	for i, row := range s.Rows {
		records[i] = s.record(row)
	}
	return records
}

// Filter returns a sheet holding only the rows whose voter and item are
// selected. Row order is preserved.
func (s *Sheet) Filter(sel Selection) *Sheet {
	m := sel.matcher()
	out := &Sheet{
		Header: s.Header,
		item:   s.item,
		voter:  s.voter,
		vote:   s.vote,
	}
	for _, row := range s.Rows {
		if m.match(s.record(row)) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Write encodes the sheet, header first, as CSV.
func (s *Sheet) Write(w io.Writer) error {
	return WriteCSV(w, s.Header, s.Rows)
}

func (s *Sheet) record(row []string) Record {
	return Record{
		ItemID:  row[s.item],
		VoterID: row[s.voter],
		Vote:    Vote(row[s.vote]),
	}
}

// WriteCSV writes a header and rows as CSV.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

func columnIndex(header []string, name string) (int, error) {
	idx := slices.Index(header, name)
	if idx < 0 {
		return 0, &MissingColumnError{Index: -1, Column: name}
	}
	return idx, nil
}

func missingName(row []string, s *Sheet, cols Columns) string {
	switch {
	case len(row) <= s.item:
		return cols.Item
	case len(row) <= s.voter:
		return cols.Voter
	default:
		return cols.Vote
	}
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
