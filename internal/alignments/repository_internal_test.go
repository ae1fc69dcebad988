package alignments

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/JaimeStill/accord/pkg/alignment"
	"github.com/JaimeStill/accord/pkg/heatmap"
	"github.com/JaimeStill/accord/pkg/votes"
)

var records = []votes.Record{
	{ItemID: "R1", VoterID: "FRANCE", Vote: "Y"},
	{ItemID: "R2", VoterID: "FRANCE", Vote: "N"},
	{ItemID: "R3", VoterID: "FRANCE", Vote: "Y"},
	{ItemID: "R1", VoterID: "BRAZIL", Vote: "Y"},
	{ItemID: "R2", VoterID: "BRAZIL", Vote: "Y"},
	{ItemID: "R3", VoterID: "BRAZIL", Vote: "A"},
	{ItemID: "R1", VoterID: "CHILE", Vote: "N"},
	{ItemID: "R3", VoterID: "CHILE", Vote: "Y"},
}

func TestCompute(t *testing.T) {
	t.Run("whole dataset", func(t *testing.T) {
		m, table, _, err := compute(records, votes.Selection{}, 2)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if got := strings.Join(m.Voters, ","); got != "BRAZIL,CHILE,FRANCE" {
			t.Errorf("voters = %s", got)
		}
		if len(table.Items()) != 3 {
			t.Errorf("items = %d, want 3", len(table.Items()))
		}

		c, ok := m.Pair("FRANCE", "BRAZIL")
		if !ok {
			t.Fatal("pair missing")
		}
		if c.DecisiveX != 3 || c.DecisiveYOnX != 2 || c.Agree != 1 {
			t.Errorf("FRANCE/BRAZIL = %+v", c)
		}
	})

	t.Run("voter subset", func(t *testing.T) {
		m, _, _, err := compute(records, votes.Selection{Voters: []string{"FRANCE", "CHILE"}}, 0)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if m.Len() != 2 || m.Index("BRAZIL") != -1 {
			t.Errorf("voters = %v", m.Voters)
		}
	})

	t.Run("item subset", func(t *testing.T) {
		m, table, _, err := compute(records, votes.Selection{Items: []string{"R1"}}, 0)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if len(table.Items()) != 1 {
			t.Errorf("items = %v", table.Items())
		}
		c, _ := m.Pair("FRANCE", "CHILE")
		if c.DecisiveX != 1 || c.Agree != 0 || c.Percent != 0 {
			t.Errorf("FRANCE/CHILE = %+v", c)
		}
	})

	t.Run("unknown voter rejected", func(t *testing.T) {
		_, _, _, err := compute(records, votes.Selection{Voters: []string{"FRANCE", "ATLANTIS"}}, 0)
		if !errors.Is(err, ErrInvalidSelection) {
			t.Errorf("err = %v, want ErrInvalidSelection", err)
		}
	})

	t.Run("empty selection result rejected", func(t *testing.T) {
		_, _, _, err := compute(records, votes.Selection{Items: []string{"R9"}}, 0)
		if !errors.Is(err, ErrInvalidSelection) || !errors.Is(err, votes.ErrEmptyInput) {
			t.Errorf("err = %v, want ErrInvalidSelection wrapping ErrEmptyInput", err)
		}
	})
}

func cachedRepo(t *testing.T) (*repo, uuid.UUID) {
	t.Helper()

	m, _, _, err := compute(records, votes.Selection{}, 0)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	res, err := alignment.Assemble(m)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	r := &repo{
		results: cache.New(time.Minute, time.Minute),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:     Config{Heatmap: heatmap.Options{Title: "UN votes"}},
	}
	id := uuid.New()
	r.results.Set(id.String(), res, cache.DefaultExpiration)
	return r, id
}

func TestResultServedFromCache(t *testing.T) {
	r, id := cachedRepo(t)

	res, err := r.Result(context.Background(), id)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if len(res.Voters) != 3 {
		t.Errorf("voters = %v", res.Voters)
	}
	if res.Cells[0][0].Plottable {
		t.Error("diagonal cell should not be plottable")
	}
}

func TestHeatmapUsesConfiguredOptions(t *testing.T) {
	r, id := cachedRepo(t)

	var buf bytes.Buffer
	if err := r.Heatmap(context.Background(), id, &buf); err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	if !strings.Contains(buf.String(), "<title>UN votes</title>") {
		t.Error("configured title missing from page")
	}
	if !strings.Contains(buf.String(), "FRANCE") {
		t.Error("voter missing from page")
	}
}
