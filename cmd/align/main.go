// Command align computes the pairwise voting alignment of a vote CSV and
// writes it as a heatmap page.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"

	"github.com/JaimeStill/accord/internal/config"
	"github.com/JaimeStill/accord/pkg/alignment"
	"github.com/JaimeStill/accord/pkg/formatting"
	"github.com/JaimeStill/accord/pkg/heatmap"
	"github.com/JaimeStill/accord/pkg/votes"
)

var openFile = browser.OpenFile

type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(v string) error {
	if v = strings.TrimSpace(v); v != "" {
		*l = append(*l, v)
	}
	return nil
}

type options struct {
	input   string
	output  string
	json    string
	voters  listFlag
	items   listFlag
	columns votes.Columns
	workers int
	title   string
	open    bool
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "align:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Args[1:], logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Error("align failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	defaults := votes.DefaultColumns()
	opts := &options{}

	set := flag.NewFlagSet("align", flag.ContinueOnError)
	set.SetOutput(output)
	set.StringVar(&opts.input, "input", "", "vote CSV to read (required)")
	set.StringVar(&opts.output, "output", "heatmap.html", "heatmap page to write")
	set.StringVar(&opts.json, "json", "", "optional path for the labelled matrix as JSON")
	set.Var(&opts.voters, "voter", "voter to include (repeatable, default all)")
	set.Var(&opts.items, "item", "item to include (repeatable, default all)")
	set.StringVar(&opts.columns.Item, "item-column", envOr(config.EnvAlignmentItemColumn, defaults.Item), "item id column")
	set.StringVar(&opts.columns.Voter, "voter-column", envOr(config.EnvAlignmentVoterColumn, defaults.Voter), "voter name column")
	set.StringVar(&opts.columns.Vote, "vote-column", envOr(config.EnvAlignmentVoteColumn, defaults.Vote), "vote value column")
	set.IntVar(&opts.workers, "workers", 0, "concurrent rows (0 uses every CPU)")
	set.StringVar(&opts.title, "title", "", "heatmap title")
	set.BoolVar(&opts.open, "open", false, "open the heatmap in the default browser")

	if err := set.Parse(args); err != nil {
		return nil, err
	}
	if opts.input == "" {
		set.Usage()
		return nil, errors.New("-input is required")
	}
	return opts, nil
}

func run(args []string, logger *slog.Logger) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.input)
	if err != nil {
		return err
	}
	records, err := votes.ReadCSV(f, opts.columns)
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.input, err)
	}

	sel := votes.Selection{Voters: opts.voters, Items: opts.items}
	table, err := votes.Build(sel.Filter(records))
	if err != nil {
		return fmt.Errorf("build vote table: %w", err)
	}
	if table.Duplicates() > 0 {
		logger.Warn("duplicate votes ignored", "count", table.Duplicates())
	}

	voters := table.Voters()
	for _, v := range sel.Voters {
		if !table.HasVoter(v) {
			return fmt.Errorf("voter %q has no votes in the selection", v)
		}
	}

	start := time.Now()
	m, err := alignment.Compute(table, voters, alignment.WithWorkers(opts.workers))
	if err != nil {
		return err
	}
	res, err := alignment.Assemble(m)
	if err != nil {
		return err
	}
	logger.Info(
		"alignment computed",
		"voters", len(voters),
		"items", len(table.Items()),
		"duration", time.Since(start),
	)

	var page bytes.Buffer
	if err := heatmap.Render(&page, res, heatmap.Options{Title: opts.title}); err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, page.Bytes(), 0o644); err != nil {
		return err
	}
	logger.Info("heatmap written", "path", opts.output, "size", formatting.FormatBytes(int64(page.Len()), 1))

	if opts.json != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.json, data, 0o644); err != nil {
			return err
		}
		logger.Info("matrix written", "path", opts.json, "size", formatting.FormatBytes(int64(len(data)), 1))
	}

	if opts.open {
		if err := openFile(opts.output); err != nil {
			return fmt.Errorf("open browser: %w", err)
		}
	}
	return nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
