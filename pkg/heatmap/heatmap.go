// Package heatmap renders alignment results as a self-contained HTML page
// that draws a Plotly heatmap loaded from a CDN.
package heatmap

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/JaimeStill/accord/pkg/alignment"
)

//go:embed heatmap.html
var templateFS embed.FS

var page = template.Must(template.ParseFS(templateFS, "heatmap.html"))

const (
	DefaultTitle     = "Voting Alignment Heatmap"
	DefaultXTitle    = "Voter X"
	DefaultYTitle    = "Voter Y"
	DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

	minSize   = 600
	cellSize  = 20
	axisSpace = 200
)

// Options controls page text and the Plotly bundle location.
// Zero values fall back to the package defaults.
type Options struct {
	Title     string
	XTitle    string
	YTitle    string
	PlotlyURL string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.XTitle == "" {
		o.XTitle = DefaultXTitle
	}
	if o.YTitle == "" {
		o.YTitle = DefaultYTitle
	}
	if o.PlotlyURL == "" {
		o.PlotlyURL = DefaultPlotlyURL
	}
	return o
}

type trace struct {
	X    []string     `json:"x"`
	Y    []string     `json:"y"`
	Z    [][]*float64 `json:"z"`
	Text [][]string   `json:"text"`
}

type pageData struct {
	Options
	Size     int
	Base     trace
	Diagonal trace
}

// Render writes the heatmap page for res to w. Masked cells are drawn as
// white tiles that keep their hover text.
func Render(w io.Writer, res *alignment.Result, opts Options) error {
	if res == nil {
		return fmt.Errorf("render heatmap: %w", alignment.ErrInvalidVoteTable)
	}

	grid := res.Transpose()
	n := len(grid.Y)

	data := pageData{
		Options: opts.withDefaults(),
		Size:    max(minSize, n*cellSize+axisSpace),
		Base: trace{
			X:    grid.X,
			Y:    grid.Y,
			Z:    grid.Z,
			Text: make([][]string, n),
		},
		Diagonal: trace{
			X:    grid.X,
			Y:    grid.Y,
			Z:    make([][]*float64, n),
			Text: make([][]string, n),
		},
	}

	zero := 0.0
	for j := range n {
		data.Base.Text[j] = make([]string, len(grid.X))
		data.Diagonal.Z[j] = make([]*float64, len(grid.X))
		data.Diagonal.Text[j] = make([]string, len(grid.X))

		for i := range grid.X {
			text := hoverText(grid.Text[j][i])
			data.Base.Text[j][i] = text
			if grid.Masked[j][i] {
				data.Diagonal.Z[j][i] = &zero
				data.Diagonal.Text[j][i] = text
			}
		}
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}
	return nil
}

func hoverText(label string) string {
	if label == "" {
		return ""
	}
	lines := strings.Split(label, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br>")
}
