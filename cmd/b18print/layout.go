package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/b18print/internal/catalog"
	"github.com/vovakirdan/b18print/internal/game"
	"github.com/vovakirdan/b18print/internal/geometry"
	"github.com/vovakirdan/b18print/internal/pipeline"
	"github.com/vovakirdan/b18print/internal/tiles"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <game>",
	Short: "Show computed sheet metrics for a game",
	Long: `Print the map, market, par and revenue metrics of a game together with
the capture plan, without starting a server or a browser.

Examples:
  b18print layout 1889`,
	Args: cobra.ExactArgs(1),
	Run:  runLayout,
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(14)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func runLayout(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	name := args[0]

	spec, err := game.LoadByName(cfg.Paths.GamesDir, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cat, err := catalog.Open(cfg.Paths.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tile catalog: %v\n", err)
		os.Exit(1)
	}
	market, err := geometry.Market(spec.Stock, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	metrics := pipeline.Metrics{
		Map:    geometry.Map(spec, cfg),
		Market: market,
		Tiles:  tiles.Build(spec, cat),
		Tokens: tiles.Tokens(spec),
	}
	par := geometry.Par(spec.Stock, cfg)
	revenue := geometry.Revenue(spec.Revenue, cfg)

	mapBox := section("Map",
		row("orientation", orientation(metrics.Map.Horizontal)),
		row("grid", fmt.Sprintf("%d x %d", metrics.Map.Columns, metrics.Map.Rows)),
		row("size", size(metrics.Map.TotalWidth, metrics.Map.TotalHeight)),
		row("print", metrics.Map.HumanWidth+" x "+metrics.Map.HumanHeight),
	)
	marketBox := section("Market",
		row("type", market.Type.String()),
		row("cells", fmt.Sprintf("%d x %d", market.Columns, market.Rows)),
		row("cell", size(market.Width, market.Height)),
		row("size", size(market.TotalWidth, market.TotalHeight)),
		row("print", market.HumanWidth+" x "+market.HumanHeight),
	)
	parBox := section("Par",
		row("cells", fmt.Sprintf("%d x %d", par.Columns, par.Rows)),
		row("size", size(par.TotalWidth, par.TotalHeight)),
	)
	revenueBox := section("Revenue",
		row("range", fmt.Sprintf("%d..%d", revenue.Min, revenue.Max)),
		row("cells", fmt.Sprintf("%d x %d", revenue.Columns, revenue.Rows)),
		row("size", size(revenue.TotalWidth, revenue.TotalHeight)),
	)

	title := spec.Info.Title
	if title == "" {
		title = name
	}
	fmt.Println(headingStyle.Render(title))
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, mapBox, " ", marketBox))
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, parBox, " ", revenueBox))

	var plan strings.Builder
	for _, job := range pipeline.Plan(pipeline.NewLayout(cfg.Render.OutputDir, name, "<version>"), metrics, cfg) {
		fmt.Fprintf(&plan, "%-14s %5d x %-5d %s\n", job.Name, job.Width, job.Height, job.URL)
	}
	fmt.Println(section("Captures", strings.TrimRight(plan.String(), "\n")))

	for _, id := range metrics.Tiles.Skipped {
		fmt.Fprintf(os.Stderr, "Warning: tile %s has no catalog entry and is skipped\n", id)
	}
}

func section(title string, rows ...string) string {
	return boxStyle.Render(headingStyle.Render(title) + "\n" + strings.Join(rows, "\n"))
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func size(w, h float64) string {
	return fmt.Sprintf("%v x %v px", math.Ceil(w), math.Ceil(h))
}

func orientation(horizontal bool) string {
	if horizontal {
		return game.OrientationHorizontal
	}
	return game.OrientationVertical
}
