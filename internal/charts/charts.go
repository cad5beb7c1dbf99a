// Package charts renders interactive HTML charts for generated decks.
package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/EDH-Companion/internal/deckgen"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string // Chart title
	Subtitle   string // Chart subtitle
	Width      string // Chart width (e.g., "900px")
	Height     string // Chart height (e.g., "500px")
	Theme      string // Chart theme
	ShowLegend bool   // Show legend
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "",
		Subtitle:   "",
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
	}
}

// pipColors maps color pip labels to display colors.
var pipColors = map[string]string{
	"W": "#F8F6D8",
	"U": "#C1D7E9",
	"B": "#BAB1AB",
	"R": "#E49977",
	"G": "#A3C095",
	"C": "#CCC2C0",
}

// RenderCurveChart writes the deck's mana curve as a bar chart HTML file.
// Buckets are labeled 0..6 and "7+".
func RenderCurveChart(stats deckgen.DeckStats, config ChartConfig, outputPath string) error {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
	)

	xLabels := make([]string, 0, 8)
	yData := make([]opts.BarData, 0, 8)
	for bucket := 0; bucket <= 7; bucket++ {
		label := fmt.Sprintf("%d", bucket)
		if bucket == 7 {
			label = "7+"
		}
		xLabels = append(xLabels, label)
		yData = append(yData, opts.BarData{Value: stats.Curve[bucket]})
	}

	bar.SetXAxis(xLabels).
		AddSeries("Cards", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(true),
			}),
		)

	return renderToFile(bar, outputPath)
}

// RenderColorPipChart writes the deck's color pip distribution as a pie
// chart HTML file.
func RenderColorPipChart(stats deckgen.DeckStats, config ChartConfig, outputPath string) error {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
	)

	labels := make([]string, 0, len(stats.ColorPips))
	for label := range stats.ColorPips {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	data := make([]opts.PieData, 0, len(labels))
	for _, label := range labels {
		count := stats.ColorPips[label]
		if count == 0 {
			continue
		}
		data = append(data, opts.PieData{
			Name:      label,
			Value:     count,
			ItemStyle: &opts.ItemStyle{Color: pipColors[label]},
		})
	}

	pie.AddSeries("Pips", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
		)

	return renderToFile(pie, outputPath)
}

// renderer is the common surface of go-echarts chart types.
type renderer interface {
	Render(w io.Writer) error
}

func renderToFile(chart renderer, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
