// Package main provides the command-line deck generator.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/app"
	"github.com/ramonehamilton/EDH-Companion/internal/charts"
	"github.com/ramonehamilton/EDH-Companion/internal/config"
	"github.com/ramonehamilton/EDH-Companion/internal/deckgen"
	"github.com/ramonehamilton/EDH-Companion/internal/export"
	"github.com/ramonehamilton/EDH-Companion/internal/version"
)

var (
	commander = flag.String("commander", "", "Commander card name (required)")
	partner   = flag.String("partner", "", "Partner commander card name")
	format    = flag.String("format", "100", "Deck format: 40, 60, or 100")
	themes    = flag.String("themes", "", "Comma-separated theme slugs to blend")

	lands     = flag.Int("lands", 0, "Total land count (0 = format default)")
	nonBasics = flag.Int("non-basics", 0, "Preferred non-basic land count when statistics are unavailable")

	ban     = flag.String("ban", "", "Comma-separated card names to exclude")
	include = flag.String("include", "", "Comma-separated card names to force into the deck")

	priceCap       = flag.Float64("price-cap", 0, "Maximum price per card in USD (0 = no cap)")
	budgetTier     = flag.String("budget", "", "Budget tier filter for recommendations")
	bracket        = flag.Int("bracket", 0, "Power-level bracket filter (0 = none)")
	gameChangerCap = flag.Int("game-changer-cap", -1, "Maximum game changer cards (-1 = unlimited)")

	exportPath   = flag.String("export", "", "Write the decklist to this file instead of stdout")
	exportFormat = flag.String("export-format", "text", "Export format: text or json")
	chartsDir    = flag.String("charts", "", "Write curve and color charts into this directory")
	openCharts   = flag.Bool("open", false, "Open the generated charts in the default browser")

	configPath  = flag.String("config", "", "Path to config file (default: ~/.edh-companion/config.toml)")
	quiet       = flag.Bool("quiet", false, "Suppress progress output")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetVersion())
		return
	}

	if *commander == "" {
		fmt.Fprintln(os.Stderr, "Error: -commander is required")
		flag.Usage()
		os.Exit(2)
	}

	deckFormat, err := parseFormat(*format)
	if err != nil {
		log.Fatalf("Invalid format: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Printf("Error closing services: %v", err)
		}
	}()

	cust := deckgen.Customization{
		Format:         deckFormat,
		LandCount:      *lands,
		NonBasicLands:  *nonBasics,
		BannedNames:    splitList(*ban),
		MustInclude:    splitList(*include),
		PriceCap:       *priceCap,
		BudgetTier:     *budgetTier,
		Bracket:        *bracket,
		GameChangerCap: *gameChangerCap,
	}

	var progress deckgen.ProgressFunc
	if !*quiet {
		progress = func(stage string, percent int) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, stage)
		}
	}

	deck, err := application.Generator.GenerateByName(
		context.Background(), *commander, *partner, cust, splitList(*themes), progress)
	if err != nil {
		log.Fatalf("Deck generation failed: %v", err)
	}

	if err := writeDeck(deck); err != nil {
		log.Fatalf("Failed to write deck: %v", err)
	}

	if *chartsDir != "" {
		if err := writeCharts(deck); err != nil {
			log.Fatalf("Failed to write charts: %v", err)
		}
	}
}

func writeDeck(deck *deckgen.GeneratedDeck) error {
	deckFormat := export.DeckFormat(*exportFormat)
	if *exportPath != "" {
		return export.ExportDeck(deck, deckFormat, *exportPath)
	}
	return export.WriteDeck(os.Stdout, deck, deckFormat)
}

func writeCharts(deck *deckgen.GeneratedDeck) error {
	if err := os.MkdirAll(*chartsDir, 0o755); err != nil {
		return fmt.Errorf("create charts directory: %w", err)
	}

	curveConfig := charts.DefaultChartConfig()
	curveConfig.Title = "Mana Curve"
	curvePath := filepath.Join(*chartsDir, "curve.html")
	if err := charts.RenderCurveChart(deck.Stats, curveConfig, curvePath); err != nil {
		return err
	}

	pipConfig := charts.DefaultChartConfig()
	pipConfig.Title = "Color Pips"
	pipPath := filepath.Join(*chartsDir, "colors.html")
	if err := charts.RenderColorPipChart(deck.Stats, pipConfig, pipPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Charts written to %s\n", *chartsDir)

	if *openCharts {
		for _, path := range []string{curvePath, pipPath} {
			if err := charts.OpenInBrowser(path); err != nil {
				fmt.Fprintf(os.Stderr, "Could not open %s: %v\n", path, err)
			}
		}
	}
	return nil
}

func parseFormat(name string) (deckgen.Format, error) {
	switch name {
	case "100", "100-card":
		return deckgen.Format100, nil
	case "60", "60-card":
		return deckgen.Format60, nil
	case "40", "40-card":
		return deckgen.Format40, nil
	default:
		return 0, fmt.Errorf("unknown format %q (want 40, 60, or 100)", name)
	}
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.LoadFrom(*configPath)
	}
	return config.Load()
}

// splitList parses a comma-separated flag value, trimming blanks.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
