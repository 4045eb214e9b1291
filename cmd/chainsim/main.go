package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chesedcore/evesses/pkg/engine"
	"github.com/chesedcore/evesses/pkg/export"
	"github.com/chesedcore/evesses/pkg/ruleset"
)

const version = "1.0.0"

var (
	scenarioPath string
	outputDir    string
	format       string
	verbose      bool
)

func main() {
	root := &cobra.Command{
		Use:     "chainsim",
		Short:   "Run a declarative chain scenario and export its timing history",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "Path to YAML scenario file (required)")
	root.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory for exported files")
	root.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, svg, or all")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	_ = root.MarkFlagRequired("scenario")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	switch format {
	case "json", "svg", "all":
	default:
		return fmt.Errorf("invalid format %q, must be one of: json, svg, all", format)
	}

	if verbose {
		fmt.Printf("Loading scenario from %s\n", scenarioPath)
	}
	scn, err := ruleset.LoadScenario(scenarioPath)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	opts := []engine.Option{}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		opts = append(opts, engine.WithLogger(logger))
	}
	eng := engine.New(opts...)

	effects, err := scn.Bind(eng)
	if err != nil {
		return fmt.Errorf("failed to bind scenario: %w", err)
	}

	var ctx any
	for _, eff := range effects {
		if err := eng.ActivateEffect(eff, ctx); err != nil {
			// Activation failures (forbidden, constrained) are part of
			// the scenario's story, not a tool error.
			fmt.Printf("activation rejected: %s: %v\n", eff.String(), err)
		}
	}

	if err := eng.ResolveChain(ctx); err != nil {
		return fmt.Errorf("chain resolution failed: %w", err)
	}

	history := eng.TimingHistory()
	if verbose {
		printStats(eng, len(history))
	}

	baseName := scn.Name
	if baseName == "" {
		baseName = "scenario"
	}

	if format == "json" || format == "all" {
		path := filepath.Join(outputDir, baseName+".json")
		if err := export.SaveJSONToFile(scn.Name, history, path); err != nil {
			return fmt.Errorf("failed to export JSON: %w", err)
		}
		if verbose {
			fmt.Printf("Exported JSON to %s\n", path)
		}
	}

	if format == "svg" || format == "all" {
		path := filepath.Join(outputDir, baseName+".svg")
		svgOpts := export.DefaultTimelineOptions()
		svgOpts.Title = scn.Name
		if err := export.SaveTimelineToFile(history, path, svgOpts); err != nil {
			return fmt.Errorf("failed to export SVG: %w", err)
		}
		if verbose {
			fmt.Printf("Exported SVG to %s\n", path)
		}
	}

	fmt.Printf("Resolved scenario %q: %d events committed\n", scn.Name, len(history))
	return nil
}

// printStats prints engine statistics after resolution.
func printStats(eng *engine.Engine, eventCount int) {
	stats := eng.Stats()
	fmt.Println("\nResolution statistics:")
	fmt.Printf("  Events committed: %d\n", eventCount)
	fmt.Printf("  Chain iterations: %d\n", stats.LastResolveIterations)
	fmt.Printf("  Active triggers: %d\n", stats.ActiveTriggers)
	fmt.Printf("  Active floodgates: %d\n", stats.ActiveFloodgates)
}
