package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/wrapped2video/internal/analyzer"
	"github.com/ivlev/wrapped2video/internal/stats"
)

var validateFlags struct {
	layout   bool
	margin   float64
	detector string
}

var validateCmd = &cobra.Command{
	Use:   "validate [stats-file]",
	Short: "Check a stats file and, optionally, the scene layout",
	Long: `Validate a stats file against the schema and report every missing,
unknown or mistyped field at once.

With --layout, the settled frame of every scene is rendered and content
outside the safe area is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.BoolVar(&validateFlags.layout, "layout", false, "Also check scene content against the safe area")
	f.Float64Var(&validateFlags.margin, "margin", 0.04, "Safe margin as a fraction of the shorter canvas side")
	f.StringVar(&validateFlags.detector, "detector", "edge", "Content detector: edge, luma")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Stats = args[0]
	}

	path := statsPath()
	if path == "" {
		return fmt.Errorf("no stats file given and none found in %s", statsDir)
	}
	if _, err := stats.Load(path); err != nil {
		ve, ok := stats.IsValidation(err)
		if !ok {
			return err
		}
		fmt.Printf("[-] %s has %d problem(s):\n", path, len(ve))
		for _, e := range ve {
			fmt.Printf("    %s: %s\n", e.Field, e.Problem)
		}
		return fmt.Errorf("%s is not valid", path)
	}
	fmt.Printf("[+] %s is valid\n", path)

	if !validateFlags.layout {
		return nil
	}
	det, err := analyzer.NewDetector(validateFlags.detector)
	if err != nil {
		return err
	}
	tl, err := buildTimeline(canvasSize())
	if err != nil {
		return err
	}
	findings, err := analyzer.CheckLayout(tl, analyzer.LayoutOptions{
		Size:     canvasSize(),
		Margin:   validateFlags.margin,
		Detector: det,
	})
	if err != nil {
		return err
	}

	warnings := 0
	for _, f := range findings {
		for _, b := range f.Overflow {
			fmt.Printf("[!] %s frame %d: content at %v leaves the safe area\n", f.Scene, f.Frame, b.Rect)
			warnings++
		}
	}
	if warnings == 0 {
		fmt.Printf("[+] Layout of %d scene(s) fits the safe area\n", len(findings))
	}
	return nil
}
