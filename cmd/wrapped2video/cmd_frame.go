package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/engine"
	"github.com/ivlev/wrapped2video/internal/source"
	"github.com/ivlev/wrapped2video/internal/svg"
)

var frameFlags struct {
	at      int
	seconds float64
	out     string
}

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Render a single frame to PNG or SVG",
	Long: `Render one global frame of the timeline. The format follows the output
extension: .svg writes the frame tree as SVG, anything else writes PNG.

Examples:
  wrapped2video frame --at 420
  wrapped2video frame --seconds 12.5 -o out/summary.svg
`,
	RunE: runFrame,
}

func init() {
	f := frameCmd.Flags()
	f.IntVar(&frameFlags.at, "at", 0, "Global frame number")
	f.Float64Var(&frameFlags.seconds, "seconds", 0, "Time in seconds, instead of --at")
	f.StringVarP(&frameFlags.out, "output", "o", "", "Output file (default: output/frame_<n>.png)")
	frameCmd.MarkFlagsMutuallyExclusive("at", "seconds")
	rootCmd.AddCommand(frameCmd)
}

func runFrame(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	tl, err := buildTimeline(canvasSize())
	if err != nil {
		return err
	}

	index := frameFlags.at
	if cmd.Flags().Changed("seconds") {
		index = anim.Seconds(frameFlags.seconds, float64(cfg.FPS))
	}
	if index < 0 || index >= tl.Total() {
		logger.Warn().Int("frame", index).Int("total", tl.Total()).Msg("frame is outside the timeline; the nearest scene is held")
	}

	out := frameFlags.out
	if out == "" {
		out = filepath.Join(outputDir, fmt.Sprintf("frame_%05d.png", index))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(out), ".svg") {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := svg.Encode(f, tl.ComposeAt(index), cfg.Width, cfg.Height); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	} else {
		src, err := source.NewTimelineSource(tl, cfg.Width, cfg.Height)
		if err != nil {
			return err
		}
		img := image.NewRGBA(src.Bounds())
		if err := src.RenderFrame(index, img); err != nil {
			return err
		}
		if err := engine.WritePNG(out, img); err != nil {
			return err
		}
	}

	fmt.Printf("[+++] Frame %d written: %s\n", index, out)
	return nil
}
