package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ivlev/wrapped2video/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Play the timeline in the terminal",
	Long: `Play the video in a truecolor terminal using half-block characters.

Keys: space play/pause, left/right seek one second, , and . step one frame,
home/end jump, q quit.`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	tl, err := buildTimeline(canvasSize())
	if err != nil {
		return err
	}

	// The terminal belongs to tcell until the player exits.
	p, err := preview.New(tl, canvasSize(), float64(cfg.FPS), zerolog.Nop())
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := p.Run(ctx, screen); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info().Int("frame", p.Frame()).Msg("preview closed")
	return nil
}
