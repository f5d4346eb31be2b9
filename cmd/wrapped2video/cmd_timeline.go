package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/wrapped2video/internal/director"
)

var timelineFlags struct {
	write bool
	dir   string
	show  bool
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print or write the scene table",
	Long: `Print the built-in scene table as YAML, or write it to a timestamped file
that later renders pick up automatically. Edit the file to reorder scenes,
change their length or pick a card effect per scene.

With --show the resolved table is listed with start and end frames.`,
	RunE: runTimeline,
}

func init() {
	f := timelineCmd.Flags()
	f.BoolVarP(&timelineFlags.write, "write", "w", false, "Write a new timeline file instead of printing it")
	f.StringVar(&timelineFlags.dir, "dir", timelinesDir, "Directory for --write")
	f.BoolVar(&timelineFlags.show, "show", false, "List the resolved scenes with their frames")
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	if timelineFlags.show {
		tl, err := buildTimeline(canvasSize())
		if err != nil {
			return err
		}
		fps := float64(cfg.FPS)
		fmt.Printf("%-16s %8s %8s %8s %8s\n", "SCENE", "START", "END", "FADE", "SECONDS")
		for _, sp := range tl.Scenes() {
			fmt.Printf("%-16s %8d %8d %8d %8.2f\n", sp.ID, sp.Start, sp.End(), sp.FadeIn, float64(sp.Duration)/fps)
		}
		fmt.Printf("%-16s %8s %8d %8s %8.2f\n", "total", "", tl.Total(), "", float64(tl.Total())/fps)
		return nil
	}

	f := director.DefaultFile(cfg.IntroSeconds, cfg.SectionSeconds)
	f.FadeSeconds = cfg.FadeSeconds

	if !timelineFlags.write {
		data, err := yaml.Marshal(f)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(timelineFlags.dir, 0755); err != nil {
		return err
	}
	path := director.GenerateTimelinePath(timelineFlags.dir)
	if err := director.WriteTimeline(f, path); err != nil {
		return err
	}
	fmt.Printf("[+++] Timeline written: %s\n", path)
	return nil
}
