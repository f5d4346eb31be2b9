package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ivlev/wrapped2video/internal/background"
	"github.com/ivlev/wrapped2video/internal/config"
	"github.com/ivlev/wrapped2video/internal/director"
	"github.com/ivlev/wrapped2video/internal/logging"
	"github.com/ivlev/wrapped2video/internal/stats"
	"github.com/ivlev/wrapped2video/internal/system"
)

// BuildVersion is stamped with -ldflags "-X main.BuildVersion=...".
var BuildVersion = "dev"

// Input directories scanned when no explicit file is given.
const (
	statsDir     = "input/stats"
	timelinesDir = "input/timelines"
	audioDir     = "input/audio"
	outputDir    = "output"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
	global globalFlags
)

type globalFlags struct {
	configPath string
	preset     string
	env        string
	width      int
	height     int
	fps        int
	stats      string
	timeline   string
	variant    string
	palette    string
	cardEffect string
	fade       float64
	shareURL   string
}

var rootCmd = &cobra.Command{
	Use:   "wrapped2video",
	Short: "Render a Solana Wrapped year-in-review video",
	Long: `wrapped2video turns a wallet's yearly stats into an animated portrait video:
an intro followed by summary, NFT, token, DeFi and connections scenes.

Settings come from defaults, an optional YAML file (--config), WRAPPED_*
environment variables and flags, in increasing order of precedence.`,
	Version:       BuildVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&global.configPath, "config", "", "YAML config file")
	f.StringVar(&global.preset, "preset", "", "Canvas preset: 9:16, 16:9, 4:5")
	f.StringVar(&global.env, "env", "", "Environment: production or development (debug logs)")
	f.IntVar(&global.width, "width", 0, "Canvas width")
	f.IntVar(&global.height, "height", 0, "Canvas height")
	f.IntVar(&global.fps, "fps", 0, "Frames per second")
	f.StringVar(&global.stats, "stats", "", "Stats file (default: newest file in "+statsDir+")")
	f.StringVar(&global.timeline, "timeline", "", "Timeline file (default: newest file in "+timelinesDir+", else built in)")
	f.StringVar(&global.variant, "variant", "", "Composition: sunrise, dawn-to-noon, palette")
	f.StringVar(&global.palette, "palette", "", "Palette for the palette variant: dark, light, dusk, twilight, blackAndWhite")
	f.StringVar(&global.cardEffect, "card-effect", "", "Card entrance: fade, slide-left, slide-right, slide-up, rotate, scale")
	f.Float64Var(&global.fade, "fade", 0, "Crossfade between scenes in seconds")
	f.StringVar(&global.shareURL, "share-url", "", "Adds a QR code for this link to the closing scene")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, environment and flags, then
// validates the result and sets up logging.
func loadConfig(cmd *cobra.Command) error {
	c := config.Default()
	if global.configPath != "" {
		var err error
		if c, err = config.LoadFile(global.configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if global.preset != "" {
		if err := c.ApplyPreset(global.preset); err != nil {
			return err
		}
	}
	applyGlobalFlags(cmd.Flags(), c)
	c.BuildVersion = BuildVersion

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config:\n%w", err)
	}
	cfg = c
	logger = logging.Setup(cfg.Environment)
	return nil
}

func applyGlobalFlags(fs *pflag.FlagSet, c *config.Config) {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("env", func() { c.Environment = global.env })
	set("width", func() { c.Width = global.width })
	set("height", func() { c.Height = global.height })
	set("fps", func() { c.FPS = global.fps })
	set("stats", func() { c.Stats = global.stats })
	set("timeline", func() { c.Timeline = global.timeline })
	set("variant", func() { c.Variant = global.variant })
	set("palette", func() { c.Palette = global.palette })
	set("card-effect", func() { c.CardEffect = global.cardEffect })
	set("fade", func() { c.FadeSeconds = global.fade })
	set("share-url", func() { c.ShareURL = global.shareURL })
}

func canvasSize() background.Size {
	return background.Size{W: float64(cfg.Width), H: float64(cfg.Height)}
}

// statsPath resolves the stats file: explicit, else newest in statsDir.
// Empty means none was found.
func statsPath() string {
	if cfg.Stats != "" {
		return cfg.Stats
	}
	latest, err := system.FindLatest(statsDir, system.StatsExtensions)
	if err != nil {
		return ""
	}
	logger.Info().Str("path", latest).Msg("stats file selected")
	return latest
}

func loadStats() (stats.Wrapped, error) {
	path := statsPath()
	if path == "" {
		logger.Warn().Str("dir", statsDir).Msg("no stats file found, using sample stats")
		return stats.Defaults(), nil
	}
	return stats.Load(path)
}

func loadTimelineFile() (*director.File, error) {
	if cfg.Timeline != "" {
		return director.ReadTimeline(cfg.Timeline)
	}
	if latest, err := director.FindLatestTimeline(timelinesDir); err == nil {
		logger.Info().Str("path", latest).Msg("timeline file selected")
		return director.ReadTimeline(latest)
	}
	return director.DefaultFile(cfg.IntroSeconds, cfg.SectionSeconds), nil
}

// buildTimeline loads stats and the scene table and lays them out for size.
func buildTimeline(size background.Size) (*director.Timeline, error) {
	s, err := loadStats()
	if err != nil {
		return nil, err
	}
	f, err := loadTimelineFile()
	if err != nil {
		return nil, err
	}
	tl, err := director.Build(f, s, director.BuildOptions{
		FPS:         float64(cfg.FPS),
		Size:        size,
		Variant:     cfg.Variant,
		Palette:     cfg.Palette,
		CardEffect:  cfg.CardEffect,
		ShareURL:    cfg.ShareURL,
		FadeSeconds: cfg.FadeSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("build timeline: %w", err)
	}
	logger.Debug().Int("frames", tl.Total()).Int("scenes", len(tl.Scenes())).Msg("timeline built")
	return tl, nil
}
