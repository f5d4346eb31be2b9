package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ivlev/wrapped2video/internal/director"
	"github.com/ivlev/wrapped2video/internal/engine"
	"github.com/ivlev/wrapped2video/internal/logging"
	"github.com/ivlev/wrapped2video/internal/publish"
	"github.com/ivlev/wrapped2video/internal/soundtrack"
	"github.com/ivlev/wrapped2video/internal/source"
	"github.com/ivlev/wrapped2video/internal/system"
	"github.com/ivlev/wrapped2video/internal/telemetry"
	"github.com/ivlev/wrapped2video/internal/video"
)

var renderFlags struct {
	output        string
	framesDir     string
	workers       int
	encoder       string
	quality       int
	audio         string
	soundtrack    bool
	metricsFile   string
	publishBucket string
	publishPrefix string
	benchmark     string
	showStats     bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the full video",
	Long: `Render every frame of the timeline and encode it with ffmpeg, or write a
numbered PNG sequence with --frames-dir.

Examples:
  # Portrait video from the newest stats file in input/stats
  wrapped2video render

  # Square-ish feed format with a crossfade and a share code
  wrapped2video render --preset 4:5 --fade 0.5 --share-url https://example.com/w/123

  # Frames only
  wrapped2video render --frames-dir out/frames
`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.output, "output", "o", "", "Video path (default: output/wrapped_<time>.mp4)")
	f.StringVar(&renderFlags.framesDir, "frames-dir", "", "Write PNG frames here instead of a video")
	f.IntVar(&renderFlags.workers, "workers", 0, "Render workers (0: from CPUs and memory)")
	f.StringVar(&renderFlags.encoder, "encoder", "", "libx264, h264_nvenc, h264_videotoolbox (default: probe ffmpeg)")
	f.IntVar(&renderFlags.quality, "quality", 0, "Quality (0: auto; x264 CRF 1-51, VideoToolbox bitrate = Q*100 kbit/s)")
	f.StringVar(&renderFlags.audio, "audio", "", "Audio track to mux in")
	f.BoolVar(&renderFlags.soundtrack, "soundtrack", true, "Generate reveal cue tones when no audio is given")
	f.StringVar(&renderFlags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	f.StringVar(&renderFlags.publishBucket, "publish-bucket", "", "Upload the video to this S3 bucket")
	f.StringVar(&renderFlags.publishPrefix, "publish-prefix", "", "Key prefix for uploads")
	f.StringVar(&renderFlags.benchmark, "benchmark", "", "Append a one-line timing summary to this file")
	f.BoolVar(&renderFlags.showStats, "show-stats", false, "Print the performance report")
	rootCmd.AddCommand(renderCmd)
}

func applyRenderFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	if fs.Changed("output") {
		cfg.OutputVideo = renderFlags.output
	}
	if fs.Changed("frames-dir") {
		cfg.FramesDir = renderFlags.framesDir
	}
	if fs.Changed("workers") {
		cfg.Workers = renderFlags.workers
	}
	if fs.Changed("encoder") {
		cfg.VideoEncoder = renderFlags.encoder
	}
	if fs.Changed("quality") {
		cfg.Quality = renderFlags.quality
	}
	if fs.Changed("audio") {
		cfg.AudioPath = renderFlags.audio
	}
	if fs.Changed("soundtrack") {
		cfg.Soundtrack = renderFlags.soundtrack
	}
	if fs.Changed("metrics-file") {
		cfg.MetricsFile = renderFlags.metricsFile
	}
	if fs.Changed("publish-bucket") {
		cfg.Publish.Bucket = renderFlags.publishBucket
	}
	if fs.Changed("publish-prefix") {
		cfg.Publish.Prefix = renderFlags.publishPrefix
	}
	if fs.Changed("show-stats") {
		cfg.ShowStats = renderFlags.showStats
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	applyRenderFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config:\n%w", err)
	}

	jobID := uuid.NewString()
	log := logger.With().Str("job_id", jobID).Logger()
	system.InitResourceLimits(log)
	for _, d := range []string{statsDir, timelinesDir, audioDir, outputDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tl, err := buildTimeline(canvasSize())
	if err != nil {
		return err
	}
	src, err := source.NewTimelineSource(tl, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer src.Close()

	var (
		sink   engine.Sink
		output string
	)
	if cfg.FramesDir != "" {
		output = cfg.FramesDir
		if sink, err = engine.NewPNGSink(cfg.FramesDir); err != nil {
			return err
		}
	} else {
		output = cfg.OutputVideo
		if output == "" {
			output = filepath.Join(outputDir, fmt.Sprintf("wrapped_%s.mp4", time.Now().Format("2006-01-02_15-04-05")))
		}

		encoder := cfg.VideoEncoder
		if encoder == "" {
			encoder = system.GetBestH264Encoder(ctx)
			if encoder != "libx264" {
				log.Info().Str("encoder", encoder).Msg("hardware acceleration detected")
			}
		}

		audio, cleanup, err := pickAudio(ctx, tl, log)
		if err != nil {
			return err
		}
		defer cleanup()

		enc, err := video.NewFFmpegEncoder(ctx, video.Options{
			Width:     cfg.Width,
			Height:    cfg.Height,
			FPS:       cfg.FPS,
			Encoder:   encoder,
			Quality:   cfg.QualityFor(encoder),
			Output:    output,
			AudioPath: audio,
		}, logging.Component(log, "ffmpeg"))
		if err != nil {
			return err
		}
		sink = enc
	}

	metrics := telemetry.New(jobID)
	project := &engine.Project{
		Source:   src,
		Sink:     sink,
		Workers:  system.WorkerCount(cfg.Workers, cfg.Width*cfg.Height*4),
		Logger:   logging.Component(log, "engine"),
		Metrics:  metrics,
		Progress: progressPrinter(os.Stderr),
	}

	rep, runErr := project.Run(ctx)
	closeErr := sink.Close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("finish %s: %w", output, closeErr)
	}

	if cfg.ShowStats {
		fmt.Print(rep.String())
	}
	if renderFlags.benchmark != "" {
		if err := rep.AppendBenchmark(renderFlags.benchmark, cfg.BuildVersion, jobID); err != nil {
			log.Warn().Err(err).Msg("could not write benchmark line")
		}
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("could not write metrics")
		}
	}

	if cfg.Publish.Enabled() {
		if cfg.FramesDir != "" {
			log.Warn().Msg("publishing is skipped for frame sequences")
		} else {
			client, err := publish.NewS3Client(ctx, cfg.Publish)
			if err != nil {
				return err
			}
			loc, err := publish.New(client, cfg.Publish.Bucket, cfg.Publish.Prefix, logging.Component(log, "publish")).
				Upload(ctx, jobID, output)
			if err != nil {
				return err
			}
			fmt.Printf("[*] Published: %s\n", loc)
		}
	}

	fmt.Printf("[+++] Success! Result: %s\n", output)
	return nil
}

// pickAudio chooses the audio track: an explicit file, else the newest file
// in audioDir, else the generated cue track. cleanup removes generated files
// once the encoder is done.
func pickAudio(ctx context.Context, tl *director.Timeline, log zerolog.Logger) (string, func(), error) {
	cleanup := func() {}
	if cfg.AudioPath != "" {
		checkAudioLength(ctx, cfg.AudioPath, tl, log)
		return cfg.AudioPath, cleanup, nil
	}

	if latest, err := system.FindLatest(audioDir, system.AudioExtensions); err == nil {
		log.Info().Str("path", latest).Msg("audio selected")
		checkAudioLength(ctx, latest, tl, log)
		return latest, cleanup, nil
	}

	if !cfg.Soundtrack {
		return "", cleanup, nil
	}
	dir, err := os.MkdirTemp("", "wrapped-cues-*")
	if err != nil {
		return "", cleanup, err
	}
	path := filepath.Join(dir, "cues.wav")
	if err := soundtrack.WriteWAV(path, tl, float64(cfg.FPS), soundtrack.DefaultOptions(), logging.Component(log, "soundtrack")); err != nil {
		os.RemoveAll(dir)
		return "", cleanup, fmt.Errorf("cue track: %w", err)
	}
	return path, func() { os.RemoveAll(dir) }, nil
}

// checkAudioLength warns when the audio would cut the video short.
func checkAudioLength(ctx context.Context, path string, tl *director.Timeline, log zerolog.Logger) {
	dur, err := system.GetAudioDuration(ctx, path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not read audio duration")
		return
	}
	videoDur := float64(tl.Total()) / float64(cfg.FPS)
	if dur < videoDur {
		log.Warn().Float64("audio_s", dur).Float64("video_s", videoDur).Msg("audio is shorter than the video; output stops with the audio")
	}
}

// progressPrinter reports progress roughly every percent.
func progressPrinter(w io.Writer) func(done, total int) {
	return func(done, total int) {
		step := max(total/100, 1)
		if done%step != 0 && done != total {
			return
		}
		fmt.Fprintf(w, "\r[*] Rendering: %d/%d (%.0f%%)", done, total, 100*float64(done)/float64(total))
		if done == total {
			fmt.Fprintln(w)
		}
	}
}
