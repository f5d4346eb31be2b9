package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/rs/zerolog"
)

// Options describes one ffmpeg encode of a raw RGBA frame stream.
type Options struct {
	Width, Height int
	FPS           int
	Encoder       string // libx264, h264_nvenc, h264_videotoolbox
	Quality       int
	Output        string
	// AudioPath is muxed as the audio track when set; the video is cut to
	// the shorter of the two streams.
	AudioPath string
	// Binary defaults to "ffmpeg".
	Binary string
}

// FFmpegEncoder pipes frames into an ffmpeg process.
type FFmpegEncoder struct {
	opts   Options
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	logger zerolog.Logger
	frames int
}

// NewFFmpegEncoder starts ffmpeg. Cancelling ctx kills the process.
func NewFFmpegEncoder(ctx context.Context, opts Options, logger zerolog.Logger) (*FFmpegEncoder, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.FPS <= 0 {
		return nil, fmt.Errorf("bad video geometry %dx%d@%d", opts.Width, opts.Height, opts.FPS)
	}
	if opts.Output == "" {
		return nil, errors.New("no output path")
	}
	bin := opts.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	args := BuildArgs(opts)
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	logger.Debug().Strs("args", args).Msg("ffmpeg started")

	return &FFmpegEncoder{
		opts:   opts,
		cmd:    cmd,
		stdin:  stdin,
		stderr: &stderr,
		logger: logger,
	}, nil
}

// BuildArgs returns the ffmpeg arguments for a rawvideo RGBA stream on stdin.
func BuildArgs(opts Options) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprintf("%d", opts.FPS),
		"-i", "-",
	}
	if opts.AudioPath != "" {
		args = append(args, "-i", opts.AudioPath, "-map", "0:v", "-map", "1:a", "-c:a", "aac", "-b:a", "192k", "-shortest")
	}

	encoder := opts.Encoder
	if encoder == "" {
		encoder = "libx264"
	}
	args = append(args, "-pix_fmt", "yuv420p", "-c:v", encoder)
	args = append(args, QualityArgs(encoder, opts.Quality)...)
	args = append(args, "-movflags", "+faststart", opts.Output)
	return args
}

// QualityArgs maps a quality value to encoder flags.
func QualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox does not take -q:v on every build; use bitrate.
		bitrate := quality * 100 // kbit/s, 75 -> 7.5 Mbit/s
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// WriteFrame streams one frame. Frames must arrive in order.
func (e *FFmpegEncoder) WriteFrame(index int, img *image.RGBA) error {
	if index != e.frames {
		return fmt.Errorf("frame %d out of order, expected %d", index, e.frames)
	}
	if b := img.Bounds(); b.Dx() != e.opts.Width || b.Dy() != e.opts.Height {
		return fmt.Errorf("frame %d is %dx%d, encoder expects %dx%d", index, b.Dx(), b.Dy(), e.opts.Width, e.opts.Height)
	}
	if err := writeRawRGBA(e.stdin, img); err != nil {
		return fmt.Errorf("write raw error: %w (%s)", err, e.stderr.String())
	}
	e.frames++
	return nil
}

// Close finishes the stream and waits for ffmpeg.
func (e *FFmpegEncoder) Close() error {
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, e.stderr.String())
	}
	e.logger.Debug().Int("frames", e.frames).Str("output", e.opts.Output).Msg("ffmpeg finished")
	return nil
}

// writeRawRGBA writes tightly packed RGBA rows.
func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
