package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ivlev/wrapped2video/internal/source"
	"github.com/ivlev/wrapped2video/internal/system"
	"github.com/ivlev/wrapped2video/internal/telemetry"
)

// Sink consumes frames strictly in index order.
type Sink interface {
	WriteFrame(index int, img *image.RGBA) error
	Close() error
}

// Project renders every frame of a source into a sink.
type Project struct {
	Source  source.Source
	Sink    Sink
	Workers int
	// Window bounds frames rendered but not yet written; 0 means 2*Workers.
	Window  int
	Logger  zerolog.Logger
	Metrics *telemetry.Metrics
	// Progress is called after each frame is written.
	Progress func(done, total int)
}

// Report summarizes a finished run.
type Report struct {
	Frames  int
	Workers int
	Elapsed time.Duration
	Render  time.Duration // Summed across workers
	Encode  time.Duration
}

// FPS is the effective frames per second of the run.
func (r Report) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

func (r Report) String() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Frames: %d | Workers: %d\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU, summed): %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		r.Frames, r.Workers, r.Elapsed.Seconds(), r.Render.Seconds(), r.Encode.Seconds(), r.FPS(),
	)
}

// AppendBenchmark appends a one-line summary to a log file.
func (r Report) AppendBenchmark(path, build, label string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "[%s] Build: %s | Job: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"), build, label, r.Frames,
		r.Elapsed.Seconds(), r.Render.Seconds(), r.Encode.Seconds(), r.FPS())
	return err
}

// Run renders frames in parallel and delivers them to the sink in order.
// The first error from any worker or the sink cancels the rest.
func (p *Project) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	total := p.Source.FrameCount()
	if total == 0 {
		return Report{}, errors.New("source has no frames")
	}

	workers := max(p.Workers, 1)
	window := p.Window
	if window <= 0 {
		window = 2 * workers
	}
	if window < workers {
		window = workers
	}

	rep := Report{Frames: total, Workers: workers}
	if p.Metrics != nil {
		p.Metrics.TotalFrames.Set(float64(total))
	}
	p.Logger.Info().Int("frames", total).Int("workers", workers).Msg("render started")

	bounds := p.Source.Bounds()
	pool := system.NewImagePool()
	sem := semaphore.NewWeighted(int64(window))

	type result struct {
		img *image.RGBA
		dur time.Duration
	}
	slots := make([]chan result, total)
	for i := range slots {
		slots[i] = make(chan result, 1)
	}

	g, ctx := errgroup.WithContext(ctx)

	// Dispatcher: claims a window slot per frame, then renders it on the pool.
	g.Go(func() error {
		renders, rctx := errgroup.WithContext(ctx)
		renders.SetLimit(workers)
		for i := 0; i < total; i++ {
			if err := sem.Acquire(rctx, 1); err != nil {
				break
			}
			renders.Go(func() error {
				if err := rctx.Err(); err != nil {
					return err
				}
				t0 := time.Now()
				img := pool.Get(bounds)
				if err := p.Source.RenderFrame(i, img); err != nil {
					return fmt.Errorf("render frame %d: %w", i, err)
				}
				slots[i] <- result{img: img, dur: time.Since(t0)}
				return nil
			})
		}
		return renders.Wait()
	})

	// Writer: delivers frames in index order.
	g.Go(func() error {
		for i := 0; i < total; i++ {
			var res result
			select {
			case res = <-slots[i]:
			case <-ctx.Done():
				return ctx.Err()
			}
			rep.Render += res.dur
			p.Metrics.ObserveFrame(res.dur)

			t0 := time.Now()
			if err := p.Sink.WriteFrame(i, res.img); err != nil {
				return fmt.Errorf("write frame %d: %w", i, err)
			}
			d := time.Since(t0)
			rep.Encode += d
			p.Metrics.ObserveEncode(d)

			pool.Put(res.img)
			sem.Release(1)
			if p.Progress != nil {
				p.Progress(i+1, total)
			}
		}
		return nil
	})

	err := g.Wait()
	rep.Elapsed = time.Since(start)
	if p.Metrics != nil {
		p.Metrics.RenderSeconds.Set(rep.Elapsed.Seconds())
	}
	if err != nil {
		return rep, err
	}
	p.Logger.Info().Dur("elapsed", rep.Elapsed).Float64("fps", rep.FPS()).Msg("render finished")
	return rep, nil
}

// PNGSink writes numbered PNG files into a directory.
type PNGSink struct {
	Dir    string
	Prefix string
}

// NewPNGSink creates dir when missing.
func NewPNGSink(dir string) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PNGSink{Dir: dir, Prefix: "frame_"}, nil
}

// Path is the file name of frame index.
func (s *PNGSink) Path(index int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s%05d.png", s.Prefix, index))
}

func (s *PNGSink) WriteFrame(index int, img *image.RGBA) error {
	return WritePNG(s.Path(index), img)
}

func (s *PNGSink) Close() error { return nil }

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
