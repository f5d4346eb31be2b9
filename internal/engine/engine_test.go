package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"image"
	"image/color"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivlev/wrapped2video/internal/background"
	"github.com/ivlev/wrapped2video/internal/director"
	"github.com/ivlev/wrapped2video/internal/source"
	"github.com/ivlev/wrapped2video/internal/stats"
	"github.com/ivlev/wrapped2video/internal/telemetry"
)

// fakeSource paints frame i with gray level i and finishes later frames
// first to shake out ordering bugs.
type fakeSource struct {
	frames int
	failAt int
	calls  atomic.Int32
}

func (s *fakeSource) FrameCount() int         { return s.frames }
func (s *fakeSource) Bounds() image.Rectangle { return image.Rect(0, 0, 2, 2) }
func (s *fakeSource) Close() error            { return nil }

func (s *fakeSource) RenderFrame(i int, dst *image.RGBA) error {
	s.calls.Add(1)
	if i == s.failAt {
		return errors.New("boom")
	}
	time.Sleep(time.Duration((s.frames-i)%4) * time.Millisecond)
	dst.Set(0, 0, color.RGBA{uint8(i), 0, 0, 255})
	return nil
}

// hashSink records a digest per frame and checks ordering.
type hashSink struct {
	hashes [][32]byte
	first  []uint8
	failAt int
}

func (s *hashSink) WriteFrame(i int, img *image.RGBA) error {
	if i == s.failAt {
		return errors.New("disk full")
	}
	if i != len(s.hashes) {
		return errors.New("out of order")
	}
	s.hashes = append(s.hashes, sha256.Sum256(img.Pix))
	s.first = append(s.first, img.Pix[0])
	return nil
}

func (s *hashSink) Close() error { return nil }

func TestRunDeliversInOrder(t *testing.T) {
	src := &fakeSource{frames: 40, failAt: -1}
	sink := &hashSink{failAt: -1}
	var progress int

	p := &Project{Source: src, Sink: sink, Workers: 4, Logger: zerolog.Nop(),
		Metrics: telemetry.New("test"), Progress: func(done, total int) { progress = done }}
	rep, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.Frames != 40 || progress != 40 {
		t.Errorf("frames %d, progress %d", rep.Frames, progress)
	}
	for i, v := range sink.first {
		if int(v) != i {
			t.Fatalf("frame %d carries %d", i, v)
		}
	}
	t.Logf("\n%s", rep)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name     string
		srcFail  int
		sinkFail int
		want     string
	}{
		{"render", 5, -1, "render frame 5"},
		{"sink", -1, 3, "write frame 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Project{
				Source:  &fakeSource{frames: 200, failAt: tt.srcFail},
				Sink:    &hashSink{failAt: tt.sinkFail},
				Workers: 3,
				Logger:  zerolog.Nop(),
			}
			_, err := p.Run(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q error, got %v", tt.want, err)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakeSource{frames: 100, failAt: -1}
	p := &Project{Source: src, Sink: &hashSink{failAt: -1}, Workers: 2, Logger: zerolog.Nop()}
	if _, err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if n := src.calls.Load(); n > 4 {
		t.Errorf("cancelled run still rendered %d frames", n)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	f := &director.File{Scenes: []director.Entry{{ID: "intro", Seconds: 1}, {ID: "token-activity", Seconds: 1}}}
	tl, err := director.Build(f, stats.Defaults(), director.BuildOptions{FPS: 12, Size: background.Size{W: 54, H: 96}})
	if err != nil {
		t.Fatal(err)
	}

	run := func(workers int) [][32]byte {
		src, err := source.NewTimelineSource(tl, 54, 96)
		if err != nil {
			t.Fatal(err)
		}
		sink := &hashSink{failAt: -1}
		p := &Project{Source: src, Sink: sink, Workers: workers, Logger: zerolog.Nop()}
		if _, err := p.Run(context.Background()); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		return sink.hashes
	}

	seq, par := run(1), run(4)
	if len(seq) != tl.Total() || len(par) != len(seq) {
		t.Fatalf("frame counts %d / %d, want %d", len(seq), len(par), tl.Total())
	}
	for i := range seq {
		if seq[i] != par[i] {
			t.Errorf("frame %d differs between sequential and parallel export", i)
		}
	}
}

func TestPNGSink(t *testing.T) {
	sink, err := NewPNGSink(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := &Project{Source: &fakeSource{frames: 3, failAt: -1}, Sink: sink, Workers: 2, Logger: zerolog.Nop()}
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := os.Stat(sink.Path(i)); err != nil {
			t.Errorf("frame %d missing: %v", i, err)
		}
	}
	if !strings.HasSuffix(sink.Path(12), "frame_00012.png") {
		t.Errorf("unexpected name %s", sink.Path(12))
	}
}
