package soundtrack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"

	"github.com/ivlev/wrapped2video/internal/background"
	"github.com/ivlev/wrapped2video/internal/director"
	"github.com/ivlev/wrapped2video/internal/stats"
)

func summaryTimeline(t *testing.T) *director.Timeline {
	t.Helper()
	f := &director.File{Scenes: []director.Entry{{ID: "summary", Seconds: 3}}}
	tl, err := director.Build(f, stats.Defaults(), director.BuildOptions{FPS: 30, Size: background.Size{W: 108, H: 192}})
	if err != nil {
		t.Fatal(err)
	}
	return tl
}

func TestCues(t *testing.T) {
	tl := summaryTimeline(t)
	cues := Cues(tl)
	if len(cues) < 10 {
		t.Fatalf("expected a cue per revealed character, got %d", len(cues))
	}
	for i := 1; i < len(cues); i++ {
		if cues[i] <= cues[i-1] {
			t.Fatalf("cues not strictly increasing at %d: %v", i, cues[:i+1])
		}
	}
	if cues[len(cues)-1] >= tl.Total() {
		t.Errorf("cue %d beyond the timeline", cues[len(cues)-1])
	}
}

func count(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	n := 0
	for {
		k, ok := s.Stream(buf)
		n += k
		if !ok {
			return n
		}
	}
}

func TestTrackLength(t *testing.T) {
	opts := DefaultOptions()
	s, samples, err := Track([]int{0, 15, 29}, 30, 60, opts)
	if err != nil {
		t.Fatal(err)
	}
	if samples != 96000 {
		t.Errorf("2 s at 48 kHz should be 96000 samples, got %d", samples)
	}
	if got := count(s); got != samples {
		t.Errorf("streamed %d samples, want %d", got, samples)
	}

	if _, _, err := Track(nil, 0, 60, opts); err == nil {
		t.Error("expected error for zero fps")
	}
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cues.wav")
	opts := DefaultOptions()
	opts.SampleRate = 8000
	if err := WriteWAV(path, summaryTimeline(t), 30, opts, zerolog.Nop()); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Errorf("not a WAV file: % x", data[:12])
	}
	// 3 s of 16-bit stereo at 8 kHz plus the header.
	if want := 3 * 8000 * 4; len(data) < want {
		t.Errorf("file too short: %d < %d", len(data), want)
	}
}
