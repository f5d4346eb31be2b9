package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New("job-1")
	m.ObserveFrame(5 * time.Millisecond)
	m.ObserveFrame(7 * time.Millisecond)
	m.ObserveEncode(time.Millisecond)

	if got := testutil.ToFloat64(m.FramesRendered); got != 2 {
		t.Errorf("frames rendered = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(m.FrameSeconds); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveFrame(time.Second)
	m.ObserveEncode(time.Second)
}

func TestWriteTextfile(t *testing.T) {
	m := New("job-2")
	m.TotalFrames.Set(3360)
	m.ObserveFrame(time.Millisecond)

	path := filepath.Join(t.TempDir(), "wrapped.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`wrapped_timeline_frames{job_id="job-2"} 3360`, "wrapped_frames_rendered_total"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}
