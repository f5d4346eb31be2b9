package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{"old.yaml", "new.JSON", "notes.txt", "mid.yml"}
	for i, name := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
		mod := time.Now().Add(time.Duration(i) * time.Hour)
		if name == "new.JSON" {
			mod = time.Now().Add(10 * time.Hour)
		}
		os.Chtimes(p, mod, mod)
	}

	got, err := FindLatest(dir, StatsExtensions)
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if filepath.Base(got) != "new.JSON" {
		t.Errorf("got %s, want new.JSON", got)
	}

	if _, err := FindLatest(dir, AudioExtensions); err == nil {
		t.Error("expected error when no audio exists")
	}
}

func TestPickEncoder(t *testing.T) {
	tests := []struct {
		list string
		want string
	}{
		{" V....D h264_nvenc  NVIDIA NVENC H.264 encoder", "h264_nvenc"},
		{" V....D h264_videotoolbox VideoToolbox\n V....D h264_nvenc", "h264_videotoolbox"},
		{" V....D libx264", "libx264"},
		{"", "libx264"},
	}
	for _, tt := range tests {
		if got := pickEncoder(tt.list); got != tt.want {
			t.Errorf("pickEncoder(%q) = %s, want %s", tt.list, got, tt.want)
		}
	}
}

func TestWorkerCount(t *testing.T) {
	if got := WorkerCount(3, 1<<20); got != 3 {
		t.Errorf("requested workers should win, got %d", got)
	}
	if got := WorkerCount(0, 1080*1920*4); got < 1 {
		t.Errorf("worker count must be at least 1, got %d", got)
	}
	if _, err := mem.VirtualMemory(); err != nil {
		t.Skipf("memory stats unavailable: %v", err)
	}
	// Absurd frames still leave one worker.
	if got := WorkerCount(0, 1<<40); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestImagePool(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 4, 4)
	img := p.Get(rect)
	if img.Rect != rect {
		t.Fatalf("wrong size %v", img.Rect)
	}
	p.Put(img)
	p.Put(image.NewRGBA(image.Rect(0, 0, 9, 9)))
	p.Put(nil)

	if got := p.Get(rect); got.Rect != rect {
		t.Errorf("wrong size after reuse %v", got.Rect)
	}
}
