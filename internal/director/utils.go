package director

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ivlev/wrapped2video/internal/system"
)

// TimelineExtensions are the file types FindLatestTimeline picks up
var TimelineExtensions = []string{".yaml", ".yml"}

// GenerateTimelinePath creates a timestamped timeline filename in dir
func GenerateTimelinePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("timeline_%s.yaml", timestamp))
}

// FindLatestTimeline finds the most recent timeline file in dir
func FindLatestTimeline(dir string) (string, error) {
	return system.FindLatest(dir, TimelineExtensions)
}
