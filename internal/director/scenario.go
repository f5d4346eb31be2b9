package director

import "github.com/ivlev/wrapped2video/internal/scenes"

// FileVersion is written into new timeline files
const FileVersion = "1"

// File is the editable scene table of a video
type File struct {
	Version string `yaml:"version"`
	// FadeSeconds overlaps consecutive scenes and fades the entering one in
	FadeSeconds float64 `yaml:"fade_seconds,omitempty"`
	Scenes      []Entry `yaml:"scenes"`
}

// Entry places one scene in running order
type Entry struct {
	ID      string  `yaml:"id"`
	Seconds float64 `yaml:"seconds"` // Duration in seconds
	// Effect overrides the card entrance mode for this scene
	Effect string `yaml:"effect,omitempty"`
	// Easing shapes this scene's card entrances, e.g. "out-back"
	Easing string `yaml:"easing,omitempty"`
}

// DefaultFile is the stock running order: a short intro and five sections
func DefaultFile(introSeconds, sectionSeconds float64) *File {
	f := &File{Version: FileVersion}
	for _, id := range scenes.IDs {
		secs := sectionSeconds
		if id == scenes.Intro {
			secs = introSeconds
		}
		f.Scenes = append(f.Scenes, Entry{ID: id, Seconds: secs})
	}
	return f
}
