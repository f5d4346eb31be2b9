package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is everything a render needs besides the wallet stats.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`

	IntroSeconds   float64 `yaml:"intro_seconds"`
	SectionSeconds float64 `yaml:"section_seconds"`
	FadeSeconds    float64 `yaml:"fade_seconds"`

	// Variant is the composition: sunrise, dawn-to-noon or palette
	Variant    string `yaml:"variant"`
	Palette    string `yaml:"palette"`
	CardEffect string `yaml:"card_effect"`
	// Timeline is an optional scene table file
	Timeline string `yaml:"timeline"`
	Stats    string `yaml:"stats"`

	Workers      int    `yaml:"workers"` // 0 sizes the pool from CPUs and memory
	VideoEncoder string `yaml:"video_encoder"` // Empty probes ffmpeg
	Quality      int    `yaml:"quality"`       // 0 picks a default per encoder
	OutputVideo  string `yaml:"output"`
	FramesDir    string `yaml:"frames_dir"`

	AudioPath  string `yaml:"audio"`
	Soundtrack bool   `yaml:"soundtrack"`
	ShareURL   string `yaml:"share_url"`

	MetricsFile string  `yaml:"metrics_file"`
	Publish     Publish `yaml:"publish"`

	Environment string `yaml:"environment"`
	ShowStats   bool   `yaml:"show_stats"`

	BuildVersion string `yaml:"-"`
}

// Publish is the optional S3 upload target.
type Publish struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"` // For S3-compatible services
	UsePathStyle bool   `yaml:"use_path_style"`

	// Static credentials; the default AWS chain is used when empty.
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// Enabled reports whether an upload was requested.
func (p Publish) Enabled() bool { return p.Bucket != "" }

// Default is a portrait 1080x1920 video at 60 fps.
func Default() *Config {
	return &Config{
		Width:          1080,
		Height:         1920,
		FPS:            60,
		IntroSeconds:   6,
		SectionSeconds: 10,
		Variant:        "sunrise",
		Palette:        "dark",
		CardEffect:     "slide-up",
		Soundtrack:     true,
		Publish:        Publish{Region: "us-east-1"},
		Environment:    "production",
	}
}

// LoadFile reads a YAML file over the defaults. Unknown keys are an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Presets maps aspect names to canvas sizes.
var Presets = map[string][2]int{
	"9:16": {1080, 1920},
	"16:9": {1920, 1080},
	"4:5":  {1080, 1350},
}

// ApplyPreset sets the canvas size from a preset name. Empty is a no-op.
func (c *Config) ApplyPreset(name string) error {
	if name == "" {
		return nil
	}
	p, ok := Presets[name]
	if !ok {
		return &FieldError{Field: "preset", Problem: fmt.Sprintf("unknown preset %q", name)}
	}
	c.Width, c.Height = p[0], p[1]
	return nil
}

// ApplyEnv overrides fields from WRAPPED_* variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	e := envReader{lookup: lookup}

	e.setInt("WRAPPED_WIDTH", &c.Width)
	e.setInt("WRAPPED_HEIGHT", &c.Height)
	e.setInt("WRAPPED_FPS", &c.FPS)
	e.setFloat("WRAPPED_INTRO_SECONDS", &c.IntroSeconds)
	e.setFloat("WRAPPED_SECTION_SECONDS", &c.SectionSeconds)
	e.setFloat("WRAPPED_FADE_SECONDS", &c.FadeSeconds)
	e.setString("WRAPPED_VARIANT", &c.Variant)
	e.setString("WRAPPED_PALETTE", &c.Palette)
	e.setString("WRAPPED_CARD_EFFECT", &c.CardEffect)
	e.setString("WRAPPED_TIMELINE", &c.Timeline)
	e.setString("WRAPPED_STATS", &c.Stats)
	e.setInt("WRAPPED_WORKERS", &c.Workers)
	e.setString("WRAPPED_VIDEO_ENCODER", &c.VideoEncoder)
	e.setInt("WRAPPED_QUALITY", &c.Quality)
	e.setString("WRAPPED_OUTPUT", &c.OutputVideo)
	e.setString("WRAPPED_FRAMES_DIR", &c.FramesDir)
	e.setString("WRAPPED_AUDIO", &c.AudioPath)
	e.setBool("WRAPPED_SOUNDTRACK", &c.Soundtrack)
	e.setString("WRAPPED_SHARE_URL", &c.ShareURL)
	e.setString("WRAPPED_METRICS_FILE", &c.MetricsFile)
	e.setString("WRAPPED_S3_BUCKET", &c.Publish.Bucket)
	e.setString("WRAPPED_S3_PREFIX", &c.Publish.Prefix)
	e.setString("WRAPPED_S3_REGION", &c.Publish.Region)
	e.setString("WRAPPED_S3_ENDPOINT", &c.Publish.Endpoint)
	e.setBool("WRAPPED_S3_USE_PATH_STYLE", &c.Publish.UsePathStyle)
	e.setString("WRAPPED_S3_ACCESS_KEY_ID", &c.Publish.AccessKeyID)
	e.setString("WRAPPED_S3_SECRET_ACCESS_KEY", &c.Publish.SecretAccessKey)
	e.setString("WRAPPED_ENV", &c.Environment)

	return errors.Join(e.errs...)
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) setString(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) setInt(key string, dst *int) {
	if v, ok := e.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.errs = append(e.errs, &FieldError{Field: key, Problem: fmt.Sprintf("not an integer: %q", v)})
			return
		}
		*dst = n
	}
}

func (e *envReader) setFloat(key string, dst *float64) {
	if v, ok := e.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.errs = append(e.errs, &FieldError{Field: key, Problem: fmt.Sprintf("not a number: %q", v)})
			return
		}
		*dst = f
	}
}

func (e *envReader) setBool(key string, dst *bool) {
	if v, ok := e.get(key); ok {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			*dst = true
		case "false", "0", "no":
			*dst = false
		default:
			e.errs = append(e.errs, &FieldError{Field: key, Problem: fmt.Sprintf("not a boolean: %q", v)})
		}
	}
}

// FieldError names a configuration field with a bad value.
type FieldError struct {
	Field   string
	Problem string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Problem
}

var (
	variants = []string{"sunrise", "dawn-to-noon", "palette"}
	encoders = []string{"", "libx264", "h264_nvenc", "h264_videotoolbox"}
)

// Validate reports every bad field at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Field: field, Problem: fmt.Sprintf(format, args...)})
	}

	if c.Width <= 0 || c.Width%2 != 0 {
		bad("width", "must be a positive even number, got %d", c.Width)
	}
	if c.Height <= 0 || c.Height%2 != 0 {
		bad("height", "must be a positive even number, got %d", c.Height)
	}
	if c.FPS <= 0 || c.FPS > 240 {
		bad("fps", "must be in 1..240, got %d", c.FPS)
	}
	if c.IntroSeconds <= 0 {
		bad("intro_seconds", "must be > 0, got %g", c.IntroSeconds)
	}
	if c.SectionSeconds <= 0 {
		bad("section_seconds", "must be > 0, got %g", c.SectionSeconds)
	}
	if c.FadeSeconds < 0 {
		bad("fade_seconds", "must be >= 0, got %g", c.FadeSeconds)
	}
	if !oneOf(c.Variant, variants) {
		bad("variant", "must be one of %v, got %q", variants, c.Variant)
	}
	if c.Variant == "palette" && c.Palette == "" {
		bad("palette", "required for the palette variant")
	}
	if c.Workers < 0 {
		bad("workers", "must be >= 0, got %d", c.Workers)
	}
	if !oneOf(c.VideoEncoder, encoders) {
		bad("video_encoder", "must be one of %v, got %q", encoders[1:], c.VideoEncoder)
	}
	if c.Quality < 0 {
		bad("quality", "must be >= 0, got %d", c.Quality)
	}
	if c.Publish.Enabled() && c.Publish.Region == "" {
		bad("publish.region", "required when a bucket is set")
	}

	return errors.Join(errs...)
}

// Development reports whether verbose logging is wanted.
func (c *Config) Development() bool { return c.Environment == "development" }

// QualityFor returns c.Quality or the default for encoder.
func (c *Config) QualityFor(encoder string) int {
	if c.Quality > 0 {
		return c.Quality
	}
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
