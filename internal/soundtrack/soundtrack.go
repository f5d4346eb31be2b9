// Package soundtrack renders the reveal cue track: a short tone each time new
// text starts to appear on screen.
package soundtrack

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog"

	"github.com/ivlev/wrapped2video/internal/director"
	"github.com/ivlev/wrapped2video/internal/draw"
)

// Options shapes the cue tones.
type Options struct {
	SampleRate beep.SampleRate
	BaseFreq   float64
	Tone       time.Duration
	Volume     float64 // Linear gain, 0 mutes
}

// DefaultOptions are soft 40 ms pentatonic blips.
func DefaultOptions() Options {
	return Options{
		SampleRate: beep.SampleRate(48000),
		BaseFreq:   660,
		Tone:       40 * time.Millisecond,
		Volume:     0.25,
	}
}

// Cues returns every global frame at which the number of visible text
// leaves grows. Several glyphs starting on one frame make a single cue.
func Cues(tl *director.Timeline) []int {
	var cues []int
	prev := 0
	for f := 0; f < tl.Total(); f++ {
		n := visibleText(tl.ComposeAt(f), 1)
		if n > prev {
			cues = append(cues, f)
		}
		prev = n
	}
	return cues
}

func visibleText(n *draw.Node, opacity float64) int {
	op := opacity * n.Opacity
	if op <= 0 || (n.Kind == draw.KindGroup && n.Scale == 0) {
		return 0
	}
	if n.Kind == draw.KindText {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += visibleText(c, op)
	}
	return count
}

// pentatonic steps in semitones.
var pentatonic = []float64{0, 2, 4, 7, 9}

// Track mixes one tone per cue into a stream exactly totalFrames long.
func Track(cues []int, fps float64, totalFrames int, opts Options) (beep.Streamer, int, error) {
	if fps <= 0 || totalFrames <= 0 {
		return nil, 0, fmt.Errorf("bad track length %d frames at %g fps", totalFrames, fps)
	}
	sr := opts.SampleRate
	length := sr.N(time.Duration(float64(totalFrames) / fps * float64(time.Second)))
	toneLen := sr.N(opts.Tone)

	parts := []beep.Streamer{beep.Silence(length)}
	for i, f := range cues {
		freq := opts.BaseFreq * math.Pow(2, pentatonic[i%len(pentatonic)]/12)
		tone, err := generators.SineTone(sr, freq)
		if err != nil {
			return nil, 0, err
		}
		offset := sr.N(time.Duration(float64(f) / fps * float64(time.Second)))
		parts = append(parts, beep.Seq(beep.Silence(offset), decay(beep.Take(toneLen, tone), toneLen)))
	}

	return beep.Take(length, gain(beep.Mix(parts...), opts.Volume)), length, nil
}

// decay fades a stream linearly to silence over n samples.
func decay(s beep.Streamer, n int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		k, ok := s.Stream(samples)
		for i := 0; i < k; i++ {
			v := 1 - float64(pos)/float64(n)
			if v < 0 {
				v = 0
			}
			samples[i][0] *= v
			samples[i][1] *= v
			pos++
		}
		return k, ok
	})
}

func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// WriteWAV renders the cue track of tl into a 16-bit stereo WAV file.
func WriteWAV(path string, tl *director.Timeline, fps float64, opts Options, logger zerolog.Logger) error {
	cues := Cues(tl)
	s, samples, err := Track(cues, fps, tl.Total(), opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	format := beep.Format{SampleRate: opts.SampleRate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, s, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	logger.Debug().Int("cues", len(cues)).Int("samples", samples).Str("path", path).Msg("cue track written")
	return f.Close()
}
