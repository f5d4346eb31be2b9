package renderer

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Fonts is the bundled Go font family. A *sfnt.Font is safe for concurrent
// use as long as every caller brings its own sfnt.Buffer.
type Fonts struct {
	regular, bold, italic, boldItalic *sfnt.Font
}

// BoldWeight is the lowest weight drawn with the bold face.
const BoldWeight = 600

// Face picks the face for a CSS-style weight and slant.
func (f *Fonts) Face(weight int, italic bool) *sfnt.Font {
	bold := weight >= BoldWeight
	switch {
	case bold && italic:
		return f.boldItalic
	case bold:
		return f.bold
	case italic:
		return f.italic
	default:
		return f.regular
	}
}

// LoadGoFonts parses the Go fonts shipped with x/image.
func LoadGoFonts() (*Fonts, error) {
	parse := func(name string, ttf []byte) (*sfnt.Font, error) {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", name, err)
		}
		return f, nil
	}

	var (
		fs  Fonts
		err error
	)
	if fs.regular, err = parse("regular", goregular.TTF); err != nil {
		return nil, err
	}
	if fs.bold, err = parse("bold", gobold.TTF); err != nil {
		return nil, err
	}
	if fs.italic, err = parse("italic", goitalic.TTF); err != nil {
		return nil, err
	}
	if fs.boldItalic, err = parse("bold italic", gobolditalic.TTF); err != nil {
		return nil, err
	}
	return &fs, nil
}

var (
	defaultOnce  sync.Once
	defaultFonts *Fonts
	defaultErr   error
)

// DefaultFonts loads the Go fonts once per process.
func DefaultFonts() (*Fonts, error) {
	defaultOnce.Do(func() {
		defaultFonts, defaultErr = LoadGoFonts()
	})
	return defaultFonts, defaultErr
}
