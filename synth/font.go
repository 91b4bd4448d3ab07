package synth

import (
	"os"

	"github.com/adrg/sysfont"
	"github.com/golang/freetype/truetype"
	"github.com/juruen/kanatrain/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

const (
	DefaultFontSize = 40
	BuiltinFont     = "builtin"
)

// DefaultFontPaths are tried in order; the first one that exists and
// parses wins.
var DefaultFontPaths = []string{
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"C:/Windows/Fonts/msgothic.ttc",
}

// DefaultFontFamilies are matched against installed fonts when discovery
// is enabled and no path from the chain could be used.
var DefaultFontFamilies = []string{
	"Hiragino Sans",
	"Noto Sans CJK JP",
	"IPAGothic",
	"MS Gothic",
}

// FontChain describes where to look for a glyph font.
type FontChain struct {
	Paths    []string
	Families []string
	Discover bool
	Size     float64
	// Probe is a rune a font must cover to be preferred
	Probe rune
}

func DefaultFontChain() FontChain {
	return FontChain{
		Paths:    DefaultFontPaths,
		Families: DefaultFontFamilies,
		Discover: true,
		Size:     DefaultFontSize,
		Probe:    'あ',
	}
}

// FontSource is a parsed font that hands out faces. Faces are not safe
// for concurrent use, so every renderer asks for its own.
type FontSource struct {
	Origin string
	size   float64
	ttf    *truetype.Font
	otf    *opentype.Font
}

// Load walks the chain and never fails: when nothing usable is found the
// built-in bitmap face is used.
func (c FontChain) Load() *FontSource {
	size := c.Size
	if size <= 0 {
		size = DefaultFontSize
	}

	// first parsable font without the probe rune, used when nothing better
	var partial *FontSource
	for _, path := range c.Paths {
		src, err := loadFontFile(path, size)
		if err != nil {
			log.Trace.Printf("font %s: %v", path, err)
			continue
		}
		if c.Probe != 0 && !src.Covers(c.Probe) {
			log.Trace.Printf("font %s lacks %q", path, c.Probe)
			if partial == nil {
				partial = src
			}
			continue
		}
		log.Trace.Printf("using font %s", path)
		return src
	}

	if c.Discover {
		if src := c.discover(size); src != nil {
			return src
		}
	}

	if partial != nil {
		log.Warning.Printf("font %s lacks %q, glyphs will render as boxes", partial.Origin, c.Probe)
		return partial
	}

	log.Trace.Println("no font found, using built-in face")
	return &FontSource{Origin: BuiltinFont, size: size}
}

func (c FontChain) discover(size float64) *FontSource {
	finder := sysfont.NewFinder(nil)
	for _, family := range c.Families {
		f := finder.Match(family)
		if f == nil || f.Filename == "" {
			continue
		}
		src, err := loadFontFile(f.Filename, size)
		if err != nil {
			log.Trace.Printf("discovered font %s: %v", f.Filename, err)
			continue
		}
		if c.Probe != 0 && !src.Covers(c.Probe) {
			log.Trace.Printf("discovered font %s lacks %q", f.Filename, c.Probe)
			continue
		}
		log.Trace.Printf("using discovered font %s (%s)", f.Filename, f.Family)
		return src
	}
	return nil
}

func loadFontFile(path string, size float64) (*FontSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFont(path, data, size)
}

// parseFont tries TrueType first (including the first face of a
// collection), then OpenType for CFF outlines and collections.
func parseFont(origin string, data []byte, size float64) (*FontSource, error) {
	if ttf, err := truetype.Parse(data); err == nil {
		return &FontSource{Origin: origin, size: size, ttf: ttf}, nil
	}

	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		otf, err := coll.Font(0)
		if err == nil {
			return &FontSource{Origin: origin, size: size, otf: otf}, nil
		}
	}

	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &FontSource{Origin: origin, size: size, otf: otf}, nil
}

func (s *FontSource) Builtin() bool {
	return s.ttf == nil && s.otf == nil
}

// NewFace returns a fresh face at the configured size.
func (s *FontSource) NewFace() font.Face {
	switch {
	case s.ttf != nil:
		return truetype.NewFace(s.ttf, &truetype.Options{
			Size:    s.size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	case s.otf != nil:
		face, err := opentype.NewFace(s.otf, &opentype.FaceOptions{
			Size:    s.size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err == nil {
			return face
		}
		log.Trace.Printf("can't create face from %s: %v", s.Origin, err)
	}
	return basicfont.Face7x13
}

// Covers reports whether the font has a glyph for r.
func (s *FontSource) Covers(r rune) bool {
	switch {
	case s.ttf != nil:
		return s.ttf.Index(r) != 0
	case s.otf != nil:
		face := s.NewFace()
		defer face.Close()
		_, ok := face.GlyphAdvance(r)
		return ok
	}
	_, ok := basicfont.Face7x13.GlyphAdvance(r)
	return ok
}
