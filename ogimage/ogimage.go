// Package ogimage generates the fixed-size Open Graph preview images used
// for social-media link unfurling. Mapping a page to its card layout and
// rendering the card pixels are kept separate: handlers build a Card with
// ForPost or ForHome and hand it to a Renderer.
package ogimage

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Open Graph card dimensions and content type. Fixed by the og:image
// conventions of the major platforms.
const (
	Width       = 1200
	Height      = 630
	ContentType = "image/png"
)

const (
	margin     = 80
	maxLines   = 5
	footerSize = 34
	lineGap    = 10
)

var (
	background  = color.RGBA{R: 0x18, G: 0x18, B: 0x1b, A: 0xff}
	titleColor  = color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	footerColor = color.RGBA{R: 0xa1, G: 0xa1, B: 0xaa, A: 0xff}
)

// Card describes what a preview image shows: the headline, a footer line,
// and the headline point size.
type Card struct {
	Title     string
	Footer    string
	TitleSize float64
}

// ForPost maps a post title to its preview card. Longer titles render at a
// smaller point size so they fit the fixed canvas.
func ForPost(title, siteName string) Card {
	size := 76.0
	switch {
	case len(title) > 90:
		size = 52
	case len(title) > 50:
		size = 64
	}
	return Card{Title: title, Footer: siteName, TitleSize: size}
}

// ForHome maps the home page to its preview card. No per-post parameter.
func ForHome(siteName, description string) Card {
	return Card{Title: siteName, Footer: description, TitleSize: 92}
}

// Renderer turns a Card into an encoded image.
type Renderer interface {
	Render(w io.Writer, card Card) error
}

// GoFontRenderer draws cards with the Go font family onto a solid
// background and encodes them as PNG. Output is deterministic for a given
// Card. Safe for concurrent use: faces are created per Render call.
type GoFontRenderer struct {
	title  *opentype.Font
	footer *opentype.Font
}

// NewRenderer parses the embedded fonts once and returns a renderer.
func NewRenderer() (*GoFontRenderer, error) {
	title, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("ogimage: parse title font: %w", err)
	}
	footer, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("ogimage: parse footer font: %w", err)
	}
	return &GoFontRenderer{title: title, footer: footer}, nil
}

// Render draws the card and writes it to w as PNG.
func (r *GoFontRenderer) Render(w io.Writer, card Card) error {
	titleFace, err := opentype.NewFace(r.title, &opentype.FaceOptions{
		Size:    card.TitleSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("ogimage: title face: %w", err)
	}
	defer titleFace.Close()

	footerFace, err := opentype.NewFace(r.footer, &opentype.FaceOptions{
		Size:    footerSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("ogimage: footer face: %w", err)
	}
	defer footerFace.Close()

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	lines := wrap(card.Title, titleFace, fixed.I(Width-2*margin))
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] += "…"
	}

	metrics := titleFace.Metrics()
	lineHeight := metrics.Height.Ceil() + lineGap
	blockHeight := lineHeight * len(lines)
	y := (Height-blockHeight)/2 + metrics.Ascent.Ceil()

	d := &font.Drawer{Dst: img, Src: image.NewUniform(titleColor), Face: titleFace}
	for _, line := range lines {
		d.Dot = fixed.P(margin, y)
		d.DrawString(line)
		y += lineHeight
	}

	if card.Footer != "" {
		fd := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(footerColor),
			Face: footerFace,
			Dot:  fixed.P(margin, Height-margin/2),
		}
		fd.DrawString(card.Footer)
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("ogimage: encode png: %w", err)
	}
	return nil
}

// wrap greedily breaks s into lines no wider than max at the given face.
// A single word wider than max gets its own line rather than being split.
func wrap(s string, face font.Face, max fixed.Int26_6) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate) > max {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
