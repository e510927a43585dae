package ebiten

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"collectivecanvas/pkg/canvas/renderer"
)

type fonts struct {
	sans     *text.GoTextFaceSource
	sansBold *text.GoTextFaceSource

	// Cached faces, recreated when the window height changes the UI size.
	cachedSize     float64
	cachedSans     *text.GoTextFace
	cachedSansBold *text.GoTextFace
	cachedTitle    *text.GoTextFace
}

func loadFonts() (*fonts, error) {
	load := func(name string, ttf []byte) (*text.GoTextFaceSource, error) {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
		if err != nil {
			return nil, fmt.Errorf("loading %s font: %w", name, err)
		}
		return src, nil
	}
	sans, err := load("regular", goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := load("bold", gobold.TTF)
	if err != nil {
		return nil, err
	}
	return &fonts{sans: sans, sansBold: bold}, nil
}

// resize rebuilds the faces for a window of height h.
func (f *fonts) resize(h int) {
	size := renderer.UIFontSize(h)
	if f.cachedSans != nil && f.cachedSize == size {
		return
	}
	f.cachedSize = size
	f.cachedSans = &text.GoTextFace{Source: f.sans, Size: size}
	f.cachedSansBold = &text.GoTextFace{Source: f.sansBold, Size: size}
	f.cachedTitle = &text.GoTextFace{Source: f.sansBold, Size: size + 6}
}

func (f *fonts) uiSize() float64 { return f.cachedSize }

func (f *fonts) sansFace() *text.GoTextFace     { return f.cachedSans }
func (f *fonts) sansBoldFace() *text.GoTextFace { return f.cachedSansBold }
func (f *fonts) titleFace() *text.GoTextFace    { return f.cachedTitle }
