package pdf

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

const (
	bandWidthPx  = 2480
	bandHeightPx = 140
)

var (
	bandFontOnce sync.Once
	bandFont     *truetype.Font
	bandFontErr  error

	bandStart = color.NRGBA{R: 0x1f, G: 0x2a, B: 0x44, A: 0xff}
	bandEnd   = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
)

func bandFace(size float64) (font.Face, error) {
	bandFontOnce.Do(func() {
		bandFont, bandFontErr = truetype.Parse(gobold.TTF)
	})
	if bandFontErr != nil {
		return nil, bandFontErr
	}
	return truetype.NewFace(bandFont, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// headerBand draws the gradient strip shown at the top of every page.
func headerBand(label string) ([]byte, error) {
	dc := gg.NewContext(bandWidthPx, bandHeightPx)

	grad := gg.NewLinearGradient(0, 0, bandWidthPx, 0)
	grad.AddColorStop(0, bandStart)
	grad.AddColorStop(1, bandEnd)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, bandWidthPx, bandHeightPx)
	dc.Fill()

	face, err := bandFace(56)
	if err != nil {
		return nil, fmt.Errorf("load band font: %w", err)
	}
	dc.SetFontFace(face)
	dc.SetColor(color.White)
	dc.DrawStringAnchored("ATMO", 96, bandHeightPx/2, 0, 0.35)
	dc.DrawStringAnchored(strings.ToUpper(label), bandWidthPx-96, bandHeightPx/2, 1, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode band png: %w", err)
	}
	return buf.Bytes(), nil
}
