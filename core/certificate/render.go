package certificate

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	width  = 1200
	height = 800
)

var (
	colorBorder  = color.RGBA{R: 0x4f, G: 0x46, B: 0xe5, A: 0xff}
	colorInner   = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	colorHeading = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	colorMuted   = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}

	fontsOnce    sync.Once
	regularFont  *truetype.Font
	boldFont     *truetype.Font
	errFontsLoad error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regularFont, errFontsLoad = truetype.Parse(goregular.TTF); errFontsLoad != nil {
			return
		}
		boldFont, errFontsLoad = truetype.Parse(gobold.TTF)
	})
	return errFontsLoad
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

// RenderPNG draws the certificate as a 1200x800 PNG image.
func RenderPNG(v View) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, errors.Wrap(err, "loading fonts")
	}

	dc := gg.NewContext(width, height)
	cx := float64(width) / 2

	// background & borders
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(colorBorder)
	dc.SetLineWidth(8)
	dc.DrawRectangle(20, 20, width-40, height-40)
	dc.Stroke()
	dc.SetColor(colorInner)
	dc.SetLineWidth(2)
	dc.DrawRectangle(40, 40, width-80, height-80)
	dc.Stroke()

	text := func(f *truetype.Font, size float64, c color.Color, s string, y float64) {
		dc.SetFontFace(face(f, size))
		dc.SetColor(c)
		dc.DrawStringAnchored(s, cx, y, 0.5, 0)
	}

	text(boldFont, 48, colorHeading, "Certificate of Completion", 150)
	text(regularFont, 24, colorMuted, "This is to certify that", 220)
	text(boldFont, 42, colorBorder, v.StudentName, 300)
	text(regularFont, 24, colorMuted, "has successfully completed the course", 360)
	text(boldFont, 36, colorHeading, v.Course.Title, 430)
	text(regularFont, 20, colorMuted, fmt.Sprintf("Instructor: %s  |  Category: %s", v.Course.Instructor, v.Course.Category), 490)
	text(regularFont, 20, colorMuted, fmt.Sprintf("Final Score: %d%%", v.OverallScore), 530)
	text(regularFont, 18, colorMuted, "Completed on "+v.CompletedDate.Format("January 2, 2006"), 620)
	text(regularFont, 14, colorMuted, "Certificate ID: "+v.CertificateID, 720)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(err, "encoding PNG")
	}
	return buf.Bytes(), nil
}

// FileName is the download name of a course's certificate.
func FileName(v View) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, v.Course.Title)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return "certificate-" + strings.Trim(slug, "-") + ".png"
}
