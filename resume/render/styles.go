package render

import (
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Brand colours.
const (
	ColorPrimary   = "#198daa"
	ColorSecondary = "#ef5937"
	ColorAntique   = "#e7ddd0"
	ColorInk       = "#262525"
	ColorLightInk  = "#4a4949"
	ColorWhite     = "#ffffff"
)

const fontFamily = "Helvetica"

// RunStyle captures the inline formatting of one layout element. A zero Size
// keeps the current size.
type RunStyle struct {
	Bold  bool
	Size  float64
	Color string
}

// StyleMap centralizes the formatting for key resume elements.
var StyleMap = map[string]RunStyle{
	"name":           {Bold: true, Size: 22, Color: ColorWhite},
	"title":          {Bold: true, Size: 12, Color: ColorWhite},
	"contact":        {Size: 9.5, Color: ColorLightInk},
	"sectionHeading": {Bold: true, Size: 12.5, Color: ColorInk},
	"paragraph":      {Size: 10.5, Color: ColorInk},
	"emph":           {Bold: true, Color: ColorSecondary},
	"skill":          {Size: 9.5, Color: ColorInk},
	"company":        {Bold: true, Size: 11.5, Color: ColorInk},
	"role":           {Size: 10.5, Color: ColorLightInk},
	"meta":           {Size: 9.5, Color: ColorLightInk},
	"bulletDot":      {Size: 10.5, Color: ColorSecondary},
}

type rgb struct{ r, g, b int }

func parseHex(hex string) rgb {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return rgb{}
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return rgb{}
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

func applyStyle(pdf *gofpdf.Fpdf, s RunStyle) {
	style := ""
	if s.Bold {
		style = "B"
	}
	size := s.Size
	if size == 0 {
		size, _ = pdf.GetFontSize()
	}
	pdf.SetFont(fontFamily, style, size)
	c := parseHex(s.Color)
	pdf.SetTextColor(c.r, c.g, c.b)
}

func setFill(pdf *gofpdf.Fpdf, hex string) {
	c := parseHex(hex)
	pdf.SetFillColor(c.r, c.g, c.b)
}

func setDraw(pdf *gofpdf.Fpdf, hex string) {
	c := parseHex(hex)
	pdf.SetDrawColor(c.r, c.g, c.b)
}
