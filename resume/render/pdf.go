package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"resume-formatter/resume/emphasis"
	"resume-formatter/resume/model"
	"resume-formatter/resume/refine"
)

const (
	sp          = 8.0
	pageMargin  = sp * 5
	bandHeight  = 64.0
	bandPadX    = sp * 3
	lineFactor  = 1.35
	chipPadX    = 6.0
	chipPadY    = 2.0
	chipGap     = 6.0
	bulletShift = sp * 1.5
	bulletDotW  = 12.0
)

// Options tunes document metadata.
type Options struct {
	// CreationDate pins the document timestamp. Zero uses the current time.
	CreationDate time.Time
	Creator      string
}

// RenderPDF lays out parsed with the given refinements and returns PDF bytes.
func RenderPDF(parsed *model.ParsedResume, r *refine.Refinements, opts Options) ([]byte, error) {
	return Draw(Build(parsed, r), opts)
}

// Draw renders an already resolved layout.
func Draw(l Layout, opts Options) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(l.DocTitle, true)
	if l.Author != "" {
		pdf.SetAuthor(l.Author, true)
	}
	creator := opts.Creator
	if creator == "" {
		creator = "resume-formatter"
	}
	pdf.SetCreator(creator, true)
	if !opts.CreationDate.IsZero() {
		pdf.SetCreationDate(opts.CreationDate)
	}
	pdf.AddPage()

	d := &drawer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), keywords: l.Keywords}
	d.header(l)
	d.contact(l.Contact)

	d.sectionTitle("Summary")
	d.paragraph(l.Summary)

	if len(l.Skills) > 0 {
		d.sectionTitle("Skills")
		d.skills(l.Skills)
	}
	if len(l.Experience) > 0 {
		d.sectionTitle("Experience")
		for _, e := range l.Experience {
			d.experience(e)
		}
	}
	if l.Education != nil {
		d.sectionTitle("Education")
		d.education(*l.Education)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type drawer struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	keywords []string
}

// text converts to the core font code page. Arrows have no cp1252 slot.
func (d *drawer) text(s string) string {
	return d.tr(strings.ReplaceAll(s, "→", "->"))
}

func (d *drawer) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return w - left - right
}

func (d *drawer) lineHeight(size float64) float64 {
	return size * lineFactor
}

func (d *drawer) header(l Layout) {
	pdf := d.pdf
	x, y := pageMargin, pageMargin
	w := d.contentWidth()

	setFill(pdf, ColorPrimary)
	pdf.Rect(x, y, w, bandHeight, "F")

	d.triangle(x+bandPadX, y+bandHeight/2, 22)

	applyStyle(pdf, StyleMap["name"])
	pdf.SetXY(x+bandPadX, y+sp*1.5)
	pdf.CellFormat(w-2*bandPadX, 26, d.text(l.Name), "", 2, "R", false, 0, "")
	applyStyle(pdf, StyleMap["title"])
	pdf.CellFormat(w-2*bandPadX, 16, d.text(l.Title), "", 1, "R", false, 0, "")

	pdf.SetXY(pageMargin, y+bandHeight)
}

// triangle draws the three nested brand triangles with their left edge at x,
// vertically centred on cy.
func (d *drawer) triangle(x, cy, size float64) {
	const vbW, vbH = 218.0, 189.0
	scale := size / vbW
	h := math.Round(size * vbH / vbW)
	top := cy - h/2
	shapes := []struct {
		color string
		pts   [3][2]float64
	}{
		{ColorSecondary, [3][2]float64{{109, 0}, {0, 189}, {218, 189}}},
		{ColorPrimary, [3][2]float64{{109, 30.1849}, {25.39, 174.995}, {192.6, 174.995}}},
		{ColorAntique, [3][2]float64{{109, 63.215}, {52.4, 161.245}, {165.6, 161.245}}},
	}
	for _, s := range shapes {
		pts := make([]gofpdf.PointType, 0, 3)
		for _, p := range s.pts {
			pts = append(pts, gofpdf.PointType{X: x + p[0]*scale, Y: top + p[1]*scale})
		}
		setFill(d.pdf, s.color)
		d.pdf.Polygon(pts, "F")
	}
}

func (d *drawer) contact(items []string) {
	if len(items) == 0 {
		return
	}
	style := StyleMap["contact"]
	applyStyle(d.pdf, style)
	d.pdf.Ln(sp * 1.25)
	d.pdf.MultiCell(0, d.lineHeight(style.Size), d.text(strings.Join(items, "   ")), "", "L", false)
}

func (d *drawer) sectionTitle(title string) {
	pdf := d.pdf
	style := StyleMap["sectionHeading"]
	pdf.Ln(sp * 3)
	applyStyle(pdf, style)
	h := d.lineHeight(style.Size)
	tw := pdf.GetStringWidth(title)
	x, y := pdf.GetXY()
	pdf.CellFormat(tw, h, title, "", 0, "L", false, 0, "")

	setDraw(pdf, ColorSecondary)
	pdf.SetLineWidth(2)
	lineY := y + h/2
	pdf.Line(x+tw+sp, lineY, pageMargin+d.contentWidth(), lineY)
	pdf.SetXY(pageMargin, y+h)
}

// runs writes text through the emphasis splitter using flowing Write calls so
// styles can change mid-line.
func (d *drawer) runs(text string, base RunStyle) {
	h := d.lineHeight(base.Size)
	emph := StyleMap["emph"]
	emph.Size = base.Size
	for _, run := range emphasis.Split(text, d.keywords) {
		if run.Emphasized {
			applyStyle(d.pdf, emph)
		} else {
			applyStyle(d.pdf, base)
		}
		d.pdf.Write(h, d.text(run.Text))
	}
	applyStyle(d.pdf, base)
}

func (d *drawer) paragraph(text string) {
	style := StyleMap["paragraph"]
	d.pdf.Ln(sp)
	d.pdf.SetX(pageMargin)
	d.runs(text, style)
	d.pdf.Ln(d.lineHeight(style.Size))
}

func (d *drawer) skills(skills []string) {
	pdf := d.pdf
	base := StyleMap["skill"]
	emph := StyleMap["emph"]
	emph.Size = base.Size
	chipH := d.lineHeight(base.Size) + chipPadY*2
	right := pageMargin + d.contentWidth()

	pdf.Ln(sp)
	x, y := pageMargin, pdf.GetY()
	for _, skill := range skills {
		parts := emphasis.Split(skill, d.keywords)
		widths := make([]float64, len(parts))
		total := chipPadX * 2
		for i, p := range parts {
			if p.Emphasized {
				applyStyle(pdf, emph)
			} else {
				applyStyle(pdf, base)
			}
			widths[i] = pdf.GetStringWidth(d.text(p.Text))
			total += widths[i]
		}
		if x+total > right && x > pageMargin {
			x = pageMargin
			y += chipH + chipGap
		}

		setFill(pdf, ColorAntique)
		pdf.Rect(x, y, total, chipH, "F")
		cx := x + chipPadX
		for i, p := range parts {
			if p.Emphasized {
				applyStyle(pdf, emph)
			} else {
				applyStyle(pdf, base)
			}
			pdf.SetXY(cx, y)
			pdf.CellFormat(widths[i], chipH, d.text(p.Text), "", 0, "L", false, 0, "")
			cx += widths[i]
		}
		x += total + chipGap
	}
	pdf.SetXY(pageMargin, y+chipH)
}

func (d *drawer) experience(e ExperienceBlock) {
	pdf := d.pdf
	w := d.contentWidth()
	pdf.Ln(sp * 2)

	company := StyleMap["company"]
	meta := StyleMap["meta"]
	y := pdf.GetY()
	applyStyle(pdf, company)
	pdf.CellFormat(w, d.lineHeight(company.Size), d.text(e.Company), "", 0, "L", false, 0, "")
	applyStyle(pdf, meta)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(w, d.lineHeight(company.Size), d.text(e.Meta), "", 1, "R", false, 0, "")

	role := StyleMap["role"]
	applyStyle(pdf, role)
	pdf.CellFormat(w, d.lineHeight(role.Size), d.text(e.Role), "", 1, "L", false, 0, "")

	if len(e.Bullets) == 0 {
		return
	}
	body := StyleMap["paragraph"]
	dot := StyleMap["bulletDot"]
	h := d.lineHeight(body.Size)
	pdf.Ln(sp / 2)
	pdf.SetLeftMargin(pageMargin + bulletShift + bulletDotW)
	for _, b := range e.Bullets {
		pdf.SetX(pageMargin + bulletShift)
		applyStyle(pdf, dot)
		pdf.CellFormat(bulletDotW, h, d.text("•"), "", 0, "L", false, 0, "")
		d.runs(b, body)
		pdf.Ln(h + 4)
	}
	pdf.SetLeftMargin(pageMargin)
	pdf.SetX(pageMargin)
}

func (d *drawer) education(edu model.Education) {
	pdf := d.pdf
	style := StyleMap["paragraph"]
	h := d.lineHeight(style.Size)
	w := d.contentWidth()
	pdf.Ln(sp)
	y := pdf.GetY()
	applyStyle(pdf, style)
	pdf.CellFormat(w, h, d.text(edu.School), "", 0, "L", false, 0, "")
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(w, h, d.text(joinNonEmpty(" · ", edu.Degree, edu.Year)), "", 1, "R", false, 0, "")
}
