package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/atmohq/atmo-backend/internal/modules/docgen"
)

const (
	marginMM      = 18.0
	bandHeightMM  = 12.0
	bodyLineMM    = 5.2
	headingGapMM  = 4.0
	bottomSafetyM = 22.0
)

type Metadata struct {
	PreparedFor string
	Projects    []string
	GeneratedAt time.Time
}

// RenderPDF renders doc and returns the file base64-encoded, ready to be
// stored in outputs.content_data.
func RenderPDF(doc *docgen.StrategicDocument, title string, t docgen.DocumentType, summary string, meta Metadata) (string, error) {
	raw, err := Render(doc, title, t, summary, meta)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func Render(doc *docgen.StrategicDocument, title string, t docgen.DocumentType, summary string, meta Metadata) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("render pdf: nil document")
	}
	if strings.TrimSpace(title) == "" {
		title = doc.Title
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now().UTC()
	}

	band, err := headerBand(t.Label())
	if err != nil {
		return nil, err
	}

	r := newRenderer(title)
	r.pdf.SetCatalogSort(true)
	r.pdf.SetCreationDate(meta.GeneratedAt)
	stamp := "Generated " + meta.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")
	r.pdf.RegisterImageOptionsReader("band", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(band))
	r.pdf.SetHeaderFuncMode(func() {
		w, _ := r.pdf.GetPageSize()
		r.pdf.ImageOptions("band", 0, 0, w, bandHeightMM, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		r.pdf.SetY(bandHeightMM + marginMM/2)
	}, false)
	r.pdf.SetFooterFunc(func() {
		r.pdf.SetY(-14)
		r.pdf.SetFont("Helvetica", "I", 8)
		r.pdf.SetTextColor(120, 120, 120)
		r.pdf.CellFormat(r.width()*0.7, 6, r.tr(clip(title, 60)+" · "+stamp), "", 0, "L", false, 0, "")
		r.pdf.CellFormat(0, 6, fmt.Sprintf("Page %d of {nb}", r.pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	r.pdf.AliasNbPages("")
	r.pdf.AddPage()

	r.cover(title, t, summary, meta)
	r.section("Executive Summary")
	r.paragraph(doc.ExecutiveSummary)

	r.section("Strategic Analysis")
	r.subsection("Market Positioning")
	r.paragraph(doc.StrategicAnalysis.MarketPositioning)
	r.subsection("Competitive Advantages")
	r.paragraph(doc.StrategicAnalysis.CompetitiveAdvantages)
	r.subsection("Risk Assessment")
	r.paragraph(doc.StrategicAnalysis.RiskAssessment)

	r.section("Detailed Action Plan")
	r.entries(actionEntries(doc))

	r.section("Implementation Timeline")
	r.entries(timelineEntries(doc))

	r.section("Key Performance Indicators")
	for _, k := range doc.KeyPerformanceIndicators {
		r.bullet(docgen.KPILine(k))
	}

	r.section("Resource Requirements")
	r.entries(resourceEntries(doc))

	if len(doc.Methodologies) > 0 {
		r.section("Methodologies")
		for _, m := range doc.Methodologies {
			r.bullet(m)
		}
	}
	if strings.TrimSpace(doc.Notes) != "" {
		r.section("Notes")
		r.paragraph(doc.Notes)
	}

	var out bytes.Buffer
	if err := r.pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return out.Bytes(), nil
}

type renderer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newRenderer(title string) *renderer {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(marginMM, marginMM, marginMM)
	p.SetAutoPageBreak(true, bottomSafetyM)
	p.SetTitle(title, true)
	p.SetCreator("ATMO", true)
	cp := p.UnicodeTranslatorFromDescriptor("")
	return &renderer{pdf: p, tr: func(s string) string { return cp(asciiPunct.Replace(s)) }}
}

// Core fonts are cp1252; arrows and a few typographic marks fall outside it.
var asciiPunct = strings.NewReplacer("→", "->", "←", "<-", "≥", ">=", "≤", "<=", "✓", "v", "\u00a0", " ")

func (r *renderer) width() float64 {
	w, _ := r.pdf.GetPageSize()
	return w - 2*marginMM
}

// ensureSpace starts a new page when fewer than h millimetres remain above the footer.
func (r *renderer) ensureSpace(h float64) {
	_, pageH := r.pdf.GetPageSize()
	if r.pdf.GetY()+h > pageH-bottomSafetyM {
		r.pdf.AddPage()
	}
}

func (r *renderer) cover(title string, t docgen.DocumentType, summary string, meta Metadata) {
	r.pdf.SetFont("Helvetica", "B", 22)
	r.pdf.SetTextColor(31, 42, 68)
	r.pdf.MultiCell(r.width(), 10, r.tr(title), "", "L", false)
	r.pdf.Ln(2)

	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.SetTextColor(90, 90, 90)
	info := t.Label() + "  |  " + meta.GeneratedAt.UTC().Format("January 2, 2006")
	if p := strings.TrimSpace(meta.PreparedFor); p != "" {
		info += "  |  Prepared for " + p
	}
	r.pdf.CellFormat(0, 6, r.tr(info), "", 1, "L", false, 0, "")
	if len(meta.Projects) > 0 {
		r.pdf.CellFormat(0, 6, r.tr("Projects: "+strings.Join(meta.Projects, ", ")), "", 1, "L", false, 0, "")
	}
	if s := strings.TrimSpace(summary); s != "" {
		r.pdf.Ln(2)
		r.pdf.SetFont("Helvetica", "I", 10)
		r.pdf.MultiCell(r.width(), bodyLineMM, r.tr(s), "", "L", false)
	}
	r.pdf.Ln(headingGapMM)
}

func (r *renderer) section(name string) {
	r.ensureSpace(24)
	r.pdf.Ln(headingGapMM)
	r.pdf.SetFont("Helvetica", "B", 14)
	r.pdf.SetTextColor(31, 42, 68)
	r.pdf.CellFormat(0, 8, r.tr(name), "", 1, "L", false, 0, "")
	x, y := r.pdf.GetXY()
	r.pdf.SetDrawColor(59, 130, 246)
	r.pdf.Line(x, y, x+r.width(), y)
	r.pdf.Ln(2)
}

func (r *renderer) subsection(name string) {
	r.ensureSpace(16)
	r.pdf.SetFont("Helvetica", "B", 11)
	r.pdf.SetTextColor(40, 40, 40)
	r.pdf.MultiCell(r.width(), 6, r.tr(name), "", "L", false)
}

func (r *renderer) paragraph(text string) {
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.SetTextColor(30, 30, 30)
	for _, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if para = strings.TrimSpace(para); para == "" {
			continue
		}
		r.ensureSpace(2 * bodyLineMM)
		r.pdf.MultiCell(r.width(), bodyLineMM, r.tr(para), "", "L", false)
		r.pdf.Ln(1.5)
	}
}

func (r *renderer) field(label, value string) {
	r.ensureSpace(bodyLineMM)
	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.SetTextColor(30, 30, 30)
	lw := r.pdf.GetStringWidth(label+": ") + 1
	r.pdf.CellFormat(lw, bodyLineMM, r.tr(label+":"), "", 0, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.MultiCell(r.width()-lw, bodyLineMM, r.tr(value), "", "L", false)
}

// entry is a structured list item rendered as a heading over key/value lines.
type entry struct {
	heading string
	fields  [][2]string
}

func actionEntries(doc *docgen.StrategicDocument) []entry {
	out := make([]entry, 0, len(doc.DetailedActionPlan))
	for i, a := range doc.DetailedActionPlan {
		out = append(out, entry{
			heading: fmt.Sprintf("%d. %s", i+1, a.Step),
			fields:  [][2]string{{"Owner", a.Owner}, {"Deadline", a.Deadline}, {"Resources", a.Resources}, {"Success metric", a.SuccessMetric}},
		})
	}
	return out
}

func timelineEntries(doc *docgen.StrategicDocument) []entry {
	out := make([]entry, 0, len(doc.ImplementationTimeline))
	for _, p := range doc.ImplementationTimeline {
		out = append(out, entry{
			heading: p.Milestone,
			fields:  [][2]string{{"Start", p.StartDate}, {"End", p.EndDate}, {"Depends on", p.Dependencies}},
		})
	}
	return out
}

func resourceEntries(doc *docgen.StrategicDocument) []entry {
	out := make([]entry, 0, len(doc.ResourceRequirements))
	for _, res := range doc.ResourceRequirements {
		out = append(out, entry{
			heading: res.Category,
			fields:  [][2]string{{"Details", res.Details}, {"Cost", res.Cost}, {"Owners", res.Owners}},
		})
	}
	return out
}

// entries skips blank values so optional fields leave no empty label.
func (r *renderer) entries(es []entry) {
	for _, e := range es {
		r.subsection(e.heading)
		for _, f := range e.fields {
			if v := strings.TrimSpace(f[1]); v != "" {
				r.field(f[0], v)
			}
		}
		r.pdf.Ln(1)
	}
}

func (r *renderer) bullet(text string) {
	r.ensureSpace(bodyLineMM)
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.SetTextColor(30, 30, 30)
	r.pdf.CellFormat(5, bodyLineMM, r.tr("•"), "", 0, "L", false, 0, "")
	r.pdf.MultiCell(r.width()-5, bodyLineMM, r.tr(text), "", "L", false)
}

func clip(s string, n int) string {
	rs := []rune(strings.TrimSpace(s))
	if len(rs) <= n {
		return string(rs)
	}
	return string(rs[:n]) + "..."
}
