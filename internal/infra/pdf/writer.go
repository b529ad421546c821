package pdf

import (
	"bytes"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// run is a paragraph drawn with one font.
type run struct {
	text   string
	font   font
	indent float64
	before float64
	fill   *rgb
}

// box is a group of runs with an optional background and left accent bar.
type box struct {
	runs []run
	fill *rgb
	bar  *rgb
	pad  float64
}

type writer struct {
	*fpdf.Fpdf
	st     sheet
	tr     func(string) string
	names  *strings.Replacer
	left   float64
	width  float64
	bottom float64
}

func newWriter(st sheet, footer string, created time.Time) *writer {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(st.margin, st.margin, st.margin)
	pdf.SetAutoPageBreak(true, st.bottom)
	pdf.SetCellMargin(0)
	pdf.SetCreator("AI Fitness Wizard", false)
	pdf.SetCreationDate(created)

	pageW, pageH := pdf.GetPageSize()
	w := &writer{
		Fpdf:   pdf,
		st:     st,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		left:   st.margin,
		width:  pageW - 2*st.margin,
		bottom: pageH - st.bottom,
	}
	footerText := w.tr(sanitize(footer))
	pdf.SetFooterFunc(func() {
		y := pageH - st.bottom + st.gap*2
		pdf.SetDrawColor(slate200.r, slate200.g, slate200.b)
		pdf.SetLineWidth(0.75)
		pdf.Line(w.left, y, w.left+w.width, y)
		w.setFont(st.footer)
		pdf.SetXY(w.left, y+st.gap)
		pdf.MultiCell(w.width, st.footer.lineHeight(), footerText, "", "C", false)
	})
	pdf.AddPage()
	return w
}

func (w *writer) setFont(f font) {
	w.SetFont("Helvetica", f.style, f.size)
	w.SetTextColor(f.color.r, f.color.g, f.color.b)
}

// newRun prepares text for the core fonts.
func (w *writer) newRun(text string, f font) run {
	if w.names != nil {
		text = w.names.Replace(text)
	}
	return run{text: w.tr(strings.TrimSpace(sanitize(text))), font: f}
}

// useName prints fallbackName in place of a name the core fonts cannot
// encode at all, such as one written in Cyrillic or CJK.
func (w *writer) useName(name string) {
	w.names = nameReplacer(name)
}

const fallbackName = "Athlete"

func nameReplacer(name string) *strings.Replacer {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(sanitize(name)) != "" {
		return nil
	}
	pairs := []string{name, fallbackName}
	if fields := strings.Fields(name); len(fields) > 1 {
		pairs = append(pairs, fields[0], fallbackName)
	}
	return strings.NewReplacer(pairs...)
}

func (w *writer) runHeight(r run, width float64) float64 {
	if r.text == "" {
		return 0
	}
	w.setFont(r.font)
	lines := w.SplitLines([]byte(r.text), width-r.indent)
	return r.before + float64(len(lines))*r.font.lineHeight()
}

func (w *writer) drawRun(r run, x, y, width float64) float64 {
	if r.text == "" {
		return y
	}
	w.setFont(r.font)
	fill := r.fill != nil
	if fill {
		w.SetFillColor(r.fill.r, r.fill.g, r.fill.b)
	}
	w.SetXY(x+r.indent, y+r.before)
	w.MultiCell(width-r.indent, r.font.lineHeight(), r.text, "", "L", fill)
	return w.GetY()
}

func (w *writer) boxHeight(b box, width float64) float64 {
	inner := width - 2*b.pad
	if b.bar != nil {
		inner -= w.st.barWidth
	}
	h := 2 * b.pad
	for _, r := range b.runs {
		h += w.runHeight(r, inner)
	}
	return h
}

func (w *writer) drawBox(b box, x, y, width, height float64) {
	if b.fill != nil {
		w.SetFillColor(b.fill.r, b.fill.g, b.fill.b)
		w.Rect(x, y, width, height, "F")
	}
	if b.bar != nil {
		w.SetFillColor(b.bar.r, b.bar.g, b.bar.b)
		w.Rect(x, y, w.st.barWidth, height, "F")
		x += w.st.barWidth
		width -= w.st.barWidth
	}
	cy := y + b.pad
	for _, r := range b.runs {
		cy = w.drawRun(r, x+b.pad, cy, width-2*b.pad)
	}
}

// ensure starts a new page when h does not fit below the cursor.
func (w *writer) ensure(h float64) {
	if w.GetY()+h > w.bottom {
		w.AddPage()
	}
}

// block draws a full width box. Boxes taller than a page flow without
// decoration and rely on automatic page breaks.
func (w *writer) block(b box) {
	h := w.boxHeight(b, w.width)
	if h > w.bottom-w.st.margin {
		y := w.GetY()
		for _, r := range b.runs {
			y = w.drawRun(r, w.left, y, w.width)
		}
		w.SetY(y + w.st.gap)
		return
	}
	w.ensure(h)
	y := w.GetY()
	w.drawBox(b, w.left, y, w.width, h)
	w.SetY(y + h + w.st.gap)
}

// grid lays boxes out in rows of cols, breaking pages between rows. A row
// taller than a page falls back to full width blocks.
func (w *writer) grid(boxes []box, cols int, gap float64) {
	if cols < 1 {
		cols = 1
	}
	colW := (w.width - gap*float64(cols-1)) / float64(cols)
	for start := 0; start < len(boxes); start += cols {
		end := start + cols
		if end > len(boxes) {
			end = len(boxes)
		}
		rowH := 0.0
		for _, b := range boxes[start:end] {
			if h := w.boxHeight(b, colW); h > rowH {
				rowH = h
			}
		}
		if rowH > w.bottom-w.st.margin {
			for _, b := range boxes[start:end] {
				w.block(b)
			}
			continue
		}
		w.ensure(rowH)
		y := w.GetY()
		for i, b := range boxes[start:end] {
			w.drawBox(b, w.left+float64(i)*(colW+gap), y, colW, rowH)
		}
		w.SetY(y + rowH + gap)
	}
}

func (w *writer) finish() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cp1252 lists the runes above U+00FF that the core fonts can print.
var cp1252 = map[rune]struct{}{
	'€': {}, '‚': {}, 'ƒ': {}, '„': {}, '…': {}, '†': {}, '‡': {}, 'ˆ': {}, '‰': {},
	'Š': {}, '‹': {}, 'Œ': {}, 'Ž': {}, '‘': {}, '’': {}, '“': {}, '”': {}, '•': {},
	'–': {}, '—': {}, '˜': {}, '™': {}, 'š': {}, '›': {}, 'œ': {}, 'ž': {}, 'Ÿ': {},
}

// sanitize drops runes the core fonts cannot encode, such as emoji.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x80 || (r >= 0xa0 && r <= 0xff) {
			return r
		}
		if _, ok := cp1252[r]; ok {
			return r
		}
		return -1
	}, s)
}
