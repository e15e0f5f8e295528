package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 10.0 // mm
	pdfFooterRoom = 8.0
	pdfLineHeight = 4.5
	pdfCellPad    = 1.0
	pdfFontSize   = 8.0
	urlColumn     = 1
)

// Column widths in mm, filling the A4 portrait text width.
var pdfColumnWidths = []float64{13, 68, 44, 34, 31}

type rgb struct{ r, g, b int }

var (
	navy       = rgb{0, 33, 71}
	black      = rgb{0, 0, 0}
	white      = rgb{255, 255, 255}
	headerFill = rgb{220, 230, 241}
	stripeFill = rgb{247, 249, 251}
	gridColor  = rgb{128, 128, 128}
	linkColor  = rgb{0, 0, 238}
)

// pdfWriter holds the document and its cp1252 translator. The core fonts
// only cover Windows-1252, so every string goes through tr first.
type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// pdfRow is a table row already split into lines for its column widths.
type pdfRow struct {
	cells  []string
	lines  [][][]byte
	height float64
	style  string
}

// renderPDF lays the title block out on top of one grid table per
// platform. URL cells are clickable. The header row is repeated after
// every page break.
func renderPDF(sections []Section, opts Options, compress bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetCreationDate(opts.GeneratedAt)
	pdf.SetTitle(opts.Title, true)
	pdf.AliasNbPages("")

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(w.footer)

	pdf.AddPage()
	pdf.SetDrawColor(gridColor.r, gridColor.g, gridColor.b)
	pdf.SetLineWidth(0.2)
	w.titleBlock(opts)
	for _, sec := range sections {
		w.section(sec)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) titleBlock(opts Options) {
	p := w.pdf
	w.textColor(navy)
	p.SetFont("Helvetica", "B", 15)
	p.CellFormat(0, 8, w.tr(opts.Title), "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, 7, w.tr(opts.Subtitle), "", 1, "C", false, 0, "")
	w.textColor(black)
	p.SetFont("Helvetica", "", 10)
	p.CellFormat(0, 6, "("+opts.GeneratedAt.Format(dateLayout)+")", "", 1, "C", false, 0, "")
	p.Ln(4)
}

func (w *pdfWriter) section(sec Section) {
	p := w.pdf
	header := w.layout(columns, "B")
	var first pdfRow
	if len(sec.Rows) > 0 {
		first = w.layout(sec.Rows[0], "")
	}
	// keep the platform heading with its header row and first record
	if p.GetY()+8+header.height+first.height > w.bottom() {
		p.AddPage()
	}

	w.textColor(navy)
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, 8, w.tr(sec.Platform), "", 1, "L", false, 0, "")
	w.draw(header, headerFill, false)

	for i, cells := range sec.Rows {
		row := w.layout(cells, "")
		if p.GetY()+row.height > w.bottom() {
			p.AddPage()
			w.draw(header, headerFill, false)
		}
		fill := white
		if i%2 == 1 {
			fill = stripeFill
		}
		w.draw(row, fill, true)
	}
	p.Ln(6)
}

// layout wraps every cell to its column and sizes the row on the tallest one.
func (w *pdfWriter) layout(cells []string, style string) pdfRow {
	w.pdf.SetFont("Helvetica", style, pdfFontSize)
	row := pdfRow{cells: cells, lines: make([][][]byte, len(cells)), style: style}
	n := 1
	for i, c := range cells {
		row.lines[i] = w.pdf.SplitLines([]byte(w.tr(c)), pdfColumnWidths[i])
		n = max(n, len(row.lines[i]))
	}
	row.height = float64(n)*pdfLineHeight + 2*pdfCellPad
	return row
}

func (w *pdfWriter) draw(row pdfRow, fill rgb, links bool) {
	p := w.pdf
	p.SetFont("Helvetica", row.style, pdfFontSize)
	p.SetFillColor(fill.r, fill.g, fill.b)

	x, y := pdfMargin, p.GetY()
	for i, width := range pdfColumnWidths {
		p.Rect(x, y, width, row.height, "FD")

		link := ""
		w.textColor(black)
		if links && i == urlColumn && row.cells[i] != "" {
			link = row.cells[i]
			w.textColor(linkColor)
		}
		p.SetXY(x, y+pdfCellPad)
		for _, line := range row.lines[i] {
			p.CellFormat(width, pdfLineHeight, string(line), "", 2, "L", false, 0, link)
		}
		x += width
	}
	w.textColor(black)
	p.SetXY(pdfMargin, y+row.height)
}

func (w *pdfWriter) footer() {
	p := w.pdf
	p.SetY(-pdfMargin)
	p.SetFont("Helvetica", "I", 8)
	w.textColor(gridColor)
	p.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", p.PageNo()), "", 0, "C", false, 0, "")
}

func (w *pdfWriter) bottom() float64 {
	_, h := w.pdf.GetPageSize()
	return h - pdfMargin - pdfFooterRoom
}

func (w *pdfWriter) textColor(c rgb) {
	w.pdf.SetTextColor(c.r, c.g, c.b)
}
