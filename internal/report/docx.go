package report

import (
	"bytes"
	"fmt"

	docx "github.com/fumiama/go-docx"
)

const (
	docxNavy       = "002147"
	docxHeaderFill = "DCE6F1"
	docxLinkColor  = "0000EE"
)

// renderDOCX writes a centred title block, then a bordered table per
// platform with a shaded header row and hyperlinked URLs.
func renderDOCX(sections []Section, opts Options) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().Justification("center").
		AddText(opts.Title).Bold().Size("32").Color(docxNavy)
	doc.AddParagraph().Justification("center").
		AddText(opts.Subtitle).Bold().Size("28").Color(docxNavy)
	doc.AddParagraph().Justification("center").
		AddText("(" + opts.GeneratedAt.Format(dateLayout) + ")")
	doc.AddParagraph()

	for _, sec := range sections {
		doc.AddParagraph().AddText(sec.Platform).Bold().Size("26").Color(docxNavy)

		tbl := doc.AddTable(len(sec.Rows)+1, len(columns), 0, nil)
		for i, name := range columns {
			tbl.TableRows[0].TableCells[i].
				Shade("clear", "auto", docxHeaderFill).
				AddParagraph().AddText(name).Bold()
		}
		for r, cells := range sec.Rows {
			row := tbl.TableRows[r+1]
			for i, text := range cells {
				para := row.TableCells[i].AddParagraph()
				if i == urlColumn && text != "" {
					addLink(para, text)
					continue
				}
				para.AddText(text)
			}
		}
		doc.AddParagraph()
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write docx: %w", err)
	}
	return buf.Bytes(), nil
}

// addLink appends url as a blue underlined hyperlink. The library stores
// link text as a field instruction, so it is replaced by a plain text run.
func addLink(para *docx.Paragraph, url string) {
	link := para.AddLink(url, url)
	link.Run.InstrText = ""
	link.Run.Children = append(link.Run.Children, &docx.Text{Text: url})
	link.Run.Color(docxLinkColor).Underline("single")
}
