package httpapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/middleware"
)

const exportTimeLayout = "2006-01-02 15:04:05"

func exportRows(h *Handler, r *http.Request) ([]calculation.ExportRow, error) {
	f, err := historyFilter(r)
	if err != nil {
		return nil, err
	}
	return h.history.Export(r.Context(), middleware.GetUserID(r.Context()), f)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := exportRows(h, r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	filename := fmt.Sprintf("calculation_history_%s.csv", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"No", "Expression", "Result", "Type", "Date/Time"})
	for _, row := range rows {
		_ = cw.Write([]string{
			strconv.Itoa(row.Index),
			row.Expression,
			row.Result,
			string(row.Kind),
			row.CreatedAt.Format(exportTimeLayout),
		})
	}
	cw.Flush()
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	rows, err := exportRows(h, r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, "Calculation History")
	lines = append(lines, "")
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%d. %s = %s  [%s]  %s",
			row.Index, row.Expression, row.Result, row.Kind,
			row.CreatedAt.Format(exportTimeLayout)))
	}

	filename := fmt.Sprintf("calculation_history_%s.pdf", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(renderPDF(lines))
}

const pdfLinesPerPage = 48

// renderPDF emits a minimal PDF 1.4 document with one Helvetica text column.
// Offsets in the cross-reference table are tracked as objects are written.
func renderPDF(lines []string) []byte {
	pages := splitPages(lines, pdfLinesPerPage)
	if len(pages) == 0 {
		pages = [][]string{{}}
	}

	// Object layout: 1 catalog, 2 page tree, 3 font, then one page object and
	// one content stream per page.
	numObjects := 3 + 2*len(pages)
	offsets := make([]int, numObjects+1)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	writeObj := func(id int, body string) {
		offsets[id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
	}

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, page := range pages {
		pageID := 4 + 2*i
		contentID := pageID + 1

		writeObj(pageID, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentID))

		var content bytes.Buffer
		content.WriteString("BT\n/F1 10 Tf\n50 742 Td\n14 TL\n")
		for _, line := range page {
			fmt.Fprintf(&content, "(%s) Tj\nT*\n", escapePDFText(line))
		}
		content.WriteString("ET\n")

		writeObj(contentID, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()))
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", numObjects+1)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id <= numObjects; id++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", numObjects+1, xrefStart)
	return buf.Bytes()
}

func splitPages(lines []string, perPage int) [][]string {
	var pages [][]string
	for len(lines) > 0 {
		n := perPage
		if n > len(lines) {
			n = len(lines)
		}
		pages = append(pages, lines[:n])
		lines = lines[n:]
	}
	return pages
}

// escapePDFText escapes the characters with special meaning inside a PDF
// string literal and strips bytes outside the printable Latin-1 range.
func escapePDFText(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			out.WriteByte('\\')
			out.WriteRune(r)
		default:
			if r >= 32 && r < 127 {
				out.WriteRune(r)
			} else {
				out.WriteByte('?')
			}
		}
	}
	return out.String()
}
