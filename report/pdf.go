package report

import (
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders report commands into an A4 PDF. Coordinates are in
// points to match the builder's layout constants.
type PDFRenderer struct {
	pdf *gofpdf.Fpdf
}

func NewPDFRenderer() *PDFRenderer {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	return &PDFRenderer{pdf: pdf}
}

func (r *PDFRenderer) AddPage() {
	r.pdf.AddPage()
}

func (r *PDFRenderer) Text(x, y, size float64, style, text string) {
	r.pdf.SetFont("Helvetica", style, size)
	// y is the top of the text box, Text() wants the baseline
	r.pdf.Text(x, y+size, text)
}

func (r *PDFRenderer) Line(x1, y1, x2, y2 float64) {
	r.pdf.SetDrawColor(120, 120, 120)
	r.pdf.Line(x1, y1, x2, y2)
}

// Output writes the finished document.
func (r *PDFRenderer) Output(w io.Writer) error {
	return r.pdf.Output(w)
}
