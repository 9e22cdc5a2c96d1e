package infra

// pdf.go: payment receipts rendered with go-pdf/fpdf.
// A6 portrait page with:
//   - Gym name header
//   - Reference and timestamp
//   - Client, plan and membership period
//   - Base amount, discount line (if applicable) and bold total
//   - Payment method

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ReciboPago carries everything printed on a payment receipt.
type ReciboPago struct {
	Gimnasio     string
	Referencia   string
	FechaPago    time.Time
	Cliente      string
	Plan         string
	Periodo      string
	MontoBase    decimal.Decimal
	DescuentoPct decimal.Decimal
	Total        decimal.Decimal
	MetodoPago   string
	Anulado      bool
}

// WriteReciboPDF renders r as a PDF into w.
func WriteReciboPDF(w io.Writer, r ReciboPago) error {
	pdf := fpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 16

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(r.Gimnasio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Recibo de pago", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Ref. "+r.Referencia, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, r.FechaPago.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(2)

	// ── Detail ───────────────────────────────────────────────────────────────
	label := contentW * 0.4
	value := contentW * 0.6
	row := func(k, v string) {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(label, 5, tr(k), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(value, 5, tr(v), "", 1, "R", false, 0, "")
	}
	row("Cliente:", r.Cliente)
	row("Plan:", r.Plan)
	if r.Periodo != "" {
		row("Periodo:", r.Periodo)
	}
	row("Metodo de pago:", r.MetodoPago)
	pdf.Ln(2)
	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	row("Monto base:", "$"+r.MontoBase.StringFixed(2))
	if !r.DescuentoPct.IsZero() {
		row("Descuento:", fmt.Sprintf("%s%%", r.DescuentoPct.StringFixed(2)))
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(label, 7, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(value, 7, "$"+r.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if r.Anulado {
		pdf.Ln(3)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(contentW, 7, "ANULADO", "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por entrenar con nosotros!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}
