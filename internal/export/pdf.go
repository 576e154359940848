package export

import (
	"bytes"
	"fmt"

	"github.com/avilaruiz/billbook-backend/pkg/config"
	"github.com/avilaruiz/billbook-backend/pkg/db/models"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Renderer turns a bill group into a printable PDF document.
type Renderer struct {
	businessName string
	footerNote   string
}

// NewRenderer builds a PDF renderer from the export configuration.
func NewRenderer(cfg config.ExportConfig) *Renderer {
	name := cfg.BusinessName
	if name == "" {
		name = "Billbook"
	}
	return &Renderer{businessName: name, footerNote: cfg.FooterNote}
}

// Render produces the PDF bytes for one bill group. Rows must be the full
// ordered membership of the group; the first row supplies customer, group id,
// and creation date for the header.
func (r *Renderer) Render(rows []models.Bill) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("render pdf: empty bill group")
	}
	head := rows[0]

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Bill %s", head.GroupID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, r.businessName)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Customer: %s", head.CustomerName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Bill: %s", head.GroupID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", head.CreatedAt.Format("2006-01-02")))
	pdf.Ln(10)

	widths := []float64{60, 15, 25, 25, 25, 30}
	headers := []string{"Product", "Qty", "Unit Price", "Total", "Paid", "Remaining"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	grand := decimal.Zero
	paid := decimal.Zero
	remaining := decimal.Zero

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		grand = grand.Add(row.Total)
		paid = paid.Add(row.PaidAmount)
		remaining = remaining.Add(row.RemainingAmount)

		pdf.CellFormat(widths[0], 6, row.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", row.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, row.PricePerUnit.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, row.Total.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, row.PaidAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, row.RemainingAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Grand Total: %s", grand.StringFixed(2)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Paid: %s", paid.StringFixed(2)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Balance Due: %s", remaining.StringFixed(2)))

	if r.footerNote != "" {
		pdf.Ln(12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.Cell(0, 5, r.footerNote)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
