package infra

// pdf.go — invoice PDF generation with go-pdf/fpdf. Renders A7-size
// thermal-receipt style invoices: shop header, invoice number and date,
// one row per sale line, bold total, payment method.
// Output goes to storagePath/invoice_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"fabrictrack/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateInvoicePDF renders a receipt for all Sale rows sharing one invoice
// number. Returns the path of the written file.
func GenerateInvoicePDF(sales []model.Sale, storagePath string) (string, error) {
	if len(sales) == 0 {
		return "", fmt.Errorf("pdf: no sale lines for invoice")
	}
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	head := sales[0]
	fileName := fmt.Sprintf("invoice_%s.pdf", head.InvoiceNumber)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm, close to thermal receipt paper (not in fpdf's named sizes)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "FabricTrack", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sales Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, head.InvoiceNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, head.SaleDate.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if head.CustomerName != "" {
		pdf.CellFormat(contentW, 4, "Customer: "+head.CustomerName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52 // fabric name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // amount

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Fabric", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	total := decimal.Zero
	for i := range sales {
		line := &sales[i]
		name := ""
		if line.Fabric != nil {
			name = line.Fabric.Name
		}
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, line.Quantity.String()+" "+line.Unit, "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "₹"+line.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")
		total = total.Add(line.TotalAmount)
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "₹"+total.StringFixed(2), "", 1, "R", false, 0, "")

	if head.PaymentMethod != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(col1+col2, 4, "Paid via "+head.PaymentMethod, "", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for your business!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
