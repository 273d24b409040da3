package infra

// pdf.go — PDF receipt generation using go-pdf/fpdf.
// Renders a thermal-receipt-style ticket for a paid sale: header, sale number
// and timestamp, item table (name, qty, subtotal) and a bold total. Amounts
// are formatted from integer cents; no floating point touches money.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JamLaMin/rsw-webapp/internal/model"

	"github.com/go-pdf/fpdf"
)

// FormatCents renders an integer-cents amount as a euro string, e.g. 150 → "€ 1.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€ %d.%02d", sign, cents/100, cents%100)
}

// GenerateReceiptPDF writes a PDF receipt for a paid sale into storagePath
// (created if needed) and returns the path of the generated file.
func GenerateReceiptPDF(sale *model.Sale, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%d.pdf", sale.ID)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "RSW Kassa", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	registerName := ""
	if sale.Register != nil {
		registerName = sale.Register.Name
	}
	pdf.CellFormat(contentW, 5, registerName, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Sale info ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Sale #%d", sale.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	when := sale.CreatedAt
	if sale.PaidAt != nil {
		when = *sale.PaidAt
	}
	pdf.CellFormat(contentW, 4, when.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	// ── Item rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		// Truncate long names
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Qty), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, FormatCents(item.SubtotalCents()), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Total ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, FormatCents(sale.TotalCents()), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Paid in cash", "", 1, "L", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Bedankt voor je aankoop!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
