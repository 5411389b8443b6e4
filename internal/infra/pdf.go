package infra

// pdf.go: purchase receipt generation with go-pdf/fpdf.
// Receipt-sized page (74mm × 105mm) with:
//   - Gym header and receipt number
//   - Member name and DNI
//   - Plan, validity window and amount paid
//   - License QR code (barcode content)
//
// The output file is saved to storagePath/recibo_{numero}.pdf.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Recibo is the data printed on a purchase receipt.
type Recibo struct {
	Numero        string          `json:"numero"`
	Fecha         time.Time       `json:"fecha"`
	Miembro       string          `json:"miembro"`
	DNI           string          `json:"dni"`
	Plan          string          `json:"plan"`
	Monto         decimal.Decimal `json:"monto"`
	MetodoPago    string          `json:"metodo_pago"`
	VigenciaDesde time.Time       `json:"vigencia_desde"`
	VigenciaHasta time.Time       `json:"vigencia_hasta"`
	CodigoBarras  string          `json:"codigo_barras"`
}

// GenerateReciboPDF writes the receipt and returns its path.
func GenerateReciboPDF(r Recibo, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("recibo_%s.pdf", r.Numero))

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "gymdesk", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Comprobante de membresía"), "", 1, "C", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW, 4, tr("Recibo N° "+r.Numero), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, r.Fecha.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Body ─────────────────────────────────────────────────────────────────
	labelW := contentW * 0.38
	valueW := contentW - labelW
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(labelW, 4, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(valueW, 4, tr(value), "", 1, "L", false, 0, "")
	}
	row("Miembro:", r.Miembro)
	row("DNI:", r.DNI)
	row("Plan:", r.Plan)
	row("Vigencia:", r.VigenciaDesde.Format("02/01/2006")+" al "+r.VigenciaHasta.Format("02/01/2006"))
	row("Medio de pago:", r.MetodoPago)

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(labelW, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 6, "$"+r.Monto.StringFixed(2), "", 1, "R", false, 0, "")

	// ── License QR ───────────────────────────────────────────────────────────
	if r.CodigoBarras != "" {
		png, err := LicenciaQR(r.CodigoBarras, 256)
		if err != nil {
			return "", err
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("licencia", opts, bytes.NewReader(png))
		size := 28.0
		pdf.ImageOptions("licencia", (pageW-size)/2, pdf.GetY()+2, size, size, false, opts, 0, "")
		pdf.SetY(pdf.GetY() + size + 3)
		pdf.SetFont("Courier", "", 8)
		pdf.CellFormat(contentW, 4, r.CodigoBarras, "", 1, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
