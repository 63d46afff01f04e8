package infra

// pdf.go — printable job sheet generation using go-pdf/fpdf.
// Renders a product's recipe as an A4 table the shop floor can work from:
//   - Product header (code, name, category)
//   - One row per recipe line (seq, section, code, name, instruction)
//   - Sub-steps indented under their parent sequence

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"signrecipes/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateJobSheetPDF writes a job sheet for the given recipe rows.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateJobSheetPDF(product dto.ProductResponse, rows []dto.ExportRow, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("jobsheet_%s.pdf", product.Code)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Manufacturing Job Sheet", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("%s — %s", product.Code, product.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Category: "+product.Category, "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Table header ─────────────────────────────────────────────────────────
	colSeq := contentW * 0.07
	colSec := contentW * 0.12
	colCode := contentW * 0.22
	colName := contentW * 0.26
	colInstr := contentW * 0.33

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colSeq, 6, "Seq", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colSec, 6, "Section", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCode, 6, "Code", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colName, 6, "Name", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colInstr, 6, "Work Instruction", "B", 1, "L", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		seq := fmt.Sprintf("%d", row.Sequence)
		if row.ParentSequence != nil {
			// Sub-step: show parent linkage and indent
			seq = fmt.Sprintf("%d.%d", *row.ParentSequence, row.Sequence)
		}
		pdf.CellFormat(colSeq, 5, seq, "", 0, "L", false, 0, "")
		pdf.CellFormat(colSec, 5, row.Section, "", 0, "L", false, 0, "")
		pdf.CellFormat(colCode, 5, truncate(row.Code, 24), "", 0, "L", false, 0, "")
		pdf.CellFormat(colName, 5, truncate(row.Name, 28), "", 0, "L", false, 0, "")
		pdf.CellFormat(colInstr, 5, truncate(row.WorkInstruction, 40), "", 1, "L", false, 0, "")
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("%d lines", len(rows)), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// truncate cuts on runes, not bytes, so a multi-byte character at the cut
// point cannot leave invalid UTF-8 in the rendered cell.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
