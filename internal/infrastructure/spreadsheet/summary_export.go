// Package spreadsheet exporta el resultado de un lote a un libro XLSX.
package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Cotizaciones-api/internal/application/dto"
)

// Nombres de las hojas del libro exportado.
const (
	SheetSummary  = "摘要"
	SheetFailures = "錯誤"
)

var summaryHeaders = []any{"No", "客戶名稱", "單號", "發票種類", "小計", "營業稅", "總計", "備註"}

// SummaryWorkbook arma un libro con una fila por documento producido (hoja 摘要)
// y una por registro rechazado (hoja 錯誤). Los montos se escriben como números.
func SummaryWorkbook(result *dto.BatchResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("spreadsheet: resultado nil")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(SheetFailures); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	// ── 摘要 ────────────────────────────────────────────────────────────

	if err := f.SetSheetRow(SheetSummary, "A1", &summaryHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "H1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	for _, col := range []struct {
		name  string
		width float64
	}{{"A", 6}, {"B", 28}, {"C", 16}, {"D", 10}, {"E", 14}, {"F", 12}, {"G", 14}, {"H", 40}} {
		if err := f.SetColWidth(SheetSummary, col.name, col.name, col.width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col.name, err)
		}
	}

	row := 2
	for _, p := range result.Payloads {
		values := []any{
			p.Index,
			sanitizeCell(p.CustomerName),
			sanitizeCell(p.InvoiceNumber),
			sanitizeCell(p.InvoiceTypeLabel),
			p.Subtotal.InexactFloat64(),
			p.TaxAmount.InexactFloat64(),
			p.Total.InexactFloat64(),
			sanitizeCell(p.Remarks),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetSummary, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}
	if row > 2 {
		last := fmt.Sprintf("G%d", row-1)
		if err := f.SetCellStyle(SheetSummary, "E2", last, moneyStyle); err != nil {
			return nil, fmt.Errorf("style amounts: %w", err)
		}
		totalLabel, _ := excelize.CoordinatesToCellName(6, row)
		totalCell, _ := excelize.CoordinatesToCellName(7, row)
		_ = f.SetCellValue(SheetSummary, totalLabel, "合計")
		if err := f.SetCellFormula(SheetSummary, totalCell, fmt.Sprintf("SUM(G2:%s)", last)); err != nil {
			return nil, fmt.Errorf("write total: %w", err)
		}
		_ = f.SetCellStyle(SheetSummary, totalCell, totalCell, moneyStyle)
	}

	// ── 錯誤 ────────────────────────────────────────────────────────────

	if err := f.SetSheetRow(SheetFailures, "A1", &[]any{"No", "原因"}); err != nil {
		return nil, fmt.Errorf("write failures header: %w", err)
	}
	_ = f.SetCellStyle(SheetFailures, "A1", "B1", headerStyle)
	_ = f.SetColWidth(SheetFailures, "B", "B", 60)
	for i, fail := range result.Failures {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetFailures, cell, &[]any{fail.Index, joinReasons(fail.Reasons)}); err != nil {
			return nil, fmt.Errorf("write failure %d: %w", fail.Index, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func joinReasons(reasons []string) string {
	return sanitizeCell(strings.Join(reasons, "; "))
}

// sanitizeCell evita que un texto de la fuente se interprete como fórmula.
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
