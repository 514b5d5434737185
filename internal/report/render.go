package report

import (
	"bytes"
	"fmt"
	"time"

	"campus-kpi-tracker/internal/kpi"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// ContentType returns the MIME type for a render format
func ContentType(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Filename is the download name for rep in format
func Filename(rep *Report, format string) string {
	return fmt.Sprintf("Green_KPI_Report_%s_%d.%s", rep.Label, rep.GeneratedAt.Year(), format)
}

// RenderPDF renders rep as an A4 PDF with a summary and a records table
func RenderPDF(rep *Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(34, 139, 34)
	pdf.Cell(0, 10, Title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 6, tr(fmt.Sprintf("KPI: %s (%s)", rep.Label, rep.Unit)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Location: %s", rep.Location)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", rep.Period))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", rep.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(10)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total Actual: %s", kpi.FormatNumber(rep.Totals.Actual)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Target: %s", kpi.FormatNumber(rep.Totals.Target)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Over-Target Months: %d", rep.Totals.OverTargetCount))
	pdf.Ln(10)

	widths := []float64{35, 45, 28, 28, 22, 32}
	headers := []string{"Period", "Location", "Actual", "Target", "Status", "Assessment"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(34, 139, 34)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 255, 245)
	for i, r := range rep.Records {
		fill := i%2 == 1
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%s %d", r.Month, r.Year), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 6, tr(r.Location), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[2], 6, kpi.FormatNumber(r.Actual), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[3], 6, kpi.FormatNumber(r.Target), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[4], 6, string(r.Status), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[5], 6, r.Assessment, "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderXLSX renders rep as a workbook with summary and records sheets
func RenderXLSX(rep *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	recordsSheet := "records"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{Title},
		{},
		{"KPI", rep.Label},
		{"Unit", rep.Unit},
		{"Location", rep.Location},
		{"Period", rep.Period},
		{"Generated", rep.GeneratedAt.Format(time.RFC3339)},
		{"Total Actual", rep.Totals.Actual},
		{"Total Target", rep.Totals.Target},
		{"Overall Status", string(rep.Totals.Status)},
		{"Over-Target Months", rep.Totals.OverTargetCount},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	header := []interface{}{"Period", "Location", "Actual", "Target", "Unit", "Status", "Assessment"}
	if err := f.SetSheetRow(recordsSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, r := range rep.Records {
		row := []interface{}{
			fmt.Sprintf("%s %d", r.Month, r.Year), r.Location, r.Actual, r.Target,
			r.Unit, string(r.Status), r.Assessment,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(recordsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
