package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"pcp-backend/internal/service/oee"
)

type MetricsComputer interface {
	Compute(ctx context.Context, start, end time.Time, sectorID, machineID *int64) (*oee.Result, error)
}

type ExcelService struct {
	metrics MetricsComputer
}

func NewExcelService(metrics MetricsComputer) *ExcelService {
	return &ExcelService{metrics: metrics}
}

// GenerateOEEReport renders the OEE summary plus the per-run drill-down of
// the window into a spreadsheet.
func (g *ExcelService) GenerateOEEReport(ctx context.Context, start, end time.Time, sectorID, machineID *int64) ([]byte, error) {
	const op = "service.report.GenerateOEEReport"

	result, err := g.metrics.Compute(ctx, start, end, sectorID, machineID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "OEE"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	pctStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2})

	// Summary block on top.
	summary := [][]interface{}{
		{"Period", fmt.Sprintf("%s - %s", start.Format("02/01/2006"), end.Format("02/01/2006"))},
		{"Availability %", result.Availability},
		{"Performance %", result.Performance},
		{"Quality %", result.Quality},
		{"OEE %", result.OEE},
		{"Loss cost", result.CostOEE},
		{"Extra cost", result.CostExtra},
		{"Productive hours", result.ProductiveHours},
	}
	for i, pair := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		f.SetCellValue(sheet, labelCell, pair[0])
		f.SetCellValue(sheet, valueCell, pair[1])
	}
	f.SetCellStyle(sheet, "B2", "B8", pctStyle)

	headers := []string{"Date", "Machine", "Closed", "Target/h", "Registered min", "Availability min",
		"Performance min", "Produced", "Scrap", "Extra cost"}

	headerRow := len(summary) + 2
	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheet, cell, name)
	}
	firstHeader, _ := excelize.CoordinatesToCellName(1, headerRow)
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), headerRow)
	f.SetCellStyle(sheet, firstHeader, lastHeader, headerStyle)

	for i, row := range result.Details {
		values := []interface{}{
			row.Date.Format("02/01/2006"),
			row.MachineName,
			row.Closed,
			row.TargetRate,
			row.RegisteredMin,
			row.AvailabilityMin,
			row.PerformanceMin,
			row.Produced,
			row.Scrap,
			row.ExtraCost,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, headerRow+1+i)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "B", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("%s: failed to write workbook: %w", op, err)
	}

	return buf.Bytes(), nil
}
