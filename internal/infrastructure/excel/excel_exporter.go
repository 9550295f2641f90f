package excel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const (
	contentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	statisticsName = "Statistics"
	comparisonName = "Comparison"
	defaultSheet   = "Sheet1"
)

type ExcelPivotExporter struct {
	sheetName string
	logger    logger.Logger
}

// NewExcelPivotExporter names the comparison sheet. Excel sheet names are case
// insensitive, so a name clashing with the statistics sheet falls back to the default.
func NewExcelPivotExporter(sheetName string, log logger.Logger) *ExcelPivotExporter {
	log = log.WithField("component", "excel_exporter")
	if strings.EqualFold(sheetName, statisticsName) {
		log.Warnf("Sheet name %q is reserved, using %q", sheetName, comparisonName)
		sheetName = ""
	}
	if sheetName == "" {
		sheetName = comparisonName
	}
	return &ExcelPivotExporter{
		sheetName: sheetName,
		logger:    log,
	}
}

func (e *ExcelPivotExporter) ContentType() string {
	return contentType
}

// ExportPivotTable writes one row per date and an avg / 5-day avg column pair per
// station, stations in first-seen order. Missing readings stay blank.
func (e *ExcelPivotExporter) ExportPivotTable(ctx context.Context, rows []entities.PivotRow) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetDocProps(&excelize.DocProperties{
		Title:   "Station temperature comparison",
		Subject: "Daily average temperatures",
		Creator: "Temperature Archive API",
		Created: time.Now().UTC().Format(time.RFC3339),
	})

	if err := f.SetSheetName(defaultSheet, e.sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	stations := stationOrder(rows)
	if err := e.writeComparisonSheet(f, rows, stations); err != nil {
		return nil, fmt.Errorf("failed to create comparison sheet: %w", err)
	}
	if err := e.writeStatisticsSheet(f, rows, stations); err != nil {
		return nil, fmt.Errorf("failed to create statistics sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel to buffer: %w", err)
	}

	e.logger.Infof("Exported %d rows for %d stations", len(rows), len(stations))
	return buf.Bytes(), nil
}

func (e *ExcelPivotExporter) writeComparisonSheet(f *excelize.File, rows []entities.PivotRow, stations []int) error {
	headers := []interface{}{"Date"}
	for _, station := range stations {
		headers = append(headers, fmt.Sprintf("%d avg", station), fmt.Sprintf("%d 5-day avg", station))
	}
	if err := f.SetSheetRow(e.sheetName, "A1", &headers); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(e.sheetName, "A1", cell(len(headers), 1), headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		line := i + 2
		if err := f.SetCellValue(e.sheetName, cell(1, line), row.Date); err != nil {
			return err
		}
		for j, station := range stations {
			reading, ok := row.Reading(station)
			if !ok {
				continue
			}
			col := 2 + j*2
			if err := f.SetCellValue(e.sheetName, cell(col, line), reading.AverageTemperature); err != nil {
				return err
			}
			if err := f.SetCellValue(e.sheetName, cell(col+1, line), reading.FiveDayAverageTemperature); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(e.sheetName, "A", "A", 14); err != nil {
		return err
	}
	if len(headers) > 1 {
		if err := f.SetColWidth(e.sheetName, colLetter(2), colLetter(len(headers)), 16); err != nil {
			return err
		}
	}

	return f.SetPanes(e.sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (e *ExcelPivotExporter) writeStatisticsSheet(f *excelize.File, rows []entities.PivotRow, stations []int) error {
	if len(stations) == 0 {
		return nil
	}

	if _, err := f.NewSheet(statisticsName); err != nil {
		return err
	}

	header := []interface{}{"Station", "Days", "Mean avg", "Min avg", "Max avg"}
	if err := f.SetSheetRow(statisticsName, "A1", &header); err != nil {
		return err
	}

	for i, station := range stations {
		var (
			days      int
			total     float64
			low, high float64
		)
		for _, row := range rows {
			reading, ok := row.Reading(station)
			if !ok {
				continue
			}
			value := reading.AverageTemperature
			if days == 0 || value < low {
				low = value
			}
			if days == 0 || value > high {
				high = value
			}
			total += value
			days++
		}

		values := []interface{}{station, days, total / float64(days), low, high}
		if err := f.SetSheetRow(statisticsName, cell(1, i+2), &values); err != nil {
			return err
		}
	}

	return f.SetColWidth(statisticsName, "A", "E", 14)
}

// stationOrder lists stations in the order they first appear across rows.
func stationOrder(rows []entities.PivotRow) []int {
	seen := make(map[int]struct{})
	stations := make([]int, 0)
	for _, row := range rows {
		for _, column := range row.Columns {
			if _, ok := seen[column.Station]; ok {
				continue
			}
			seen[column.Station] = struct{}{}
			stations = append(stations, column.Station)
		}
	}
	return stations
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func colLetter(col int) string {
	letter, _ := excelize.ColumnNumberToName(col)
	return letter
}
