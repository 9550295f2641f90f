package application

import (
	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
)

// Pivot reshapes records into one row per distinct date, in first-seen order, with a
// column for each station that has data on that date.
func Pivot(records []entities.TemperatureRecord) []entities.PivotRow {
	rows := make([]entities.PivotRow, 0)
	byDate := make(map[string]int)

	for _, record := range records {
		date := record.DateString()
		i, ok := byDate[date]
		if !ok {
			i = len(rows)
			byDate[date] = i
			rows = append(rows, entities.PivotRow{Date: date})
		}
		rows[i].Set(record.Station, entities.StationReading{
			AverageTemperature:        record.Avg,
			FiveDayAverageTemperature: record.FiveDayAvg,
		})
	}

	return rows
}
