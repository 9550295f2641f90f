package application

import (
	"encoding/json"
	"testing"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
	"github.com/k-shtanenko/temperature-archive/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivot(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		rows := Pivot(nil)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("one row per date with station columns", func(t *testing.T) {
		records := []entities.TemperatureRecord{
			testutils.Record(1, 58238, "2024-01-01", 3.8, 2.5),
			testutils.Record(2, 58349, "2024-01-01", 4.1, 2.9),
			testutils.Record(3, 58238, "2024-01-02", 5.0, 3.0),
			testutils.Record(4, 58349, "2024-01-02", 5.5, 3.2),
		}

		rows := Pivot(records)
		require.Len(t, rows, 2)
		assert.Equal(t, "2024-01-01", rows[0].Date)
		assert.Equal(t, "2024-01-02", rows[1].Date)
		for _, row := range rows {
			assert.Len(t, row.Columns, 2)
		}

		reading, ok := rows[1].Reading(58349)
		require.True(t, ok)
		assert.Equal(t, entities.StationReading{AverageTemperature: 5.5, FiveDayAverageTemperature: 3.2}, reading)
	})

	t.Run("sparse columns", func(t *testing.T) {
		records := []entities.TemperatureRecord{
			testutils.Record(1, 58238, "2024-01-01", 1, 1),
			testutils.Record(2, 58349, "2024-01-02", 2, 2),
		}

		rows := Pivot(records)
		require.Len(t, rows, 2)
		_, ok := rows[0].Reading(58349)
		assert.False(t, ok)
		_, ok = rows[1].Reading(58238)
		assert.False(t, ok)
	})

	t.Run("date order follows first appearance", func(t *testing.T) {
		records := []entities.TemperatureRecord{
			testutils.Record(1, 58238, "2024-01-03", 1, 1),
			testutils.Record(2, 58238, "2024-01-01", 1, 1),
			testutils.Record(3, 58349, "2024-01-03", 1, 1),
		}

		rows := Pivot(records)
		require.Len(t, rows, 2)
		assert.Equal(t, "2024-01-03", rows[0].Date)
		assert.Equal(t, []int{58238, 58349}, []int{rows[0].Columns[0].Station, rows[0].Columns[1].Station})
	})

	t.Run("lossless on distinct keys", func(t *testing.T) {
		records := []entities.TemperatureRecord{
			testutils.Record(1, 58238, "2024-01-01", 1.1, 1.2),
			testutils.Record(2, 58349, "2024-01-01", 2.1, 2.2),
			testutils.Record(3, 58251, "2024-01-02", 3.1, 3.2),
			testutils.Record(4, 58238, "2024-01-03", 4.1, 4.2),
		}

		rows := Pivot(records)

		cells := 0
		for _, row := range rows {
			cells += len(row.Columns)
		}
		assert.Equal(t, len(records), cells)

		for _, record := range records {
			matches := 0
			for _, row := range rows {
				if reading, ok := row.Reading(record.Station); ok && row.Date == record.DateString() {
					matches++
					assert.Equal(t, record.Avg, reading.AverageTemperature)
					assert.Equal(t, record.FiveDayAvg, reading.FiveDayAverageTemperature)
				}
			}
			assert.Equal(t, 1, matches)
		}
	})

	t.Run("json shape", func(t *testing.T) {
		rows := Pivot([]entities.TemperatureRecord{
			testutils.Record(1, 58238, "2024-01-01", 3.8, 2.5),
			testutils.Record(2, 58349, "2024-01-01", 4, 3),
		})

		data, err := json.Marshal(rows)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"date":"2024-01-01",
			"58238":{"averageTemperature":3.8,"fiveDayAverageTemperature":2.5},
			"58349":{"averageTemperature":4,"fiveDayAverageTemperature":3}}]`, string(data))
	})
}
