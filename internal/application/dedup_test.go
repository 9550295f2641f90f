package application

import (
	"fmt"
	"testing"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
	"github.com/k-shtanenko/temperature-archive/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicate(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Deduplicate(nil))
	})

	t.Run("reverses to ascending order", func(t *testing.T) {
		newestFirst := []entities.TemperatureRecord{
			testutils.Record(3, 58238, "2024-01-03", 3, 3),
			testutils.Record(2, 58238, "2024-01-02", 2, 2),
			testutils.Record(1, 58238, "2024-01-01", 1, 1),
		}
		result := Deduplicate(newestFirst)
		require.Len(t, result, 3)
		assert.Equal(t, "2024-01-01", result[0].DateString())
		assert.Equal(t, "2024-01-03", result[2].DateString())
	})

	t.Run("keeps the record the store yielded last among ties", func(t *testing.T) {
		// store order: date desc, id asc
		newestFirst := []entities.TemperatureRecord{
			testutils.Record(10, 58238, "2024-01-02", 5.0, 4.0),
			testutils.Record(4, 58238, "2024-01-01", 1.5, 2.5),
			testutils.Record(7, 58238, "2024-01-01", 3.8, 2.5),
		}
		result := Deduplicate(newestFirst)
		require.Len(t, result, 2)
		assert.Equal(t, int64(7), result[0].ID)
		assert.Equal(t, 3.8, result[0].Avg)
		assert.Equal(t, int64(10), result[1].ID)
	})

	t.Run("same date on different stations is not a duplicate", func(t *testing.T) {
		newestFirst := []entities.TemperatureRecord{
			testutils.Record(1, 58238, "2024-01-01", 1, 1),
			testutils.Record(2, 58349, "2024-01-01", 2, 2),
		}
		assert.Len(t, Deduplicate(newestFirst), 2)
	})

	t.Run("each key exactly once", func(t *testing.T) {
		var newestFirst []entities.TemperatureRecord
		id := int64(0)
		for day := 28; day >= 1; day-- {
			for _, station := range []int{58238, 58349, 58251} {
				for copies := 0; copies < day%3+1; copies++ {
					id++
					newestFirst = append(newestFirst, testutils.Record(id, station, fmt.Sprintf("2024-02-%02d", day), float64(day), 0))
				}
			}
		}

		result := Deduplicate(newestFirst)

		seen := make(map[entities.RecordKey]int)
		for _, record := range result {
			seen[record.Key()]++
		}
		assert.Len(t, result, 28*3)
		for key, count := range seen {
			assert.Equal(t, 1, count, "key %v", key)
		}
	})

	t.Run("does not modify input", func(t *testing.T) {
		newestFirst := []entities.TemperatureRecord{
			testutils.Record(2, 58238, "2024-01-02", 2, 2),
			testutils.Record(1, 58238, "2024-01-01", 1, 1),
		}
		Deduplicate(newestFirst)
		assert.Equal(t, int64(2), newestFirst[0].ID)
	})
}
