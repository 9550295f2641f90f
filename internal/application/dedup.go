package application

import (
	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
)

// recordSet is an insertion-ordered map of records keyed by (station, date).
// The first record put for a key wins.
type recordSet struct {
	index   map[entities.RecordKey]int
	records []entities.TemperatureRecord
}

func newRecordSet(capacity int) *recordSet {
	return &recordSet{
		index:   make(map[entities.RecordKey]int, capacity),
		records: make([]entities.TemperatureRecord, 0, capacity),
	}
}

func (s *recordSet) putIfAbsent(record entities.TemperatureRecord) bool {
	key := record.Key()
	if _, exists := s.index[key]; exists {
		return false
	}
	s.index[key] = len(s.records)
	s.records = append(s.records, record)
	return true
}

// Deduplicate expects records in the store's date-descending order. It reverses them to
// ascending order and keeps the first record seen for each (station, date), so among
// duplicates the one the store yielded last survives. The input is not modified.
func Deduplicate(newestFirst []entities.TemperatureRecord) []entities.TemperatureRecord {
	set := newRecordSet(len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		set.putIfAbsent(newestFirst[i])
	}
	return set.records
}
