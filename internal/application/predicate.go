package application

import (
	"time"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
)

// PredicateBuilder translates a validated QuerySpec into a store filter. Build never fails.
type PredicateBuilder struct {
	registry *entities.StationRegistry
}

func NewPredicateBuilder(registry *entities.StationRegistry) *PredicateBuilder {
	return &PredicateBuilder{registry: registry}
}

func (b *PredicateBuilder) Build(spec entities.QuerySpec) entities.RecordFilter {
	switch q := spec.(type) {
	case entities.SingleStationQuery:
		filter := entities.RecordFilter{Stations: []int{q.Station}, Order: entities.SortDateDesc}
		applyRange(&filter, q.Range)
		return filter

	case entities.MultiStationQuery:
		filter := entities.RecordFilter{Stations: copyInts(q.Stations), Order: entities.SortDateDesc}
		applyRange(&filter, q.Range)
		return filter

	case entities.ExactDateQuery:
		filter := entities.RecordFilter{Stations: b.registry.Codes()}
		applyDay(&filter, q.Date)
		return filter

	case entities.AdvancedAnalysisQuery:
		filter := entities.RecordFilter{Stations: copyInts(q.Stations)}
		applyDay(&filter, q.Date)
		return filter
	}

	// unreachable: QuerySpec is sealed
	return entities.RecordFilter{Stations: []int{}}
}

// applyRange adds the inclusive bounds; start > end is left to the store.
func applyRange(filter *entities.RecordFilter, dateRange entities.DateRange) {
	if dateRange.From != nil {
		from := *dateRange.From
		filter.From = &from
	}
	if dateRange.To != nil {
		to := *dateRange.To
		filter.To = &to
	}
}

// applyDay restricts the filter to the half-open calendar day [day, day+1).
func applyDay(filter *entities.RecordFilter, day time.Time) {
	start, end := entities.DayBounds(day)
	filter.From = &start
	filter.Until = &end
}

func copyInts(values []int) []int {
	result := make([]int, len(values))
	copy(result, values)
	return result
}
