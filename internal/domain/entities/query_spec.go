package entities

import "time"

// QuerySpec is a validated request. The concrete variants are SingleStationQuery,
// ExactDateQuery, MultiStationQuery and AdvancedAnalysisQuery.
type QuerySpec interface {
	querySpec()
}

// DateRange bounds are inclusive; a nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type SingleStationQuery struct {
	Station int
	Range   DateRange
}

// ExactDateQuery is implicitly restricted to every station of the registry.
type ExactDateQuery struct {
	Date time.Time
}

type MultiStationQuery struct {
	Stations []int
	Range    DateRange
}

type AdvancedAnalysisQuery struct {
	Stations []int
	Date     time.Time
}

func (SingleStationQuery) querySpec()    {}
func (ExactDateQuery) querySpec()        {}
func (MultiStationQuery) querySpec()     {}
func (AdvancedAnalysisQuery) querySpec() {}
