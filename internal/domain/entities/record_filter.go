package entities

import "time"

type SortOrder int

const (
	// SortNone leaves ordering to the store.
	SortNone SortOrder = iota
	// SortDateDesc orders by date descending, ties by record id ascending.
	SortDateDesc
)

// RecordFilter is the store predicate built from a QuerySpec.
type RecordFilter struct {
	Stations []int
	From     *time.Time // date >= From
	To       *time.Time // date <= To
	Until    *time.Time // date < Until
	Order    SortOrder
}
