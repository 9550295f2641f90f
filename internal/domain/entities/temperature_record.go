package entities

import (
	"time"
)

// DateLayout is the only accepted textual date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// TemperatureRecord is one daily observation for one station.
type TemperatureRecord struct {
	ID         int64     `json:"id" db:"id"`
	Station    int       `json:"station" db:"station"`
	Date       time.Time `json:"date" db:"date"`
	Avg        float64   `json:"avg" db:"avg"`
	FiveDayAvg float64   `json:"fd_avg" db:"fd_avg"`
}

// RecordKey identifies a logical observation.
type RecordKey struct {
	Station int
	Date    string
}

func (r TemperatureRecord) Key() RecordKey {
	return RecordKey{Station: r.Station, Date: r.DateString()}
}

func (r TemperatureRecord) DateString() string {
	return r.Date.Format(DateLayout)
}

// DayBounds returns the half-open interval [day, day+24h) covering the calendar day of t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
