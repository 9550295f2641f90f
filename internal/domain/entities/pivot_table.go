package entities

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type StationReading struct {
	AverageTemperature        float64 `json:"averageTemperature"`
	FiveDayAverageTemperature float64 `json:"fiveDayAverageTemperature"`
}

type StationColumn struct {
	Station int
	Reading StationReading
}

// PivotRow is one date of a multi-station comparison. Columns keep insertion order
// and only exist for stations with data on that date.
type PivotRow struct {
	Date    string
	Columns []StationColumn
}

// Set adds or replaces the column for station, keeping its original position.
func (r *PivotRow) Set(station int, reading StationReading) {
	for i := range r.Columns {
		if r.Columns[i].Station == station {
			r.Columns[i].Reading = reading
			return
		}
	}
	r.Columns = append(r.Columns, StationColumn{Station: station, Reading: reading})
}

func (r PivotRow) Reading(station int) (StationReading, bool) {
	for _, column := range r.Columns {
		if column.Station == station {
			return column.Reading, true
		}
	}
	return StationReading{}, false
}

// MarshalJSON writes {"date": ..., "<station>": {...}, ...} with "date" first and
// station columns in insertion order.
func (r PivotRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"date":`)
	date, err := json.Marshal(r.Date)
	if err != nil {
		return nil, err
	}
	buf.Write(date)

	for _, column := range r.Columns {
		reading, err := json.Marshal(column.Reading)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.WriteString(strconv.Quote(strconv.Itoa(column.Station)))
		buf.WriteByte(':')
		buf.Write(reading)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
