package application

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
)

const (
	MinAnalysisStations = 1
	MaxAnalysisStations = 3
)

const (
	msgRangeDateFormat = "Invalid date format. Use YYYY-MM-DD"
	msgExactDateFormat = "Invalid date format (YYYY-MM-DD required)"
	msgStationRequired = "Station parameter is required"
	msgStationsMissing = "Stations parameter is required"
	msgDateRequired    = "Date parameter is required"
	msgStationsList    = "Invalid or missing stations list"
	msgInvalidBody     = "Invalid request body"
)

// Validator turns raw request inputs into a QuerySpec. Every failure is returned as an
// *entities.QueryError.
type Validator struct {
	registry *entities.StationRegistry
}

func NewValidator(registry *entities.StationRegistry) *Validator {
	return &Validator{registry: registry}
}

// ParseDate accepts exactly YYYY-MM-DD; the empty string is a format error.
func ParseDate(param, raw, message string) (time.Time, error) {
	date, err := time.Parse(entities.DateLayout, raw)
	if err != nil {
		return time.Time{}, entities.InvalidDateFormat(param, message)
	}
	return date, nil
}

// parseStation accepts codes that fit the store's 32-bit station column.
func parseStation(raw string) (int, error) {
	code, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, entities.InvalidStationFormat(err)
	}
	return int(code), nil
}

// parseRange treats empty bounds as absent.
func parseRange(start, end string) (entities.DateRange, error) {
	var dateRange entities.DateRange
	if start != "" {
		from, err := ParseDate("start", start, msgRangeDateFormat)
		if err != nil {
			return entities.DateRange{}, err
		}
		dateRange.From = &from
	}
	if end != "" {
		to, err := ParseDate("end", end, msgRangeDateFormat)
		if err != nil {
			return entities.DateRange{}, err
		}
		dateRange.To = &to
	}
	return dateRange, nil
}

func (v *Validator) ValidateByStation(station, start, end string) (entities.SingleStationQuery, error) {
	if station == "" {
		return entities.SingleStationQuery{}, entities.MissingParameter("station", msgStationRequired)
	}

	code, err := parseStation(station)
	if err != nil {
		return entities.SingleStationQuery{}, err
	}

	dateRange, err := parseRange(start, end)
	if err != nil {
		return entities.SingleStationQuery{}, err
	}

	return entities.SingleStationQuery{Station: code, Range: dateRange}, nil
}

func (v *Validator) ValidateByDate(date string) (entities.ExactDateQuery, error) {
	if date == "" {
		return entities.ExactDateQuery{}, entities.MissingParameter("date", msgDateRequired)
	}

	day, err := ParseDate("date", date, msgExactDateFormat)
	if err != nil {
		return entities.ExactDateQuery{}, err
	}

	return entities.ExactDateQuery{Date: day}, nil
}

// ValidateMultipleStations parses a comma-separated station list; blank items are skipped.
func (v *Validator) ValidateMultipleStations(stations, start, end string) (entities.MultiStationQuery, error) {
	if stations == "" {
		return entities.MultiStationQuery{}, entities.MissingParameter("stations", msgStationsMissing)
	}

	var codes []int
	for _, item := range strings.Split(stations, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		code, err := parseStation(item)
		if err != nil {
			return entities.MultiStationQuery{}, err
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return entities.MultiStationQuery{}, entities.MissingParameter("stations", msgStationsMissing)
	}

	dateRange, err := parseRange(start, end)
	if err != nil {
		return entities.MultiStationQuery{}, err
	}

	return entities.MultiStationQuery{Stations: codes, Range: dateRange}, nil
}

// ValidateAdvancedAnalysis checks, in order: body, stations list, station count, date
// presence, date format, station format, registry membership.
func (v *Validator) ValidateAdvancedAnalysis(body []byte) (entities.AdvancedAnalysisQuery, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return entities.AdvancedAnalysisQuery{}, entities.InvalidBody(msgInvalidBody, err)
	}
	if len(fields) == 0 {
		return entities.AdvancedAnalysisQuery{}, entities.InvalidBody(msgInvalidBody, nil)
	}

	rawStations, ok := fields["stations"]
	if !ok || isNull(rawStations) {
		return entities.AdvancedAnalysisQuery{}, entities.MissingParameter("stations", msgStationsList)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(rawStations, &items); err != nil {
		return entities.AdvancedAnalysisQuery{}, entities.InvalidBody(msgStationsList, err)
	}

	if len(items) < MinAnalysisStations || len(items) > MaxAnalysisStations {
		return entities.AdvancedAnalysisQuery{}, entities.InvalidStationCount(MinAnalysisStations, MaxAnalysisStations)
	}

	var dateStr string
	if rawDate, ok := fields["date"]; ok && !isNull(rawDate) {
		if err := json.Unmarshal(rawDate, &dateStr); err != nil {
			return entities.AdvancedAnalysisQuery{}, entities.InvalidDateFormat("date", msgExactDateFormat)
		}
	}
	if dateStr == "" {
		return entities.AdvancedAnalysisQuery{}, entities.MissingParameter("date", msgDateRequired)
	}
	day, err := ParseDate("date", dateStr, msgExactDateFormat)
	if err != nil {
		return entities.AdvancedAnalysisQuery{}, err
	}

	codes := make([]int, 0, len(items))
	for _, item := range items {
		code, err := parseStationItem(item)
		if err != nil {
			return entities.AdvancedAnalysisQuery{}, err
		}
		codes = append(codes, code)
	}

	var offending []int
	for _, code := range codes {
		if !v.registry.Contains(code) {
			offending = append(offending, code)
		}
	}
	if len(offending) > 0 {
		return entities.AdvancedAnalysisQuery{}, entities.InvalidStation(offending)
	}

	return entities.AdvancedAnalysisQuery{Stations: codes, Date: day}, nil
}

// parseStationItem accepts a JSON integer or a string holding one.
func parseStationItem(item json.RawMessage) (int, error) {
	var number json.Number
	if err := json.Unmarshal(item, &number); err != nil {
		return 0, entities.InvalidStationFormat(fmt.Errorf("station %s: %w", item, err))
	}
	return parseStation(number.String())
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
