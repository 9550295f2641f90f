package api

import (
	"strconv"
	"time"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RecordResponse is the flat record shape of by_station and by_date.
type RecordResponse struct {
	Avg     float64 `json:"Avg"`
	Date    string  `json:"Date"`
	FDAvg   float64 `json:"FDAvg"`
	Station int     `json:"Station"`
	ID      string  `json:"_id"`
}

type AnalysisRecordResponse struct {
	Avg     float64 `json:"Avg"`
	Station int     `json:"Station"`
	Date    string  `json:"Date"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Time     time.Time         `json:"time"`
	Services map[string]string `json:"services"`
}

func toRecordResponses(records []entities.TemperatureRecord) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i, r := range records {
		out[i] = RecordResponse{
			Avg:     r.Avg,
			Date:    r.DateString(),
			FDAvg:   r.FiveDayAvg,
			Station: r.Station,
			ID:      strconv.FormatInt(r.ID, 10),
		}
	}
	return out
}

func toAnalysisResponses(records []entities.TemperatureRecord) []AnalysisRecordResponse {
	out := make([]AnalysisRecordResponse, len(records))
	for i, r := range records {
		out[i] = AnalysisRecordResponse{
			Avg:     r.Avg,
			Station: r.Station,
			Date:    r.DateString(),
		}
	}
	return out
}
