package ports

import (
	"context"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
)

// TemperatureService takes raw request inputs and returns either a payload or an
// *entities.QueryError.
type TemperatureService interface {
	ByStation(ctx context.Context, station, start, end string) ([]entities.TemperatureRecord, error)
	ByDate(ctx context.Context, date string) ([]entities.TemperatureRecord, error)
	ByMultipleStations(ctx context.Context, stations, start, end string) ([]entities.PivotRow, error)
	AdvancedAnalysis(ctx context.Context, body []byte) ([]entities.TemperatureRecord, error)
	Stations() []int
	HealthCheck(ctx context.Context) error
}
