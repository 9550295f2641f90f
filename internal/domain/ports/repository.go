package ports

import (
	"context"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
)

// TemperatureRepository is the record store. FindRecords honours filter.Order.
type TemperatureRepository interface {
	FindRecords(ctx context.Context, filter entities.RecordFilter) ([]entities.TemperatureRecord, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
