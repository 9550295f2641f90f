package testutils

import (
	"context"
	"time"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
	"github.com/k-shtanenko/temperature-archive/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

type MockTemperatureRepository struct {
	mock.Mock
}

func (m *MockTemperatureRepository) FindRecords(ctx context.Context, filter entities.RecordFilter) ([]entities.TemperatureRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.TemperatureRecord), args.Error(1)
}

func (m *MockTemperatureRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTemperatureRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockPivotExporter struct {
	mock.Mock
}

func (m *MockPivotExporter) ExportPivotTable(ctx context.Context, rows []entities.PivotRow) ([]byte, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPivotExporter) ContentType() string {
	args := m.Called()
	return args.String(0)
}

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(ctx context.Context, name string, interval time.Duration, task ports.Task) error {
	args := m.Called(ctx, name, interval, task)
	return args.Error(0)
}

func (m *MockScheduler) Stop() {
	m.Called()
}

func (m *MockScheduler) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Record builds a record dated at UTC midnight of date (YYYY-MM-DD).
func Record(id int64, station int, date string, avg, fiveDayAvg float64) entities.TemperatureRecord {
	day, err := time.Parse(entities.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return entities.TemperatureRecord{ID: id, Station: station, Date: day, Avg: avg, FiveDayAvg: fiveDayAvg}
}

// Date parses YYYY-MM-DD or panics.
func Date(date string) time.Time {
	day, err := time.Parse(entities.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return day
}

// Registry is the station registry shared by tests.
func Registry() *entities.StationRegistry {
	return entities.NewStationRegistry([]int{58238, 58349, 58251, 58343})
}
