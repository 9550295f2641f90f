package application

import (
	"context"
	"fmt"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
	"github.com/k-shtanenko/temperature-archive/internal/domain/ports"
	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
)

const (
	msgNoDataRange    = "No data found for the provided date range"
	msgNoDataDate     = "No data found for this date"
	msgNoDataCriteria = "No data found for the provided criteria"
	msgNoDataAnalysis = "No data found for selected stations on this date"
)

// TemperatureService runs validate -> build predicate -> fetch -> dedup/pivot for each
// query operation. It holds no mutable state and is safe for concurrent use.
type TemperatureService struct {
	repo       ports.TemperatureRepository
	registry   *entities.StationRegistry
	validator  *Validator
	predicates *PredicateBuilder
	logger     logger.Logger
}

func NewTemperatureService(repo ports.TemperatureRepository, registry *entities.StationRegistry, log logger.Logger) *TemperatureService {
	return &TemperatureService{
		repo:       repo,
		registry:   registry,
		validator:  NewValidator(registry),
		predicates: NewPredicateBuilder(registry),
		logger:     log.WithField("component", "temperature_service"),
	}
}

// ByStation returns one deduplicated record per date for a station, oldest first.
func (s *TemperatureService) ByStation(ctx context.Context, station, start, end string) ([]entities.TemperatureRecord, error) {
	query, err := s.validator.ValidateByStation(station, start, end)
	if err != nil {
		return nil, err
	}

	records, err := s.fetch(ctx, "by_station", query)
	if err != nil {
		return nil, err
	}

	unique := Deduplicate(records)
	if len(unique) == 0 {
		return nil, entities.NotFound(msgNoDataRange)
	}

	return unique, nil
}

// ByDate returns every record of every registered station for one day, duplicates included.
func (s *TemperatureService) ByDate(ctx context.Context, date string) ([]entities.TemperatureRecord, error) {
	query, err := s.validator.ValidateByDate(date)
	if err != nil {
		return nil, err
	}

	records, err := s.fetch(ctx, "by_date", query)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, entities.NotFound(msgNoDataDate)
	}

	return records, nil
}

func (s *TemperatureService) ByMultipleStations(ctx context.Context, stations, start, end string) ([]entities.PivotRow, error) {
	query, err := s.validator.ValidateMultipleStations(stations, start, end)
	if err != nil {
		return nil, err
	}

	records, err := s.fetch(ctx, "by_multiple_stations", query)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, entities.NotFound(msgNoDataCriteria)
	}

	return Pivot(Deduplicate(records)), nil
}

// AdvancedAnalysis compares 1-3 registered stations on one day, duplicates included.
func (s *TemperatureService) AdvancedAnalysis(ctx context.Context, body []byte) ([]entities.TemperatureRecord, error) {
	query, err := s.validator.ValidateAdvancedAnalysis(body)
	if err != nil {
		return nil, err
	}

	records, err := s.fetch(ctx, "advanced_analysis", query)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, entities.NotFound(msgNoDataAnalysis)
	}

	return records, nil
}

func (s *TemperatureService) Stations() []int {
	return s.registry.Codes()
}

func (s *TemperatureService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (s *TemperatureService) fetch(ctx context.Context, operation string, query entities.QuerySpec) ([]entities.TemperatureRecord, error) {
	filter := s.predicates.Build(query)

	records, err := s.repo.FindRecords(ctx, filter)
	if err != nil {
		s.logger.WithField("operation", operation).Errorf("Failed to fetch records: %v", err)
		return nil, entities.Internal(fmt.Errorf("%s: %w", operation, err))
	}

	s.logger.WithField("operation", operation).Debugf("Fetched %d records", len(records))
	return records, nil
}
