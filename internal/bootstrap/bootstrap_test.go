package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/k-shtanenko/temperature-archive/config"
	"github.com/k-shtanenko/temperature-archive/internal/infrastructure/metrics"
	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
	"github.com/k-shtanenko/temperature-archive/internal/testutils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	gin.SetMode(gin.TestMode)
	return &config.Config{
		App:      config.AppConfig{Name: "temperature-api", Env: "test", ShutdownTimeout: time.Second},
		Stations: config.StationsConfig{Registry: []int{58349, 58238}},
		API: config.APIConfig{
			CorsAllowedOrigins: []string{"*"},
			RateLimit:          10,
			RateLimitWindow:    time.Second,
			EnableMetrics:      true,
		},
		HealthCheck: config.HealthCheckConfig{Timeout: time.Second, Interval: time.Minute},
		Export:      config.ExportConfig{Enabled: true, SheetName: "Comparison"},
	}
}

func TestApp_Wire(t *testing.T) {
	repo := &testutils.MockTemperatureRepository{}
	repo.On("Close").Return(nil)

	app := &App{config: testConfig(), logger: logger.Discard()}
	app.wire(repo)

	rec := httptest.NewRecorder()
	app.apiServer.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stations", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[58238,58349]}`, rec.Body.String())

	app.shutdownComponents(context.Background())
	repo.AssertCalled(t, "Close")
}

func TestApp_AttachStore(t *testing.T) {
	t.Run("reachable store reports up before the first scheduled check", func(t *testing.T) {
		repo := &testutils.MockTemperatureRepository{}
		repo.On("HealthCheck", mock.Anything).Return(nil)
		repo.On("Close").Return(nil)

		app := &App{config: testConfig(), logger: logger.Discard()}
		require.NoError(t, app.attachStore(context.Background(), repo))
		defer app.shutdownComponents(context.Background())

		rec := httptest.NewRecorder()
		app.apiServer.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "temperature_api_store_up 1")
	})

	t.Run("unreachable store is closed", func(t *testing.T) {
		repo := &testutils.MockTemperatureRepository{}
		repo.On("HealthCheck", mock.Anything).Return(errors.New("connection refused"))
		repo.On("Close").Return(nil)

		app := &App{config: testConfig(), logger: logger.Discard()}
		err := app.attachStore(context.Background(), repo)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres is unreachable")
		assert.Nil(t, app.apiServer)
		repo.AssertCalled(t, "Close")
	})
}

func TestApp_StartSchedulesStoreHealthCheck(t *testing.T) {
	repo := &testutils.MockTemperatureRepository{}
	repo.On("Close").Return(nil)
	sched := &testutils.MockScheduler{}
	sched.On("Schedule", mock.Anything, storeHealthJob, time.Minute, mock.Anything).Return(errors.New("duplicate"))
	sched.On("Stop").Return()

	app := &App{config: testConfig(), logger: logger.Discard()}
	app.wire(repo)
	app.scheduler.Stop()
	app.scheduler = sched

	err := app.start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), storeHealthJob)

	app.shutdownComponents(context.Background())
	sched.AssertExpectations(t)
}

func storeUpMetric(value string) string {
	return `
# HELP temperature_api_store_up 1 when the last store health check succeeded, 0 otherwise.
# TYPE temperature_api_store_up gauge
temperature_api_store_up ` + value + `
`
}

func TestStoreHealthCheck(t *testing.T) {
	testCases := []struct {
		name     string
		pingErr  error
		expected string
	}{
		{"up", nil, "1"},
		{"down", errors.New("ping failed"), "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			registry := prometheus.NewRegistry()
			m := metrics.NewWithRegistry(registry, registry)

			repo := &testutils.MockTemperatureRepository{}
			repo.On("HealthCheck", mock.Anything).Return(tc.pingErr)
			app := &App{config: testConfig(), logger: logger.Discard()}
			app.wire(repo)
			defer app.scheduler.Stop()

			err := storeHealthCheck(app.service, m, logger.Discard())(context.Background())
			if tc.pingErr != nil {
				assert.ErrorIs(t, err, tc.pingErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(storeUpMetric(tc.expected)), "temperature_api_store_up"))
		})
	}
}
