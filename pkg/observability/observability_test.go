package observability

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(logrus.InfoLevel, FormatText, &buf)

	t.Run("debug not logged at info level", func(t *testing.T) {
		buf.Reset()
		log.Debug("debug message")
		assert.Zero(t, buf.Len())
	})

	t.Run("info logged at info level", func(t *testing.T) {
		buf.Reset()
		log.Info("info message")
		assert.Contains(t, buf.String(), "info message")
		assert.Contains(t, buf.String(), "level=info")
	})
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(logrus.DebugLevel, FormatJSON, &buf)

	log.WithField("step", "db").Debug("step finished")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "step finished", entry["msg"])
	assert.Equal(t, "db", entry["step"])
}

func TestNewLogger_DefaultOutput(t *testing.T) {
	log := NewLogger(logrus.WarnLevel, FormatText, nil)
	assert.NotNil(t, log.Out)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.RecordStep("db", 10*time.Millisecond, nil)
	m.RecordStep("db", 5*time.Millisecond, errors.New("boom"))
	m.RecordStep("info", time.Millisecond, nil)
	m.RecordAutocompleteLookup("hit")
	m.RecordAutocompleteLookup("hit")
	m.RecordAutocompleteLookup("none")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BootstrapStepsTotal.WithLabelValues("db", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BootstrapStepsTotal.WithLabelValues("db", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AutocompleteLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AutocompleteLookupsTotal.WithLabelValues("none")))

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "plugin_bootstrap_step_duration_seconds")
}

func TestHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.RecordAutocompleteLookup("miss")

	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `plugin_autocomplete_lookups_total{outcome="miss"} 1`)
}

func TestWriteMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.RecordStep("db", 10*time.Millisecond, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteMetrics(&buf, registry))
	assert.Contains(t, buf.String(), "# TYPE plugin_bootstrap_steps_total counter")
	assert.Contains(t, buf.String(), `plugin_bootstrap_steps_total{status="success",step="db"} 1`)
	assert.Contains(t, buf.String(), "plugin_bootstrap_step_duration_seconds_count{step=\"db\"} 1")
}

func TestMetrics_Unregistered(t *testing.T) {
	m := NewMetrics(nil)
	assert.NotPanics(t, func() {
		m.RecordStep("db", time.Millisecond, nil)
	})
}

func TestHealthChecker_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	checker := NewHealthChecker(db)
	checker.AddCheck("translator", func(ctx context.Context) error { return nil })

	status := checker.Check(context.Background())
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, StatusHealthy, status.Dependencies["database"].Status)
	assert.Equal(t, StatusHealthy, status.Dependencies["translator"].Status)
}

func TestHealthChecker_Unhealthy(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	checker := NewHealthChecker(db)
	status := checker.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, "connection refused", status.Dependencies["database"].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthChecker_FailingCheck(t *testing.T) {
	checker := NewHealthChecker(nil)
	checker.AddCheck("settings", func(ctx context.Context) error {
		return errors.New("settings form is not configured")
	})

	status := checker.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.NotContains(t, status.Dependencies, "database")
	assert.Equal(t, "settings form is not configured", status.Dependencies["settings"].Message)
}

func TestRecoverToError(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(logrus.InfoLevel, FormatJSON, &buf)

	fn := func() (err error) {
		defer RecoverToError(log, "form factory", &err)
		panic("nil form")
	}

	err := fn()
	require.Error(t, err)
	assert.Equal(t, "panic: nil form", err.Error())
	assert.Contains(t, buf.String(), "PANIC recovered")
	assert.Contains(t, buf.String(), `"context":"form factory"`)
}

func TestRecoverToError_NoPanic(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(logrus.InfoLevel, FormatJSON, &buf)

	fn := func() (err error) {
		defer RecoverToError(log, "noop", &err)
		return nil
	}

	assert.NoError(t, fn())
	assert.Zero(t, buf.Len())
}
