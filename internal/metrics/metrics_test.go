package metrics

import (
	"testing"
	"time"

	"github.com/limaJavier/examseating/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSeating(t *testing.T) {
	//** Arrange
	metrics := New()
	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	capped := model.Result{Outcome: model.Optimal, RoomsUsed: 2, Summary: model.BuildSummary{SeparationCapReached: true}}

	//** Act
	metrics.ObserveSeating("gini", capped, nil, time.Second)
	metrics.ObserveSeating("gini", model.Result{}, &model.Failure{Reason: model.TimedOut}, 2*time.Second)
	metrics.ObserveSeating("gini", model.Result{}, assert.AnError, 0)
	metrics.ObserveCache(Hit)

	//** Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("gini", "Optimal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("gini", "TimedOut")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("gini", Error)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.separationCap))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheLookups.WithLabelValues(Hit)))

	count, err := testutil.GatherAndCount(registry, "seating_solve_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
