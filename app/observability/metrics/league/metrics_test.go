package leaguemetrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheus(reg, "bakeoff")
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOperationAttempt(ctx, "SubmitPick", "LeagueService")
	m.RecordOperationSuccess(ctx, "SubmitPick", "LeagueService")
	m.RecordOperationDuration(ctx, "SubmitPick", "LeagueService", 3*time.Millisecond)
	m.RecordRejection(ctx, "SubmitPick", "not_your_turn")
	m.RecordRejection(ctx, "SubmitPick", "not_your_turn")
	m.RecordPersistenceFailure(ctx, "SubmitPick")

	pm := m.(*prometheusMetrics)
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.attempts.WithLabelValues("SubmitPick", "LeagueService")))
	assert.Equal(t, 2.0, testutil.ToFloat64(pm.rejections.WithLabelValues("SubmitPick", "not_your_turn")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.persistenceFailures.WithLabelValues("SubmitPick")))
}

func TestNewPrometheusRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg, "bakeoff")
	require.NoError(t, err)

	_, err = NewPrometheus(reg, "bakeoff")
	assert.Error(t, err)
}
