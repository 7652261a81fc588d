package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation(t *testing.T) {
	ObserveOperation("metrics_test", "find_all", OutcomeSuccess, time.Now().Add(-10*time.Millisecond))

	var m dto.Metric
	obs, err := OperationDuration.GetMetricWithLabelValues("metrics_test", "find_all", OutcomeSuccess)
	require.NoError(t, err)
	require.NoError(t, obs.(interface{ Write(*dto.Metric) error }).Write(&m))

	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleSum(), 0.01)
}

func TestProgramWritesCounter(t *testing.T) {
	before := testutil.ToFloat64(ProgramWrites.WithLabelValues("metrics_test"))
	ProgramWrites.WithLabelValues("metrics_test").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ProgramWrites.WithLabelValues("metrics_test")))
}
