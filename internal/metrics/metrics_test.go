package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordIngest(t *testing.T) {
	c := IngestTotal.WithLabelValues(SourceHTTP, OutcomeInvalid)
	before := testutil.ToFloat64(c)

	RecordIngest(SourceHTTP, OutcomeInvalid)

	require.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordAsset(t *testing.T) {
	RecordAsset(12.5, 0.2, true)
	require.Equal(t, 12.5, testutil.ToFloat64(AssetFrequency))
	require.Equal(t, 0.2, testutil.ToFloat64(AssetIntensity))
	require.Equal(t, 1.0, testutil.ToFloat64(AssetCritical))

	RecordAsset(5, 0.05, false)
	require.Equal(t, 0.0, testutil.ToFloat64(AssetCritical))
}

func TestRecordGeneration(t *testing.T) {
	RecordGeneration("metrics-test", 0.3, nil)
	RecordGeneration("metrics-test", 0.1, errors.New("quota"))

	// one series per (provider, result) pair
	require.GreaterOrEqual(t, testutil.CollectAndCount(GenerationDuration), 2)
}
