package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matte/internal/common/logger"
)

func TestRecordQuestion_ExportsToRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := NewWithRegisterer("matte-test", "", reg, logger.NewTestLogger(t))
	defer obs.Shutdown()

	obs.RecordQuestion(context.Background(), "UNPAID_INVOICES", "answered", 120*time.Millisecond)
	obs.RecordQuestion(context.Background(), "UNPAID_INVOICES", "answered", 80*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["matte_answers_total"], "got %v", names)
	assert.True(t, names["matte_respond_latency_milliseconds"], "got %v", names)
}

func TestTracer_NoEndpointIsNoop(t *testing.T) {
	obs := NewWithRegisterer("matte-test", "", promclient.NewRegistry(), logger.NewNoOpLogger())
	defer obs.Shutdown()

	_, span := obs.Tracer().Start(context.Background(), "respond")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestNilObservability(t *testing.T) {
	var obs *Observability

	assert.NotPanics(t, func() {
		obs.RecordQuestion(context.Background(), "JOBS_TODAY", "answered", time.Millisecond)
		_, span := obs.Tracer().Start(context.Background(), "respond")
		span.End()
		obs.Shutdown()
	})
}
