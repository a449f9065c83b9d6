package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ExtractCorrelationID(ctx))

	id := GenerateCorrelationID()
	assert.Len(t, id, 36)
	assert.Equal(t, id, ExtractCorrelationID(WithCorrelationID(ctx, id)))
}

func TestLogServiceError(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(slog.Default()) })

	counter := OperationErrors.WithLabelValues("PostService.GetPost", "NOT_FOUND")
	before := testutil.ToFloat64(counter)

	ctx := WithCorrelationID(context.Background(), "abc")
	LogServiceError(ctx, "PostService", "GetPost", "NOT_FOUND", errors.New("Post with ID 9 not found"))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Contains(t, buf.String(), "correlation_id=abc")
	assert.Contains(t, buf.String(), "code=NOT_FOUND")
}

func TestTrackQuery(t *testing.T) {
	done := TrackQuery("select", "tags")
	done()
	assert.Equal(t, 1, testutil.CollectAndCount(DatabaseQueryLatency, "blogly_database_query_latency_seconds"))
}

func TestServiceSpan(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "test", Enabled: false})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	_, span := StartServiceSpan(context.Background(), "TagService", "GetTag")
	span.End(errors.New("boom"))

	var nilSpan *Span
	nilSpan.End(nil)
	assert.Empty(t, nilSpan.TraceID())
}
