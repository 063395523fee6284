package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitWithoutExporter(t *testing.T) {
	tel, err := Init(context.Background(), "productsvc-test", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	assert.Empty(t, TraceID(context.Background()))

	ctx, span := Tracer().Start(context.Background(), "op")
	defer span.End()
	assert.Len(t, TraceID(ctx), 32)
}

func TestEndSpanRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tel, err := Init(context.Background(), "productsvc-test", "")
	require.NoError(t, err)
	tel.TracerProvider.RegisterSpanProcessor(recorder)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	_, span := Tracer().Start(context.Background(), "failing")
	EndSpan(span, errors.New("boom"))

	_, span = Tracer().Start(context.Background(), "ok")
	EndSpan(span, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "Error", ended[0].Status().Code.String())
	assert.Equal(t, "boom", ended[0].Status().Description)
	assert.Equal(t, "Unset", ended[1].Status().Code.String())
}

func TestTrimHTTP(t *testing.T) {
	assert.Equal(t, "collector:4318", trimHTTP("http://collector:4318"))
	assert.Equal(t, "collector:4318", trimHTTP("https://collector:4318"))
	assert.Equal(t, "collector:4318", trimHTTP("collector:4318"))
}
