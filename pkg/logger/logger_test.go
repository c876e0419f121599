package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"dinesight-backend/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNew_StampsServiceAndEnvironment(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, "dinesight-backend", "staging")
	l.Info().Uint(logger.FieldMenuItemID, 7).Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "dinesight-backend", line["service"])
	assert.Equal(t, "staging", line["environment"])
	assert.EqualValues(t, 7, line["menu_item_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestWithContext_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })
	logger.Logger = logger.New(&buf, "svc", "test")

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.Info(ctx).Msg("traced")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, span.SpanContext().TraceID().String(), line["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), line["span_id"])
}

func TestSetLevel_UnknownFallsBackToInfo(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, logger.SetLevel("WARN"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	assert.Error(t, logger.SetLevel("loud"))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	require.NoError(t, logger.SetLevel(""))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
