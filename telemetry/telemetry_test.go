package telemetry_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/katalvlaran/pacp/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestParseLevel(t *testing.T) {
	lvl, err := telemetry.ParseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, lvl)

	lvl, err = telemetry.ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, lvl)

	_, err = telemetry.ParseLevel("loud")
	require.ErrorIs(t, err, telemetry.ErrUnknownLevel)
}

// TestNewLogger_Formats: a buffer is not a terminal, so auto means JSON.
func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := telemetry.NewLogger("info", telemetry.FormatAuto, &buf)
	require.NoError(t, err)
	logger.Info("hello", slog.Int("length", 4))
	require.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
	require.Contains(t, buf.String(), `"length":4`)

	buf.Reset()
	logger, err = telemetry.NewLogger("warn", telemetry.FormatText, &buf)
	require.NoError(t, err)
	logger.Info("dropped")
	logger.Warn("kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "msg=kept")

	_, err = telemetry.NewLogger("info", "xml", &buf)
	require.ErrorIs(t, err, telemetry.ErrUnknownFormat)
}

// TestServe_ExposesCollectors scrapes the endpoint once.
func TestServe_ExposesCollectors(t *testing.T) {
	telemetry.Solutions.WithLabelValues("4", "strict").Inc()
	require.GreaterOrEqual(t, testutil.ToFloat64(telemetry.Solutions.WithLabelValues("4", "strict")), 1.0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addr, err := telemetry.Serve(ctx, "127.0.0.1:0", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "pacp_search_solutions_total")
}

// TestInitTracing writes finished spans to the writer on shutdown.
func TestInitTracing(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := telemetry.InitTracing(&buf, "test")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "unit")
	span.End()
	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, buf.String(), `"Name":"unit"`)
}
