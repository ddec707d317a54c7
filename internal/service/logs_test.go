package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/transport"
)

func newLogSvc(t *testing.T, ping func(context.Context) error) *LogService {
	t.Helper()
	return NewLogService(newTestRepo(t), ping, "memory")
}

func TestLogs_AddAndList(t *testing.T) {
	ctx := context.Background()
	svc := newLogSvc(t, nil)

	_, err := svc.Add(ctx, transport.LogRequest{Level: "info"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Add(ctx, transport.LogRequest{Level: "fatal", Message: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	e, err := svc.Add(ctx, transport.LogRequest{Message: "Order created"})
	require.NoError(t, err)
	assert.Equal(t, "info", e.Level)
	assert.Equal(t, "general", e.Category)
	assert.Equal(t, "api", e.Source)

	_, err = svc.Add(ctx, transport.LogRequest{Level: "ERROR", Category: "db", Message: "Timeout"})
	require.NoError(t, err)

	all, err := svc.List(ctx, transport.LogFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	errs, err := svc.List(ctx, transport.LogFilter{Level: "error"})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "Timeout", errs[0].Message)

	_, err = svc.List(ctx, transport.LogFilter{Level: "loud"})
	assert.ErrorIs(t, err, ErrValidation)

	n, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestLogs_ExportCSV(t *testing.T) {
	ctx := context.Background()
	svc := newLogSvc(t, nil)

	_, err := svc.Add(ctx, transport.LogRequest{Level: "warn", Category: "orders", Message: `said "hi", left`, Details: map[string]any{"id": "o1"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	ctype, err := svc.Export(ctx, ExportCSV, &buf)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", ctype)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "warn", rows[1][1])
	assert.Equal(t, `said "hi", left`, rows[1][4])
	assert.JSONEq(t, `{"id":"o1"}`, rows[1][5])
}

func TestLogs_ExportJSON(t *testing.T) {
	ctx := context.Background()
	svc := newLogSvc(t, nil)
	require.NoError(t, svc.Seed(ctx, "test"))

	var buf bytes.Buffer
	ctype, err := svc.Export(ctx, "", &buf)
	require.NoError(t, err)
	assert.Equal(t, "application/json", ctype)

	var logs []models.LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "System started", logs[0].Message)
	assert.Equal(t, "system", logs[0].Category)

	_, err = svc.Export(ctx, "xml", &buf)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogs_Health(t *testing.T) {
	ctx := context.Background()

	healthy := newLogSvc(t, func(context.Context) error { return nil })
	require.NoError(t, healthy.Seed(ctx, "test"))
	r := healthy.Health(ctx)
	assert.Equal(t, "healthy", r.Status)
	assert.True(t, r.Database.Connected)
	assert.Equal(t, "memory", r.Database.Backend)
	assert.EqualValues(t, 1, r.LogCounts["info"])
	assert.Positive(t, r.Goroutines)

	down := newLogSvc(t, func(context.Context) error { return errors.New("ping failed") })
	r = down.Health(ctx)
	assert.Equal(t, "degraded", r.Status)
	assert.False(t, r.Database.Connected)
	assert.Equal(t, "ping failed", r.Database.Error)
}
