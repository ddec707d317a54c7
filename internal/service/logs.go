package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/transport"
)

const (
	DefaultLogLimit = 100
	MaxLogLimit     = 1000

	ExportJSON = "json"
	ExportCSV  = "csv"
)

var LogLevels = []string{"debug", "info", "warn", "error"}

type LogStore interface {
	CreateLog(ctx context.Context, l *models.LogEntry) error
	ListLogs(ctx context.Context, f transport.LogFilter) ([]models.LogEntry, error)
	CountLogsByLevel(ctx context.Context) (map[string]int64, error)
	ClearLogs(ctx context.Context) (int64, error)
}

type DatabaseHealth struct {
	Backend   string `json:"backend"`
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

type MemoryStats struct {
	AllocBytes uint64 `json:"allocBytes"`
	SysBytes   uint64 `json:"sysBytes"`
	NumGC      uint32 `json:"numGC"`
}

type HealthReport struct {
	Status        string           `json:"status"`
	Database      DatabaseHealth   `json:"database"`
	UptimeSeconds int64            `json:"uptimeSeconds"`
	Goroutines    int              `json:"goroutines"`
	Memory        MemoryStats      `json:"memory"`
	LogCounts     map[string]int64 `json:"logCounts"`
	Timestamp     time.Time        `json:"timestamp"`
}

// LogService keeps the operator-facing system log. Ping and Backend describe
// the database for Health.
type LogService struct {
	Repo    LogStore
	Ping    func(ctx context.Context) error
	Backend string

	started time.Time
	now     func() time.Time
}

func NewLogService(store LogStore, ping func(ctx context.Context) error, backend string) *LogService {
	now := func() time.Time { return time.Now().UTC() }
	return &LogService{Repo: store, Ping: ping, Backend: backend, started: now(), now: now}
}

func isLogLevel(level string) bool {
	for _, l := range LogLevels {
		if l == level {
			return true
		}
	}
	return false
}

func (s *LogService) Add(ctx context.Context, req transport.LogRequest) (*models.LogEntry, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, validation("message is required")
	}
	level := strings.ToLower(strings.TrimSpace(req.Level))
	if level == "" {
		level = "info"
	}
	if !isLogLevel(level) {
		return nil, validation("level must be one of %s", strings.Join(LogLevels, ", "))
	}

	entry := &models.LogEntry{
		Level:     level,
		Category:  req.Category,
		Message:   msg,
		Source:    req.Source,
		Details:   req.Details,
		CreatedAt: s.now(),
	}
	if entry.Category == "" {
		entry.Category = "general"
	}
	if entry.Source == "" {
		entry.Source = "api"
	}
	if err := s.Repo.CreateLog(ctx, entry); err != nil {
		return nil, persistence("create log", err)
	}
	return entry, nil
}

func (s *LogService) List(ctx context.Context, f transport.LogFilter) ([]models.LogEntry, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultLogLimit
	}
	if f.Limit > MaxLogLimit {
		f.Limit = MaxLogLimit
	}
	if f.Level != "" && !isLogLevel(f.Level) {
		return nil, validation("unknown level %q", f.Level)
	}
	logs, err := s.Repo.ListLogs(ctx, f)
	if err != nil {
		return nil, persistence("list logs", err)
	}
	return logs, nil
}

func (s *LogService) Clear(ctx context.Context) (int64, error) {
	n, err := s.Repo.ClearLogs(ctx)
	if err != nil {
		return 0, persistence("clear logs", err)
	}
	return n, nil
}

var csvHeader = []string{"timestamp", "level", "category", "source", "message", "details"}

// Export writes every stored log entry to w and returns the content type.
func (s *LogService) Export(ctx context.Context, format string, w io.Writer) (string, error) {
	if format == "" {
		format = ExportJSON
	}
	if format != ExportJSON && format != ExportCSV {
		return "", validation("format must be json or csv")
	}

	logs, err := s.Repo.ListLogs(ctx, transport.LogFilter{})
	if err != nil {
		return "", persistence("list logs", err)
	}

	if format == ExportJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return "application/json", enc.Encode(logs)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return "", err
	}
	for _, l := range logs {
		details := ""
		if len(l.Details) > 0 {
			b, err := json.Marshal(l.Details)
			if err != nil {
				return "", fmt.Errorf("encode details of %s: %w", l.ID, err)
			}
			details = string(b)
		}
		row := []string{l.CreatedAt.UTC().Format(time.RFC3339), l.Level, l.Category, l.Source, l.Message, details}
		if err := cw.Write(row); err != nil {
			return "", err
		}
	}
	cw.Flush()
	return "text/csv", cw.Error()
}

func (s *LogService) Health(ctx context.Context) *HealthReport {
	r := &HealthReport{
		Status:        "healthy",
		Database:      DatabaseHealth{Backend: s.Backend, Connected: true},
		UptimeSeconds: int64(s.now().Sub(s.started) / time.Second),
		Goroutines:    runtime.NumGoroutine(),
		Timestamp:     s.now(),
	}

	if s.Ping != nil {
		if err := s.Ping(ctx); err != nil {
			r.Status = "degraded"
			r.Database.Connected = false
			r.Database.Error = err.Error()
		}
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	r.Memory = MemoryStats{AllocBytes: ms.Alloc, SysBytes: ms.Sys, NumGC: ms.NumGC}

	if counts, err := s.Repo.CountLogsByLevel(ctx); err == nil {
		r.LogCounts = counts
	} else {
		r.LogCounts = map[string]int64{}
		r.Status = "degraded"
	}
	return r
}

// Seed records the startup entry.
func (s *LogService) Seed(ctx context.Context, version string) error {
	_, err := s.Add(ctx, transport.LogRequest{
		Level:    "info",
		Category: "system",
		Message:  "System started",
		Source:   "server",
		Details:  map[string]any{"backend": s.Backend, "version": version},
	})
	return err
}
