package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/transport"
)

func (r *GormRepo) CreateLog(ctx context.Context, l *models.LogEntry) error {
	return r.DB.WithContext(ctx).Create(l).Error
}

func (r *GormRepo) ListLogs(ctx context.Context, f transport.LogFilter) ([]models.LogEntry, error) {
	q := r.DB.WithContext(ctx).Model(&models.LogEntry{})
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(message) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	logs := make([]models.LogEntry, 0)
	if err := q.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *GormRepo) CountLogsByLevel(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Level string
		N     int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.LogEntry{}).
		Select("level, COUNT(*) AS n").Group("level").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Level] = row.N
	}
	return out, nil
}

func (r *GormRepo) ClearLogs(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).Where("1 = 1").Delete(&models.LogEntry{})
	return res.RowsAffected, res.Error
}
