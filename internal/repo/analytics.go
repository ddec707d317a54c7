package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

func (r *GormRepo) CreateEvent(ctx context.Context, e *models.AnalyticsEvent) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

// EventsSince returns events created at or after since, newest first.
func (r *GormRepo) EventsSince(ctx context.Context, since time.Time, limit int) ([]models.AnalyticsEvent, error) {
	events := make([]models.AnalyticsEvent, 0)
	q := r.DB.WithContext(ctx).Where("created_at >= ?", since).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *GormRepo) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

func (r *GormRepo) OrdersSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := r.DB.WithContext(ctx).Select("id", "total", "status", "created_at").
		Where("created_at >= ?", since).Find(&orders).Error
	return orders, err
}
