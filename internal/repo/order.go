package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/transport"
)

// OrderUpdate carries the fields to change; nil means unchanged. Items, when
// set, replace the stored items wholesale.
type OrderUpdate struct {
	CustomerID   *string
	Items        *[]models.OrderItem
	Total        *decimal.Decimal
	Status       *string
	DeliveryType *string
	DeliveryArea *string
	Notes        *string
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func numberItems(orderID string, items []models.OrderItem) {
	for i := range items {
		items[i].ID = 0
		items[i].OrderID = orderID
		items[i].Position = i
	}
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			order.Items = items
			return err
		}
		numberItems(order.ID, items)
		order.Items = items
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&order.Items).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := withItems(r.DB.WithContext(ctx)).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, f transport.OrderFilter) ([]models.Order, int64, error) {
	filtered := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Order{})
		if f.CustomerID != "" {
			q = q.Where("customer_id = ?", f.CustomerID)
		}
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, 0)
	q := Page{Offset: f.Offset, Limit: f.Limit}.apply(withItems(filtered()).Order("created_at DESC"))
	if err := q.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateOrder applies u inside a transaction and returns the stored result.
func (r *GormRepo) UpdateOrder(ctx context.Context, id string, u OrderUpdate) (*models.Order, error) {
	var out *models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}

		if u.CustomerID != nil {
			order.CustomerID = *u.CustomerID
		}
		if u.Total != nil {
			order.Total = *u.Total
		}
		if u.Status != nil {
			order.Status = *u.Status
		}
		if u.DeliveryType != nil {
			order.DeliveryType = *u.DeliveryType
		}
		if u.DeliveryArea != nil {
			order.DeliveryArea = *u.DeliveryArea
		}
		if u.Notes != nil {
			order.Notes = *u.Notes
		}

		if err := tx.Omit("Items").Save(&order).Error; err != nil {
			return err
		}

		if u.Items != nil {
			if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			items := append([]models.OrderItem(nil), (*u.Items)...)
			numberItems(id, items)
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
		}

		var fresh models.Order
		if err := withItems(tx).Where("id = ?", id).First(&fresh).Error; err != nil {
			return err
		}
		out = &fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
