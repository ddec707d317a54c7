package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/mykafka"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, f transport.OrderFilter) ([]models.Order, int64, error)
	UpdateOrder(ctx context.Context, id string, u repo.OrderUpdate) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// OrderService validates order payloads, resolves their totals and hands
// them to the store.
type OrderService struct {
	Repo    OrderStore
	Metrics *metrics.Registry
	events  events
}

func NewOrderService(store OrderStore, pub mykafka.Publisher, m *metrics.Registry) *OrderService {
	return &OrderService{Repo: store, Metrics: m, events: newEvents(pub, m)}
}

var rejectReasons = []struct {
	err    error
	reason string
}{
	{ErrMissingCustomer, "missing_customer"},
	{ErrEmptyOrder, "empty_order"},
	{ErrMalformedItem, "malformed_item"},
	{ErrInvalidQuantity, "invalid_quantity"},
	{ErrInvalidPrice, "invalid_price"},
	{ErrInvalidDeliveryType, "invalid_delivery_type"},
	{ErrInvalidDeliveryArea, "invalid_delivery_area"},
	{ErrInvalidTotal, "invalid_total"},
}

func rejectReason(err error) string {
	for _, r := range rejectReasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "other"
}

func (s *OrderService) reject(err error) error {
	if s.Metrics != nil {
		s.Metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
	}
	return err
}

// buildItems applies the item rules one at a time over the whole list, so
// the first failing rule decides the error.
func buildItems(in []transport.OrderItemInput) ([]models.OrderItem, error) {
	if len(in) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, it := range in {
		if it.ProductID == nil || strings.TrimSpace(*it.ProductID) == "" || it.Quantity == nil || it.Price == nil {
			return nil, ErrMalformedItem
		}
	}
	for _, it := range in {
		if *it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	for _, it := range in {
		if it.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
	}

	items := make([]models.OrderItem, len(in))
	for i, it := range in {
		items[i] = models.OrderItem{
			ProductID: *it.ProductID,
			Quantity:  *it.Quantity,
			Price:     *it.Price,
		}
	}
	return items, nil
}

func checkDelivery(deliveryType, area string) error {
	if deliveryType != models.DeliveryTypeDelivery && deliveryType != models.DeliveryTypePickup {
		return ErrInvalidDeliveryType
	}
	if !models.IsDeliveryArea(area) {
		return ErrInvalidDeliveryArea
	}
	return nil
}

func orderEvent(kind string, o *models.Order) map[string]any {
	return map[string]any{
		"type":       kind,
		"orderID":    o.ID,
		"customerID": o.CustomerID,
		"total":      o.Total,
		"status":     o.Status,
	}
}

// Submit validates req and creates the order. An explicit total in req wins
// over the item sum.
func (s *OrderService) Submit(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.submit")

	if strings.TrimSpace(req.CustomerID) == "" {
		return nil, s.reject(ErrMissingCustomer)
	}
	items, err := buildItems(req.Items)
	if err != nil {
		return nil, s.reject(err)
	}

	order := &models.Order{
		CustomerID:   req.CustomerID,
		Items:        items,
		Status:       req.Status,
		DeliveryType: req.DeliveryType,
		DeliveryArea: req.DeliveryArea,
		Notes:        req.Notes,
	}
	if order.Status == "" {
		order.Status = models.OrderStatusProcessing
	}
	if order.DeliveryType == "" {
		order.DeliveryType = models.DeliveryTypeDelivery
	}
	if order.DeliveryArea == "" {
		order.DeliveryArea = models.DefaultDeliveryArea
	}
	if err := checkDelivery(order.DeliveryType, order.DeliveryArea); err != nil {
		return nil, s.reject(err)
	}

	itemsTotal := models.ItemsTotal(items)
	order.Total = itemsTotal
	if req.Total != nil {
		if req.Total.IsNegative() {
			return nil, s.reject(ErrInvalidTotal)
		}
		order.Total = *req.Total
	}
	l.Info("order_total_resolved",
		"items_total", itemsTotal.StringFixed(3),
		"request_total", totalAttr(req.Total),
		"final_total", order.Total.StringFixed(3),
	)

	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		if s.Metrics != nil {
			s.Metrics.OrderPersistFailed.Inc()
		}
		l.Error("create_order_persist_failed", "customer_id", order.CustomerID, "error", err)
		return nil, persistence("create order", err)
	}

	if s.Metrics != nil {
		s.Metrics.OrdersCreated.Inc()
	}
	s.events.publish(ctx, mykafka.TopicOrders, order.ID, orderEvent("order_created", order))
	return order, nil
}

func totalAttr(t *decimal.Decimal) string {
	if t == nil {
		return "none"
	}
	return t.StringFixed(3)
}

// Amend applies a partial update. New items always replace the total with
// their sum; a total sent alongside them is ignored.
func (s *OrderService) Amend(ctx context.Context, id string, req transport.UpdateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.amend", "order_id", id)

	u := repo.OrderUpdate{
		Status:       req.Status,
		DeliveryType: req.DeliveryType,
		DeliveryArea: req.DeliveryArea,
		Notes:        req.Notes,
	}

	if req.CustomerID != nil {
		if strings.TrimSpace(*req.CustomerID) == "" {
			return nil, ErrMissingCustomer
		}
		u.CustomerID = req.CustomerID
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) == "" {
		return nil, validation("status must not be empty")
	}
	if req.DeliveryType != nil && *req.DeliveryType != models.DeliveryTypeDelivery && *req.DeliveryType != models.DeliveryTypePickup {
		return nil, ErrInvalidDeliveryType
	}
	if req.DeliveryArea != nil && !models.IsDeliveryArea(*req.DeliveryArea) {
		return nil, ErrInvalidDeliveryArea
	}

	switch {
	case req.Items != nil:
		items, err := buildItems(*req.Items)
		if err != nil {
			return nil, err
		}
		total := models.ItemsTotal(items)
		u.Items = &items
		u.Total = &total
		if req.Total != nil && !req.Total.Equal(total) {
			l.Warn("amend_total_ignored", "request_total", req.Total.StringFixed(3), "items_total", total.StringFixed(3))
		}
	case req.Total != nil:
		if req.Total.IsNegative() {
			return nil, ErrInvalidTotal
		}
		u.Total = req.Total
	}

	order, err := s.Repo.UpdateOrder(ctx, id, u)
	if err != nil {
		err = storeErr("update order", err)
		if !errors.Is(err, ErrNotFound) {
			l.Error("update_order_persist_failed", "error", err)
		}
		return nil, err
	}

	s.events.publish(ctx, mykafka.TopicOrders, order.ID, orderEvent("order_updated", order))
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr("get order", err)
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, f transport.OrderFilter) ([]models.Order, int64, error) {
	orders, total, err := s.Repo.ListOrders(ctx, f)
	if err != nil {
		return nil, 0, persistence("list orders", err)
	}
	return orders, total, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		return storeErr("delete order", err)
	}
	s.events.publish(ctx, mykafka.TopicOrders, id, map[string]any{"type": "order_deleted", "orderID": id})
	return nil
}
