package service

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/transport"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, _ := event.(map[string]any)
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: m})
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i], _ = e.Event["type"].(string)
	}
	return out
}

type fakeOrderStore struct {
	orders      map[string]*models.Order
	createCalls int
	updateCalls int
	lastUpdate  repo.OrderUpdate
	createErr   error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*models.Order{}}
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, o *models.Order) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if o.ID == "" {
		o.ID = "order-1"
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) ListOrders(context.Context, transport.OrderFilter) ([]models.Order, int64, error) {
	out := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderStore) UpdateOrder(_ context.Context, id string, u repo.OrderUpdate) (*models.Order, error) {
	f.updateCalls++
	f.lastUpdate = u
	o, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if u.Items != nil {
		o.Items = *u.Items
	}
	if u.Total != nil {
		o.Total = *u.Total
	}
	if u.Status != nil {
		o.Status = *u.Status
	}
	if u.Notes != nil {
		o.Notes = *u.Notes
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) DeleteOrder(_ context.Context, id string) error {
	if _, ok := f.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.orders, id)
	return nil
}

// faultyAdminStore wraps a memory store and fails the configured calls.
type faultyAdminStore struct {
	inner     *repo.MemoryAdminStore
	getErr    error
	createErr error
	updateErr error
}

func newFaultyAdminStore() *faultyAdminStore {
	return &faultyAdminStore{inner: repo.NewMemoryAdminStore()}
}

func (f *faultyAdminStore) GetAdmin(ctx context.Context) (*models.AdminUser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.inner.GetAdmin(ctx)
}

func (f *faultyAdminStore) CreateAdmin(ctx context.Context, a *models.AdminUser) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.inner.CreateAdmin(ctx, a)
}

func (f *faultyAdminStore) UpdateAdmin(ctx context.Context, a *models.AdminUser) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.inner.UpdateAdmin(ctx, a)
}
