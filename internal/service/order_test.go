package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	pkgdb "github.com/Skotchmaster/shop_admin/pkg/db"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/mykafka"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }
func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func item(productID string, qty int, price string) transport.OrderItemInput {
	return transport.OrderItemInput{ProductID: strp(productID), Quantity: intp(qty), Price: dec(price)}
}

func twoItems() []transport.OrderItemInput {
	return []transport.OrderItemInput{item("p1", 2, "10"), item("p2", 1, "5")}
}

func newOrderSvc() (*OrderService, *fakeOrderStore, *fakePublisher) {
	store := newFakeOrderStore()
	pub := &fakePublisher{}
	return NewOrderService(store, pub, metrics.NewRegistry()), store, pub
}

func TestSubmit_ComputesTotalAndDefaults(t *testing.T) {
	svc, store, pub := newOrderSvc()

	order, err := svc.Submit(context.Background(), transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems()})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(25).Equal(order.Total), "total = %s", order.Total)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, models.DeliveryTypeDelivery, order.DeliveryType)
	assert.Equal(t, models.DefaultDeliveryArea, order.DeliveryArea)
	assert.Equal(t, "", order.Notes)
	assert.Equal(t, 1, store.createCalls)

	stored := store.orders[order.ID]
	require.NotNil(t, stored)
	assert.True(t, decimal.NewFromInt(25).Equal(stored.Total))
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "p1", stored.Items[0].ProductID)

	assert.Equal(t, []string{"order_created"}, pub.types())
	assert.Equal(t, mykafka.TopicOrders, pub.events[0].Topic)
}

func TestSubmit_ExplicitTotalWins(t *testing.T) {
	svc, store, _ := newOrderSvc()

	order, err := svc.Submit(context.Background(), transport.CreateOrderRequest{
		CustomerID: "c1",
		Items:      twoItems(),
		Total:      dec("20"),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(order.Total))
	assert.True(t, decimal.NewFromInt(20).Equal(store.orders[order.ID].Total))
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name string
		req  transport.CreateOrderRequest
		want error
	}{
		{
			name: "missing customer",
			req:  transport.CreateOrderRequest{Items: twoItems()},
			want: ErrMissingCustomer,
		},
		{
			name: "empty items",
			req:  transport.CreateOrderRequest{CustomerID: "c1", Items: []transport.OrderItemInput{}},
			want: ErrEmptyOrder,
		},
		{
			name: "nil items",
			req:  transport.CreateOrderRequest{CustomerID: "c1"},
			want: ErrEmptyOrder,
		},
		{
			name: "missing price",
			req: transport.CreateOrderRequest{CustomerID: "c1", Items: []transport.OrderItemInput{
				{ProductID: strp("p1"), Quantity: intp(1)},
			}},
			want: ErrMalformedItem,
		},
		{
			name: "missing product",
			req: transport.CreateOrderRequest{CustomerID: "c1", Items: []transport.OrderItemInput{
				{Quantity: intp(1), Price: dec("1")},
			}},
			want: ErrMalformedItem,
		},
		{
			name: "zero quantity",
			req:  transport.CreateOrderRequest{CustomerID: "c1", Items: []transport.OrderItemInput{item("p1", 0, "10")}},
			want: ErrInvalidQuantity,
		},
		{
			name: "negative quantity",
			req:  transport.CreateOrderRequest{CustomerID: "c1", Items: []transport.OrderItemInput{item("p1", -3, "10")}},
			want: ErrInvalidQuantity,
		},
		{
			name: "negative price",
			req:  transport.CreateOrderRequest{CustomerID: "c1", Items: []transport.OrderItemInput{item("p1", 1, "-0.5")}},
			want: ErrInvalidPrice,
		},
		{
			name: "malformed beats quantity",
			req: transport.CreateOrderRequest{CustomerID: "c1", Items: []transport.OrderItemInput{
				item("p1", -1, "10"),
				{ProductID: strp("p2"), Quantity: intp(1)},
			}},
			want: ErrMalformedItem,
		},
		{
			name: "quantity beats price",
			req: transport.CreateOrderRequest{CustomerID: "c1", Items: []transport.OrderItemInput{
				item("p1", 1, "-1"),
				item("p2", 0, "5"),
			}},
			want: ErrInvalidQuantity,
		},
		{
			name: "unknown delivery type",
			req:  transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems(), DeliveryType: "drone"},
			want: ErrInvalidDeliveryType,
		},
		{
			name: "unknown delivery area",
			req:  transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems(), DeliveryArea: "atlantis"},
			want: ErrInvalidDeliveryArea,
		},
		{
			name: "negative explicit total",
			req:  transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems(), Total: dec("-1")},
			want: ErrInvalidTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, pub := newOrderSvc()

			order, err := svc.Submit(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, store.createCalls, "no persistence call on rejection")
			assert.Empty(t, pub.types())
		})
	}
}

func TestSubmit_ZeroPriceAccepted(t *testing.T) {
	svc, _, _ := newOrderSvc()

	order, err := svc.Submit(context.Background(), transport.CreateOrderRequest{
		CustomerID: "c1",
		Items:      []transport.OrderItemInput{item("gift", 1, "0")},
	})
	require.NoError(t, err)
	assert.True(t, order.Total.IsZero())
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	svc, store, pub := newOrderSvc()
	cause := errors.New("connection refused")
	store.createErr = cause

	_, err := svc.Submit(context.Background(), transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrValidation)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "create order", pe.Op)
	assert.Empty(t, pub.types())
}

func TestSubmit_PublishFailureDoesNotFail(t *testing.T) {
	svc, store, pub := newOrderSvc()
	pub.err = errors.New("broker down")

	_, err := svc.Submit(context.Background(), transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems()})
	require.NoError(t, err)
	assert.Equal(t, 1, store.createCalls)
}

func TestAmend_ItemsRecomputeTotal(t *testing.T) {
	svc, store, pub := newOrderSvc()
	ctx := context.Background()

	order, err := svc.Submit(ctx, transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems(), Total: dec("20")})
	require.NoError(t, err)

	items := []transport.OrderItemInput{item("p1", 3, "10")}
	amended, err := svc.Amend(ctx, order.ID, transport.UpdateOrderRequest{Items: &items, Total: dec("99")})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(30).Equal(amended.Total), "total = %s", amended.Total)
	require.NotNil(t, store.lastUpdate.Total)
	assert.True(t, decimal.NewFromInt(30).Equal(*store.lastUpdate.Total))
	require.Len(t, amended.Items, 1)
	assert.Equal(t, []string{"order_created", "order_updated"}, pub.types())
}

func TestAmend_TotalWithoutItems(t *testing.T) {
	svc, _, _ := newOrderSvc()
	ctx := context.Background()

	order, err := svc.Submit(ctx, transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems()})
	require.NoError(t, err)

	amended, err := svc.Amend(ctx, order.ID, transport.UpdateOrderRequest{Total: dec("22.5"), Status: strp("shipped")})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("22.5").Equal(amended.Total))
	assert.Equal(t, "shipped", amended.Status)

	_, err = svc.Amend(ctx, order.ID, transport.UpdateOrderRequest{Total: dec("-2")})
	assert.ErrorIs(t, err, ErrInvalidTotal)
}

func TestAmend_ValidatesItems(t *testing.T) {
	svc, store, _ := newOrderSvc()
	ctx := context.Background()

	order, err := svc.Submit(ctx, transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems()})
	require.NoError(t, err)

	empty := []transport.OrderItemInput{}
	_, err = svc.Amend(ctx, order.ID, transport.UpdateOrderRequest{Items: &empty})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	bad := []transport.OrderItemInput{item("p1", 0, "1")}
	_, err = svc.Amend(ctx, order.ID, transport.UpdateOrderRequest{Items: &bad})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Amend(ctx, order.ID, transport.UpdateOrderRequest{DeliveryArea: strp("nowhere")})
	assert.ErrorIs(t, err, ErrInvalidDeliveryArea)

	assert.Equal(t, 0, store.updateCalls)
}

func TestAmend_NotFound(t *testing.T) {
	svc, _, _ := newOrderSvc()

	_, err := svc.Amend(context.Background(), "missing", transport.UpdateOrderRequest{Status: strp("shipped")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDelete(t *testing.T) {
	svc, _, pub := newOrderSvc()
	ctx := context.Background()

	order, err := svc.Submit(ctx, transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems()})
	require.NoError(t, err)

	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, order.ID))
	_, err = svc.Get(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, order.ID), ErrNotFound)
	assert.Equal(t, []string{"order_created", "order_deleted"}, pub.types())
}

func TestOrderService_WithGormRepo(t *testing.T) {
	db, err := pkgdb.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := repo.New(db)
	require.NoError(t, r.Migrate(context.Background()))

	svc := NewOrderService(r, mykafka.Nop{}, nil)
	ctx := context.Background()

	order, err := svc.Submit(ctx, transport.CreateOrderRequest{CustomerID: "c1", Items: twoItems()})
	require.NoError(t, err)

	stored, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(stored.Total))
	assert.Len(t, stored.Items, 2)

	items := []transport.OrderItemInput{item("p1", 3, "10")}
	_, err = svc.Amend(ctx, order.ID, transport.UpdateOrderRequest{Items: &items, Total: dec("1")})
	require.NoError(t, err)

	stored, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(stored.Total))
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3, stored.Items[0].Quantity)

	_, err = svc.Amend(ctx, "missing", transport.UpdateOrderRequest{Notes: strp("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}
