package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	pkgdb "github.com/Skotchmaster/shop_admin/pkg/db"
	"github.com/Skotchmaster/shop_admin/pkg/search"
)

type fakeIndex struct {
	docs      map[string]search.Document
	deleted   []string
	searchIDs []string
	searchErr error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]search.Document{}} }

func (f *fakeIndex) Upsert(_ context.Context, doc search.Document) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int, int) (int64, []string, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	return int64(len(f.searchIDs)), f.searchIDs, nil
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	db, err := pkgdb.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := repo.New(db)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func TestCatalog_ProductLifecycle(t *testing.T) {
	ctx := context.Background()
	idx := newFakeIndex()
	pub := &fakePublisher{}
	svc := NewCatalogService(newTestRepo(t), idx, pub, nil)

	cat, err := svc.CreateCategory(ctx, transport.CategoryRequest{Name: strp("Perfumes"), NameAr: strp("عطور")})
	require.NoError(t, err)

	p, err := svc.CreateProduct(ctx, transport.ProductRequest{
		Name:       strp("Oud"),
		Price:      dec("12.500"),
		CategoryID: &cat.ID,
		Stock:      intp(3),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.Images)
	require.Contains(t, idx.docs, p.ID)
	assert.InDelta(t, 12.5, idx.docs[p.ID].Price, 0.0001)

	updated, err := svc.UpdateProduct(ctx, p.ID, transport.ProductRequest{Price: dec("10"), Images: &[]string{"/uploads/a.png"}})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(updated.Price))
	assert.Equal(t, "Oud", updated.Name)
	assert.Equal(t, []string{"/uploads/a.png"}, updated.Images)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.Equal(t, []string{p.ID}, idx.deleted)
	_, err = svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"product_created", "product_updated", "product_deleted"}, pub.types())
}

func TestCatalog_ProductValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(newTestRepo(t), nil, nil, nil)

	_, err := svc.CreateProduct(ctx, transport.ProductRequest{Price: dec("1")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.ProductRequest{Name: strp("x")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.ProductRequest{Name: strp("x"), Price: dec("-1")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.ProductRequest{Name: strp("x"), Price: dec("1"), Stock: intp(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.ProductRequest{Name: strp("x"), Price: dec("1"), CategoryID: strp("nope")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProduct(ctx, "missing", transport.ProductRequest{Name: strp("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_SearchUsesIndexThenFallsBack(t *testing.T) {
	ctx := context.Background()
	idx := newFakeIndex()
	svc := NewCatalogService(newTestRepo(t), idx, nil, nil)

	rose, err := svc.CreateProduct(ctx, transport.ProductRequest{Name: strp("Rose water"), Price: dec("2")})
	require.NoError(t, err)
	musk, err := svc.CreateProduct(ctx, transport.ProductRequest{Name: strp("White musk"), Price: dec("3")})
	require.NoError(t, err)

	idx.searchIDs = []string{musk.ID, rose.ID}
	items, total, err := svc.SearchProducts(ctx, "anything", repo.Page{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, musk.ID, items[0].ID)

	idx.searchErr = errors.New("es down")
	items, total, err = svc.SearchProducts(ctx, "rose", repo.Page{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, rose.ID, items[0].ID)

	_, _, err = svc.SearchProducts(ctx, "  ", repo.Page{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalog_Categories(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(newTestRepo(t), nil, nil, nil)

	_, err := svc.CreateCategory(ctx, transport.CategoryRequest{Name: strp("  ")})
	assert.ErrorIs(t, err, ErrValidation)

	c, err := svc.CreateCategory(ctx, transport.CategoryRequest{Name: strp("Soaps")})
	require.NoError(t, err)

	c, err = svc.UpdateCategory(ctx, c.ID, transport.CategoryRequest{Description: strp("handmade")})
	require.NoError(t, err)
	assert.Equal(t, "Soaps", c.Name)
	assert.Equal(t, "handmade", c.Description)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, c.ID), ErrNotFound)
	_, err = svc.GetCategory(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerService(t *testing.T) {
	ctx := context.Background()
	svc := &CustomerService{Repo: newTestRepo(t)}

	_, err := svc.Create(ctx, transport.CustomerRequest{Name: strp("Sara")})
	assert.ErrorIs(t, err, ErrValidation)

	c, err := svc.Create(ctx, transport.CustomerRequest{Name: strp("Sara"), Phone: strp(" +97312345678 ")})
	require.NoError(t, err)
	assert.Equal(t, "+97312345678", c.Phone)

	c, err = svc.Update(ctx, c.ID, transport.CustomerRequest{Address: strp("Manama")})
	require.NoError(t, err)
	assert.Equal(t, "Manama", c.Address)
	assert.Equal(t, "Sara", c.Name)

	_, err = svc.Update(ctx, c.ID, transport.CustomerRequest{Name: strp("")})
	assert.ErrorIs(t, err, ErrValidation)

	list, total, err := svc.List(ctx, repo.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrNotFound)
}
