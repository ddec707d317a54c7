package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/mykafka"
	"github.com/Skotchmaster/shop_admin/pkg/search"
)

type CatalogStore interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, categoryID string, p repo.Page) ([]models.Product, int64, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	SearchProducts(ctx context.Context, q string, p repo.Page) ([]models.Product, int64, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	SaveCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// CatalogService manages products and categories. Index is optional; when
// nil, search runs against the database.
type CatalogService struct {
	Repo   CatalogStore
	Index  search.Index
	events events
}

func NewCatalogService(store CatalogStore, idx search.Index, pub mykafka.Publisher, m *metrics.Registry) *CatalogService {
	return &CatalogService{Repo: store, Index: idx, events: newEvents(pub, m)}
}

func toDocument(p *models.Product) search.Document {
	return search.Document{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Price:       p.Price.InexactFloat64(),
	}
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Upsert(ctx, toDocument(p)); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) unindex(ctx context.Context, id string) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Delete(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search_unindex_failed", "product_id", id, "error", err)
	}
}

func (s *CatalogService) checkCategory(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := s.Repo.GetCategory(ctx, id); err != nil {
		if err = storeErr("get category", err); errors.Is(err, ErrNotFound) {
			return validation("unknown categoryId %q", id)
		}
		return err
	}
	return nil
}

func applyProduct(p *models.Product, req transport.ProductRequest) error {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Images != nil {
		p.Images = append([]string{}, (*req.Images)...)
	}
	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	switch {
	case p.Name == "":
		return validation("name is required")
	case p.Price.IsNegative():
		return validation("price must not be negative")
	case p.Stock < 0:
		return validation("stock must not be negative")
	}
	return nil
}

func productEvent(kind string, p *models.Product) map[string]any {
	return map[string]any{
		"type":      kind,
		"productID": p.ID,
		"name":      p.Name,
		"price":     p.Price,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("get product", err)
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, categoryID string, page repo.Page) ([]models.Product, int64, error) {
	items, total, err := s.Repo.ListProducts(ctx, categoryID, page)
	if err != nil {
		return nil, 0, persistence("list products", err)
	}
	return items, total, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if req.Price == nil {
		return nil, validation("price is required")
	}
	p := &models.Product{}
	if err := applyProduct(p, req); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, persistence("create product", err)
	}
	s.index(ctx, p)
	s.events.publish(ctx, mykafka.TopicProducts, p.ID, productEvent("product_created", p))
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req transport.ProductRequest) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("get product", err)
	}
	if err := applyProduct(p, req); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, p.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, persistence("save product", err)
	}
	s.index(ctx, p)
	s.events.publish(ctx, mykafka.TopicProducts, p.ID, productEvent("product_updated", p))
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return storeErr("delete product", err)
	}
	s.unindex(ctx, id)
	s.events.publish(ctx, mykafka.TopicProducts, id, map[string]any{"type": "product_deleted", "productID": id})
	return nil
}

// SearchProducts queries the search index, falling back to the database
// when the index is absent or failing.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, page repo.Page) ([]models.Product, int64, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, 0, validation("query is required")
	}

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, q, page.Offset, page.Limit)
		if err == nil {
			items, err := s.Repo.GetProductsByIDs(ctx, ids)
			if err != nil {
				return nil, 0, persistence("get products by ids", err)
			}
			return items, total, nil
		}
		l.Warn("search_index_unavailable", "reason", "falling back to database", "error", err)
	}

	items, total, err := s.Repo.SearchProducts(ctx, q, page)
	if err != nil {
		return nil, 0, persistence("search products", err)
	}
	return items, total, nil
}

func applyCategory(c *models.Category, req transport.CategoryRequest) error {
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.NameAr != nil {
		c.NameAr = *req.NameAr
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if c.Name == "" {
		return validation("name is required")
	}
	return nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr("get category", err)
	}
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	items, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, persistence("list categories", err)
	}
	return items, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	c := &models.Category{}
	if err := applyCategory(c, req); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, persistence("create category", err)
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, req transport.CategoryRequest) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr("get category", err)
	}
	if err := applyCategory(c, req); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, persistence("save category", err)
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		return storeErr("delete category", err)
	}
	return nil
}
