package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/transport"
)

type CustomerStore interface {
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context, p repo.Page) ([]models.Customer, int64, error)
	CreateCustomer(ctx context.Context, c *models.Customer) error
	SaveCustomer(ctx context.Context, c *models.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
}

type CustomerService struct {
	Repo CustomerStore
}

func applyCustomer(c *models.Customer, req transport.CustomerRequest) error {
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		c.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		c.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		c.Address = *req.Address
	}

	if c.Name == "" {
		return validation("name is required")
	}
	if c.Phone == "" {
		return validation("phone is required")
	}
	return nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	c, err := s.Repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, storeErr("get customer", err)
	}
	return c, nil
}

func (s *CustomerService) List(ctx context.Context, p repo.Page) ([]models.Customer, int64, error) {
	items, total, err := s.Repo.ListCustomers(ctx, p)
	if err != nil {
		return nil, 0, persistence("list customers", err)
	}
	return items, total, nil
}

func (s *CustomerService) Create(ctx context.Context, req transport.CustomerRequest) (*models.Customer, error) {
	c := &models.Customer{}
	if err := applyCustomer(c, req); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateCustomer(ctx, c); err != nil {
		return nil, persistence("create customer", err)
	}
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, req transport.CustomerRequest) (*models.Customer, error) {
	c, err := s.Repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, storeErr("get customer", err)
	}
	if err := applyCustomer(c, req); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCustomer(ctx, c); err != nil {
		return nil, persistence("save customer", err)
	}
	return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteCustomer(ctx, id); err != nil {
		return storeErr("delete customer", err)
	}
	return nil
}
