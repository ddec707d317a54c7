package repo

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

var ErrNoAdmin = errors.New("admin user not found")

// AdminStore holds the single administrator record.
type AdminStore interface {
	GetAdmin(ctx context.Context) (*models.AdminUser, error)
	CreateAdmin(ctx context.Context, a *models.AdminUser) error
	UpdateAdmin(ctx context.Context, a *models.AdminUser) error
}

func (r *GormRepo) GetAdmin(ctx context.Context) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.DB.WithContext(ctx).Order("created_at ASC").First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoAdmin
		}
		return nil, err
	}
	return &admin, nil
}

func (r *GormRepo) CreateAdmin(ctx context.Context, a *models.AdminUser) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) UpdateAdmin(ctx context.Context, a *models.AdminUser) error {
	res := r.DB.WithContext(ctx).Model(&models.AdminUser{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"email":         a.Email,
			"password_hash": a.PasswordHash,
			"updated_at":    a.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoAdmin
	}
	return nil
}

// MemoryAdminStore keeps the record in process memory. Writes are
// last-write-wins.
type MemoryAdminStore struct {
	mu    sync.Mutex
	admin *models.AdminUser
}

func NewMemoryAdminStore() *MemoryAdminStore {
	return &MemoryAdminStore{}
}

func (m *MemoryAdminStore) GetAdmin(context.Context) (*models.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.admin == nil {
		return nil, ErrNoAdmin
	}
	cp := *m.admin
	return &cp, nil
}

func (m *MemoryAdminStore) CreateAdmin(_ context.Context, a *models.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.admin = &cp
	return nil
}

func (m *MemoryAdminStore) UpdateAdmin(_ context.Context, a *models.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.admin == nil {
		return ErrNoAdmin
	}
	cp := *a
	m.admin = &cp
	return nil
}
