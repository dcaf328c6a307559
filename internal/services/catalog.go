package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tatangdev/Mern-Invoice-App/internal/db"
	"github.com/tatangdev/Mern-Invoice-App/internal/models"
	"github.com/tatangdev/Mern-Invoice-App/internal/validation"
)

// CatalogService owns product records scoped to their owning user.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(conn *gorm.DB) *CatalogService { return &CatalogService{db: conn} }

type CreateProductParams struct {
	Name  string
	Desc  string
	Price float64
	Image *string
}

type UpdateProductParams struct {
	Name  *string
	Desc  *string
	Price *float64
}

// List returns all products owned by ownerID, newest first.
func (s *CatalogService) List(ctx context.Context, ownerID string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at desc, id desc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get returns the product only when it exists AND belongs to ownerID. A
// wrong owner and a wrong id are deliberately indistinguishable: both come
// back as not found, so one tenant cannot probe another's catalog.
func (s *CatalogService) Get(ctx context.Context, ownerID, productID string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", productID, ownerID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("product")
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

// Resolve looks a product up by id alone, without owner scoping. It exists
// only for the invoice snapshot step and reports which id was missing.
func (s *CatalogService) Resolve(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("product %s", productID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve product %s: %w", productID, err)
	}
	return &product, nil
}

// Create validates and persists a new product. The per-owner name check is a
// fast path; the unique index is what actually guarantees the invariant
// under concurrent requests.
func (s *CatalogService) Create(ctx context.Context, ownerID string, p CreateProductParams) (*models.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Desc = strings.TrimSpace(p.Desc)

	v := validation.Violations{}
	validation.Required("name", p.Name, v)
	validation.MaxLen("name", p.Name, 200, v)
	validation.Required("desc", p.Desc, v)
	validation.NonNegative("price", p.Price, v)
	if !v.Empty() {
		return nil, invalid(v)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("user_id = ? AND name = ?", ownerID, p.Name).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check product name: %w", err)
	}
	if count > 0 {
		return nil, conflictf("product name %q already exists", p.Name)
	}

	product := models.Product{
		UserID: ownerID,
		Name:   p.Name,
		Desc:   p.Desc,
		Price:  p.Price,
		Image:  p.Image,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return nil, conflictf("product name %q already exists", p.Name)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

// Update applies a partial patch to an owned product. When the name changes,
// uniqueness is re-checked against the owner's other products.
func (s *CatalogService) Update(ctx context.Context, ownerID, productID string, p UpdateProductParams) (*models.Product, error) {
	product, err := s.Get(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	v := validation.Violations{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		validation.Required("name", name, v)
		validation.MaxLen("name", name, 200, v)
		p.Name = &name
	}
	if p.Desc != nil {
		desc := strings.TrimSpace(*p.Desc)
		validation.Required("desc", desc, v)
		p.Desc = &desc
	}
	if p.Price != nil {
		validation.NonNegative("price", *p.Price, v)
	}
	if !v.Empty() {
		return nil, invalid(v)
	}

	if p.Name != nil && *p.Name != product.Name {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Product{}).
			Where("user_id = ? AND name = ? AND id <> ?", ownerID, *p.Name, product.ID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check product name: %w", err)
		}
		if count > 0 {
			return nil, conflictf("product name %q already exists", *p.Name)
		}
		product.Name = *p.Name
	}
	if p.Desc != nil {
		product.Desc = *p.Desc
	}
	if p.Price != nil {
		product.Price = *p.Price
	}

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return nil, conflictf("product name %q already exists", product.Name)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// Delete removes an owned product. Invoices that snapshotted it keep their
// copied item fields untouched.
func (s *CatalogService) Delete(ctx context.Context, ownerID, productID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", productID, ownerID).
		Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf("product")
	}
	return nil
}
