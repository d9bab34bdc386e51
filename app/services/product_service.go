package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/app/repositories"
	"github.com/hostelease/hostelease/pkg/cache"
	"github.com/hostelease/hostelease/pkg/logger"
	"github.com/hostelease/hostelease/pkg/storage"
	"gorm.io/gorm"
)

const (
	catalogCacheKey = "hostelease:products"
	catalogCacheTTL = 5 * time.Minute
)

// ProductService owns the catalog: listing with a Redis read cache,
// admin CRUD with image files on the storage disk.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(products *repositories.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// CreateProductInput carries the multipart fields for a new product.
// Image is the uploaded file, required on create.
type CreateProductInput struct {
	Name     string
	Price    float64
	Image    io.Reader
	Filename string
}

// UpdateProductInput carries partial fields; nil means "leave unchanged".
type UpdateProductInput struct {
	Name     *string
	Price    *float64
	Image    io.Reader // nil keeps the current image
	Filename string
}

// List returns the catalog, served from cache when warm.
func (s *ProductService) List() ([]models.Product, error) {
	var cached []models.Product
	if cache.Get(catalogCacheKey, &cached) {
		return cached, nil
	}

	products, err := s.products.All()
	if err != nil {
		return nil, err
	}

	if err := cache.Set(catalogCacheKey, products, catalogCacheTTL); err != nil {
		logger.Warn("products: cache set failed", "error", err)
	}
	return products, nil
}

// Create validates the input, stores the image on the configured disk and
// persists the product.
func (s *ProductService) Create(input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if input.Image == nil {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}

	path, url, err := s.storeImage(input.Image, input.Filename)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:      strings.TrimSpace(input.Name),
		Price:     input.Price,
		Image:     url,
		ImagePath: path,
	}
	if err := s.products.Create(product); err != nil {
		return nil, err
	}

	s.invalidate()
	logger.Info("products: created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// Update applies the provided fields to an existing product. A new image
// replaces the stored one; the old file is removed best-effort.
func (s *ProductService) Update(id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
		}
		product.Price = *input.Price
	}
	if input.Image != nil {
		oldPath := product.ImagePath
		path, url, err := s.storeImage(input.Image, input.Filename)
		if err != nil {
			return nil, err
		}
		product.Image = url
		product.ImagePath = path
		if oldPath != "" {
			if err := storage.Delete(oldPath); err != nil {
				logger.Warn("products: old image not removed", "path", oldPath, "error", err)
			}
		}
	}

	if err := s.products.Update(product); err != nil {
		return nil, err
	}

	s.invalidate()
	return product, nil
}

// Delete removes the product and its stored image best-effort.
func (s *ProductService) Delete(id uint) error {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.products.Delete(id); err != nil {
		return err
	}

	if product.ImagePath != "" {
		if err := storage.Delete(product.ImagePath); err != nil {
			logger.Warn("products: image not removed", "path", product.ImagePath, "error", err)
		}
	}

	s.invalidate()
	logger.Info("products: deleted", "product_id", id)
	return nil
}

func (s *ProductService) storeImage(r io.Reader, filename string) (path, url string, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	path = fmt.Sprintf("products/%d%s", time.Now().UnixNano(), ext)
	if err := storage.PutStream(path, r); err != nil {
		return "", "", fmt.Errorf("products: store image: %w", err)
	}
	return path, storage.URL(path), nil
}

func (s *ProductService) invalidate() {
	if err := cache.Del(catalogCacheKey); err != nil {
		logger.Warn("products: cache invalidation failed", "error", err)
	}
}
