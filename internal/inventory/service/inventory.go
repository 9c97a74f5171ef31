package service

import (
	"context"

	"github.com/retailhub/backoffice/internal/inventory/repository"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	defaultReorderLevel  = 10
	supplierStatusActive = "Active"
)

// ProductInput carries the editable fields of a product
type ProductInput struct {
	Name          string           `json:"product_name" validate:"required,max=150"`
	BrandID       *int64           `json:"brand_id"`
	CategoryID    int64            `json:"category_id" validate:"required"`
	SubcategoryID *int64           `json:"subcategory_id"`
	SupplierID    *int64           `json:"supplier_id"`
	Unit          string           `json:"unit" validate:"required,max=20"`
	ReorderLevel  *int             `json:"reorder_level" validate:"omitempty,min=0"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
}

// SupplierInput carries the editable fields of a supplier
type SupplierInput struct {
	Name          string  `json:"supplier_name" validate:"required,max=150"`
	ContactPerson string  `json:"contact_person" validate:"required,max=100"`
	Phone         string  `json:"phone" validate:"required,max=30"`
	Email         string  `json:"email" validate:"required,email"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	Country       *string `json:"country"`
	GSTNumber     string  `json:"gst_number" validate:"required,max=30"`
	Status        string  `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// InventoryService handles the product and supplier catalog
type InventoryService struct {
	productRepo  *repository.ProductRepository
	supplierRepo *repository.SupplierRepository
	catalogRepo  *repository.CatalogRepository
	logger       *logger.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	productRepo *repository.ProductRepository,
	supplierRepo *repository.SupplierRepository,
	catalogRepo *repository.CatalogRepository,
	log *logger.Logger,
) *InventoryService {
	return &InventoryService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		catalogRepo:  catalogRepo,
		logger:       log,
	}
}

// ListProducts lists products with stock, or those matching search
func (s *InventoryService) ListProducts(ctx context.Context, search string) ([]*repository.Product, error) {
	if search != "" {
		return s.productRepo.Search(ctx, search)
	}
	return s.productRepo.List(ctx)
}

// GetProduct gets a product by ID
func (s *InventoryService) GetProduct(ctx context.Context, id int64) (*repository.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// CreateProduct adds a product. The reorder level defaults to 10 and the
// tax percentage to 0.
func (s *InventoryService) CreateProduct(ctx context.Context, in ProductInput) (*repository.Product, error) {
	p := &repository.Product{}
	applyProduct(p, in)

	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return s.productRepo.GetByID(ctx, p.ID)
}

// UpdateProduct replaces a product's catalog fields
func (s *InventoryService) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*repository.Product, error) {
	p := &repository.Product{ID: id}
	applyProduct(p, in)

	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return s.productRepo.GetByID(ctx, id)
}

func applyProduct(p *repository.Product, in ProductInput) {
	p.Name = in.Name
	p.BrandID = in.BrandID
	p.CategoryID = in.CategoryID
	p.SubcategoryID = in.SubcategoryID
	p.SupplierID = in.SupplierID
	p.Unit = in.Unit

	p.ReorderLevel = defaultReorderLevel
	if in.ReorderLevel != nil {
		p.ReorderLevel = *in.ReorderLevel
	}
	p.TaxPercentage = decimal.Zero
	if in.TaxPercentage != nil {
		p.TaxPercentage = *in.TaxPercentage
	}
}

// ListSuppliers lists suppliers
func (s *InventoryService) ListSuppliers(ctx context.Context, filter repository.SupplierFilter) ([]*repository.Supplier, error) {
	return s.supplierRepo.List(ctx, filter)
}

// GetSupplier gets a supplier by ID
func (s *InventoryService) GetSupplier(ctx context.Context, id int64) (*repository.Supplier, error) {
	return s.supplierRepo.GetByID(ctx, id)
}

// CreateSupplier adds a supplier, Active unless stated otherwise
func (s *InventoryService) CreateSupplier(ctx context.Context, in SupplierInput) (*repository.Supplier, error) {
	sup := &repository.Supplier{}
	applySupplier(sup, in)

	if err := s.supplierRepo.Create(ctx, sup); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("supplier_id", sup.ID).Str("name", sup.Name).Msg("supplier created")
	return sup, nil
}

// UpdateSupplier replaces a supplier's fields
func (s *InventoryService) UpdateSupplier(ctx context.Context, id int64, in SupplierInput) (*repository.Supplier, error) {
	sup := &repository.Supplier{ID: id}
	applySupplier(sup, in)

	if err := s.supplierRepo.Update(ctx, sup); err != nil {
		return nil, err
	}
	return s.supplierRepo.GetByID(ctx, id)
}

func applySupplier(sup *repository.Supplier, in SupplierInput) {
	sup.Name = in.Name
	sup.ContactPerson = in.ContactPerson
	sup.Phone = in.Phone
	sup.Email = in.Email
	sup.Address = in.Address
	sup.City = in.City
	sup.Country = in.Country
	sup.GSTNumber = in.GSTNumber
	sup.Status = in.Status
	if sup.Status == "" {
		sup.Status = supplierStatusActive
	}
}

// ListCategories lists product categories
func (s *InventoryService) ListCategories(ctx context.Context) ([]*repository.Category, error) {
	return s.catalogRepo.ListCategories(ctx)
}

// CreateCategory adds a product category
func (s *InventoryService) CreateCategory(ctx context.Context, name string) (*repository.Category, error) {
	c := &repository.Category{Name: name}
	if err := s.catalogRepo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListBrands lists brands
func (s *InventoryService) ListBrands(ctx context.Context) ([]*repository.Brand, error) {
	return s.catalogRepo.ListBrands(ctx)
}

// CreateBrand adds a brand
func (s *InventoryService) CreateBrand(ctx context.Context, name string) (*repository.Brand, error) {
	b := &repository.Brand{Name: name}
	if err := s.catalogRepo.CreateBrand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
