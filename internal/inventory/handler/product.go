package handler

import (
	"net/http"

	"github.com/retailhub/backoffice/internal/inventory/repository"
	"github.com/retailhub/backoffice/internal/inventory/service"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
)

// CatalogHandler handles product, supplier, category and brand endpoints
type CatalogHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(svc *service.InventoryService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  log,
	}
}

// NameRequest is the body of endpoints creating a named catalog entry
type NameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ListProducts lists products with stock; ?search= filters by name
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, products)
}

// GetProduct gets a product
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, product)
}

// CreateProduct adds a product
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, product)
}

// UpdateProduct updates a product
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.ProductInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, product)
}

// ListSuppliers lists suppliers; ?search= matches name, contact or email
func (h *CatalogHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	filter := repository.SupplierFilter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	suppliers, err := h.service.ListSuppliers(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, suppliers)
}

// GetSupplier gets a supplier
func (h *CatalogHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	supplier, err := h.service.GetSupplier(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, supplier)
}

// CreateSupplier adds a supplier
func (h *CatalogHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req service.SupplierInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	supplier, err := h.service.CreateSupplier(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, supplier)
}

// UpdateSupplier updates a supplier
func (h *CatalogHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.SupplierInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	supplier, err := h.service.UpdateSupplier(r.Context(), id, req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, supplier)
}

// ListCategories lists categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, categories)
}

// CreateCategory adds a category
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, category)
}

// ListBrands lists brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.ListBrands(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, brands)
}

// CreateBrand adds a brand
func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	brand, err := h.service.CreateBrand(r.Context(), req.Name)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, brand)
}
