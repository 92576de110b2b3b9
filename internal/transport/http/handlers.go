package http

import (
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/product-catalog-api/internal/domain"
	"github.com/kahvecikaan/product-catalog-api/internal/service"
	"net/http"
	"strconv"
)

// Default listing parameters
const (
	defaultPage    = 0
	defaultSize    = 5
	defaultSortBy  = "id"
	defaultSortDir = "asc"
)

type ProductHandler struct {
	productService service.ProductService
	logger         hclog.Logger
}

func NewProductHandler(ps service.ProductService, log hclog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: ps,
		logger:         log,
	}
}

// CreateProduct handles POST /api/products
//
// swagger:route POST /api/products products createProduct
//
// Creates a new product. Requires the ADMIN role.
//
// Responses:
//
//	200: productResponse
//	400: validationErrorResponse
//	401: errorResponse
//	403: errorResponse
//	500: errorResponse
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	// Retrieve the validated product from the context
	dto, ok := r.Context().Value(ContextKeyProduct).(*domain.ProductDTO)
	if !ok {
		http.Error(w, "Invalid product data", http.StatusBadRequest)
		return
	}

	created, err := h.productService.CreateProduct(r.Context(), dto)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respond(w, "Product created successfully", created)
}

// GetAllProducts handles GET /api/products
//
// swagger:route GET /api/products products listProducts
//
// Returns one page of products. Requires the USER or ADMIN role.
//
// Responses:
//
//	200: productPageResponse
//	400: errorResponse
//	401: errorResponse
//	403: errorResponse
//	500: errorResponse
func (h *ProductHandler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := intParam(query.Get("page"), defaultPage)
	if err != nil {
		http.Error(w, "Invalid value for parameter page", http.StatusBadRequest)
		return
	}
	size, err := intParam(query.Get("size"), defaultSize)
	if err != nil {
		http.Error(w, "Invalid value for parameter size", http.StatusBadRequest)
		return
	}
	sortBy := stringParam(query.Get("sortBy"), defaultSortBy)
	sortDir := stringParam(query.Get("sortDir"), defaultSortDir)

	products, err := h.productService.GetAllProducts(r.Context(), page, size, sortBy, sortDir)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respond(w, "Products fetched successfully", products)
}

// GetProductByID handles GET /api/products/{id}
//
// swagger:route GET /api/products/{id} products getProductByID
//
// Returns a product by ID. Requires the USER or ADMIN role.
//
// Responses:
//
//	200: productResponse
//	400: errorResponse
//	401: errorResponse
//	403: errorResponse
//	404: errorResponse
func (h *ProductHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := h.productService.GetProductByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respond(w, "Product fetched successfully", product)
}

// UpdateProduct handles PUT /api/products/{id}
//
// swagger:route PUT /api/products/{id} products updateProduct
//
// Replaces the name, description, price and quantity of a product.
// Requires the ADMIN role.
//
// Responses:
//
//	200: productResponse
//	400: validationErrorResponse
//	401: errorResponse
//	403: errorResponse
//	404: errorResponse
//	500: errorResponse
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	// Retrieve the validated product from the context
	dto, ok := r.Context().Value(ContextKeyProduct).(*domain.ProductDTO)
	if !ok {
		http.Error(w, "Invalid product data", http.StatusBadRequest)
		return
	}

	updated, err := h.productService.UpdateProduct(r.Context(), id, dto)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respond(w, "Product updated successfully", updated)
}

// DeleteProduct handles DELETE /api/products/{id}
//
// swagger:route DELETE /api/products/{id} products deleteProduct
//
// Deletes a product. Requires the ADMIN role.
//
// Responses:
//
//	200: deleteResponse
//	401: errorResponse
//	403: errorResponse
//	404: errorResponse
//	500: errorResponse
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	err = h.productService.DeleteProduct(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respond[*string](w, "Product deleted successfully", nil)
}

func productID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// intParam parses a 32-bit query integer, falling back to def when absent
func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func stringParam(raw, def string) string {
	if raw == "" {
		return def
	}
	return raw
}
