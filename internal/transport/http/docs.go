// Package classification of Product API
//
// # Documentation for Product API
//
// Schemes: http
// BasePath: /
// Version: 1.0.0
//
// Consumes:
// - application/json
//
// Produces:
// - application/json
//
// SecurityDefinitions:
// bearer:
//
//	type: apiKey
//	name: Authorization
//	in: header
//
// swagger:meta
package http

import "github.com/kahvecikaan/product-catalog-api/internal/domain"

// NOTE: Types defined here are purely for documentation purposes
// These types are not used by any of the handlers

// Envelope with a null payload describing the error
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in: body
	Body APIResponse[*string]
}

// Envelope whose payload lists the fields that failed validation
// swagger:response validationErrorResponse
type validationErrorResponseWrapper struct {
	// in: body
	Body APIResponse[domain.ValidationErrors]
}

// Envelope around a single product
// swagger:response productResponse
type productResponseWrapper struct {
	// in: body
	Body APIResponse[domain.ProductDTO]
}

// Envelope around one page of products
// swagger:response productPageResponse
type productPageResponseWrapper struct {
	// in: body
	Body APIResponse[domain.PagedResponse[domain.ProductDTO]]
}

// Envelope with a null payload confirming a delete
// swagger:response deleteResponse
type deleteResponseWrapper struct {
	// in: body
	Body APIResponse[*string]
}

// swagger:parameters getProductByID deleteProduct updateProduct
type productIDParamsWrapper struct {
	// The ID of the product
	// in: path
	// required: true
	ID int64 `json:"id"`
}

// swagger:parameters createProduct updateProduct
type productBodyParamsWrapper struct {
	// Product data structure to create or update.
	// in: body
	// required: true
	Body domain.ProductDTO
}

// swagger:parameters listProducts
type listProductsParamsWrapper struct {
	// Zero-based page index
	// in: query
	// default: 0
	Page int `json:"page"`

	// Page size
	// in: query
	// default: 5
	Size int `json:"size"`

	// Field to sort by: id, name, description, price or quantity
	// in: query
	// default: id
	SortBy string `json:"sortBy"`

	// asc for ascending, anything else for descending
	// in: query
	// default: asc
	SortDir string `json:"sortDir"`
}
