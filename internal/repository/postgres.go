package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/kahvecikaan/product-catalog-api/internal/domain"
)

// driverName is the database/sql driver registered by pgx/v5/stdlib
const driverName = "pgx"

const productColumns = "id, name, description, price, quantity"

// sortColumns maps sortable fields to SQL columns. Only these reach ORDER BY.
var sortColumns = map[string]string{
	"id":          "id",
	"name":        "name",
	"description": "description",
	"price":       "price",
	"quantity":    "quantity",
}

// OpenPostgres connects to databaseURL and verifies the connection
func OpenPostgres(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

type postgresProductRepository struct {
	db *sqlx.DB
}

// NewPostgresProductRepository stores products in the products table of db
func NewPostgresProductRepository(db *sqlx.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

func (r *postgresProductRepository) Save(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	var saved domain.Product

	if p.ID != 0 {
		err := r.db.GetContext(ctx, &saved,
			`UPDATE products SET name = $2, description = $3, price = $4, quantity = $5
			 WHERE id = $1 RETURNING `+productColumns,
			p.ID, p.Name, p.Description, p.Price, p.Quantity)
		if err == nil {
			return &saved, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("update product %d: %w", p.ID, err)
		}
	}

	err := r.db.GetContext(ctx, &saved,
		`INSERT INTO products (name, description, price, quantity)
		 VALUES ($1, $2, $3, $4) RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.Quantity)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	return &saved, nil
}

func (r *postgresProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product

	err := r.db.GetContext(ctx, &product,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product %d: %w", id, err)
	}

	return &product, nil
}

func (r *postgresProductRepository) FindAll(ctx context.Context, req domain.PageRequest) (*domain.Page, error) {
	column, ok := sortColumns[req.Sort.Field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortField, req.Sort.Field)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products`); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	order := fmt.Sprintf("%s %s", column, req.Sort.Direction)
	if column != "id" {
		order += ", id ASC"
	}

	products := []*domain.Product{}
	err := r.db.SelectContext(ctx, &products,
		`SELECT `+productColumns+` FROM products ORDER BY `+order+` LIMIT $1 OFFSET $2`,
		req.Size, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	return domain.NewPage(products, req, total), nil
}

func (r *postgresProductRepository) Delete(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, p.ID)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", p.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product %d: %w", p.ID, err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}
