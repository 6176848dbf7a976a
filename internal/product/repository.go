package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Product, error)
	Count(ctx context.Context, opts ListOptions) (int64, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error

	// AdjustStock applies a stock delta guarded by an optimistic version
	// token; a stale version returns ErrVersionConflict.
	AdjustStock(ctx context.Context, id string, delta, expectedVersion int) error

	// ReserveStock is the conditional decrement used by checkout. The
	// predicate makes concurrent reservations of the last unit mutually
	// exclusive; stock can never go negative.
	ReserveStock(ctx context.Context, id string, qty int) error

	// ReleaseStock returns a previously reserved quantity, compensating
	// a failed checkout.
	ReleaseStock(ctx context.Context, id string, qty int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, description, price, compare_price, category, brand, sku,
	stock_quantity, images, keywords, is_featured, is_active, version, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	var comparePrice sql.NullString
	var brand sql.NullString
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &comparePrice, &p.Category, &brand,
		&p.SKU, &p.StockQuantity, pq.Array(&p.Images), pq.Array(&p.Keywords),
		&p.IsFeatured, &p.IsActive, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if comparePrice.Valid {
		cp, err := decimal.NewFromString(comparePrice.String)
		if err != nil {
			return nil, fmt.Errorf("invalid compare_price for product %s: %w", p.ID, err)
		}
		p.ComparePrice = &cp
	}
	if brand.Valid {
		p.Brand = &brand.String
	}
	return &p, nil
}

func buildFilter(opts ListOptions, args *[]any) string {
	var conds []string

	add := func(cond string, value any) {
		*args = append(*args, value)
		conds = append(conds, fmt.Sprintf(cond, len(*args)))
	}

	if opts.OnlyActive {
		conds = append(conds, "is_active = TRUE")
	}
	if opts.Category != nil {
		add("category = $%d", *opts.Category)
	}
	if opts.Brand != nil {
		add("brand = $%d", *opts.Brand)
	}
	if opts.Featured != nil {
		add("is_featured = $%d", *opts.Featured)
	}
	if opts.Search != nil {
		add("$%d = ANY(keywords)", strings.ToLower(*opts.Search))
	}
	if opts.MinPrice != nil {
		add("price >= $%d", opts.MinPrice.String())
	}
	if opts.MaxPrice != nil {
		add("price <= $%d", opts.MaxPrice.String())
	}

	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

var sortColumns = map[string]string{
	"price":     "price",
	"name":      "name",
	"createdAt": "created_at",
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]Product, error) {
	var args []any
	query := "SELECT " + productColumns + " FROM products" + buildFilter(opts, &args)

	sortCol, ok := sortColumns[opts.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		order = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortCol, order)

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *repository) Count(ctx context.Context, opts ListOptions) (int64, error) {
	var args []any
	query := "SELECT COUNT(*) FROM products" + buildFilter(opts, &args)

	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Version = 1

	var comparePrice any
	if p.ComparePrice != nil {
		comparePrice = p.ComparePrice.String()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, description, price, compare_price, category, brand, sku,
			stock_quantity, images, keywords, is_featured, is_active, version,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		p.ID, p.Name, p.Description, p.Price.String(), comparePrice, p.Category, p.Brand,
		p.SKU, p.StockQuantity, pq.Array(p.Images), pq.Array(p.Keywords),
		p.IsFeatured, p.IsActive, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	p.UpdatedAt = time.Now().UTC()

	var comparePrice any
	if p.ComparePrice != nil {
		comparePrice = p.ComparePrice.String()
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET
			name = $2, description = $3, price = $4, compare_price = $5,
			category = $6, brand = $7, sku = $8, images = $9, keywords = $10,
			is_featured = $11, is_active = $12, updated_at = $13
		WHERE id = $1
	`,
		p.ID, p.Name, p.Description, p.Price.String(), comparePrice,
		p.Category, p.Brand, p.SKU, pq.Array(p.Images), pq.Array(p.Keywords),
		p.IsFeatured, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res, ErrProductNotFound)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrProductNotFound)
}

func (r *repository) AdjustStock(ctx context.Context, id string, delta, expectedVersion int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND version = $3 AND stock_quantity + $2 >= 0
	`, id, delta, expectedVersion)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish a missing product from a stale version / underflow.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrProductNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *repository) ReserveStock(ctx context.Context, id string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE AND stock_quantity >= $2
	`, id, qty)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var available int
		err := r.db.QueryRowContext(ctx,
			"SELECT stock_quantity FROM products WHERE id = $1 AND is_active = TRUE", id,
		).Scan(&available)
		if err == sql.ErrNoRows {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		return &InsufficientStockError{ProductID: id, Requested: qty, Available: available}
	}
	return nil
}

func (r *repository) ReleaseStock(ctx context.Context, id string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1
	`, id, qty)
	if err != nil {
		return err
	}
	return requireRow(res, ErrProductNotFound)
}

func requireRow(res sql.Result, missing error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return missing
	}
	return nil
}
