package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/rakharan/tokopaedi-microservices/product-service/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "products_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (name, description, price, category, stock, version, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, 1, NOW(), NOW())
	          RETURNING id, version, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Stock,
	).Scan(&product.ID, &product.Version, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, name, description, price, category, stock, version, created_at, updated_at
	          FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Stock,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &p, nil
}

func (r *Repository) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT id, name, description, price, category, stock, version, created_at, updated_at
	          FROM products ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Category,
			&p.Stock,
			&p.Version,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

// UpdateStockVersioned is the conditional write of the reservation protocol.
// Zero affected rows means the version moved between the caller's read and
// this write.
func (r *Repository) UpdateStockVersioned(ctx context.Context, id int64, newStock int32, expectedVersion int64) (bool, error) {
	query := `UPDATE products
	          SET stock = $1, version = version + 1, updated_at = NOW()
	          WHERE id = $2 AND version = $3`

	res, err := r.db.ExecContext(ctx, query, newStock, id, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("conditional stock update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *Repository) IncreaseStock(ctx context.Context, id int64, quantity int32) (*domain.Product, error) {
	query := `UPDATE products
	          SET stock = stock + $1, version = version + 1, updated_at = NOW()
	          WHERE id = $2
	          RETURNING id, name, description, price, category, stock, version, created_at, updated_at`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, quantity, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Stock,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("increase stock: %w", err)
	}
	return &p, nil
}

// RestoreStock is the compensation write for a cancelled order. The claim on
// order_id and every stock increment commit together, so a redelivered or
// half-failed message either re-runs from scratch or is a no-op.
func (r *Repository) RestoreStock(ctx context.Context, orderID int64, items []StockRestoration) ([]*domain.Product, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin restoration: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO stock_restorations (order_id) VALUES ($1) ON CONFLICT (order_id) DO NOTHING`,
		orderID)
	if err != nil {
		return nil, false, fmt.Errorf("claim restoration for order %d: %w", orderID, err)
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}
	if claimed == 0 {
		return nil, false, nil
	}

	query := `UPDATE products
	          SET stock = stock + $1, version = version + 1, updated_at = NOW()
	          WHERE id = $2
	          RETURNING id, name, description, price, category, stock, version, created_at, updated_at`

	var updated []*domain.Product
	for _, item := range items {
		var p domain.Product
		err := tx.QueryRowContext(ctx, query, item.Quantity, item.ProductID).Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Category,
			&p.Stock,
			&p.Version,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("restore stock for product %d: %w", item.ProductID, err)
		}
		updated = append(updated, &p)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit restoration: %w", err)
	}
	return updated, true, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
