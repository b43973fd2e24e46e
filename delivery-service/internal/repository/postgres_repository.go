package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"

	"github.com/rakharan/tokopaedi-microservices/delivery-service/internal/domain"
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
		MigrationsTable: "deliveries_schema_migrations",
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

func (r *Repository) CreateDelivery(ctx context.Context, delivery *domain.Delivery) error {
	query := `INSERT INTO deliveries (order_id, address, status, ship_due_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NOW(), NOW())
	          RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		delivery.OrderID,
		delivery.Address,
		delivery.Status,
		delivery.ShipDueAt,
	).Scan(&delivery.ID, &delivery.CreatedAt, &delivery.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateDelivery
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

const deliveryColumns = `id, order_id, address, status, COALESCE(tracking_number, ''), ship_due_at, created_at, updated_at`

func scanDelivery(row interface{ Scan(...any) error }) (*domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(
		&d.ID,
		&d.OrderID,
		&d.Address,
		&d.Status,
		&d.TrackingNumber,
		&d.ShipDueAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) GetDeliveryByOrderID(ctx context.Context, orderID int64) (*domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE order_id = $1`

	d, err := scanDelivery(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeliveryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query delivery by order id: %w", err)
	}
	return d, nil
}

func (r *Repository) ListDeliveries(ctx context.Context) ([]*domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries ORDER BY created_at DESC`
	return r.queryDeliveries(ctx, query)
}

func (r *Repository) ListDueDeliveries(ctx context.Context, now time.Time) ([]*domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries
	          WHERE status = $1 AND ship_due_at <= $2 ORDER BY ship_due_at`
	return r.queryDeliveries(ctx, query, domain.DeliveryStatusPending, now)
}

func (r *Repository) queryDeliveries(ctx context.Context, query string, args ...any) ([]*domain.Delivery, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*domain.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery row: %w", err)
		}
		deliveries = append(deliveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return deliveries, nil
}

func (r *Repository) MarkShipped(ctx context.Context, id int64, trackingNumber string) (bool, error) {
	query := `UPDATE deliveries SET status = $1, tracking_number = $2, updated_at = NOW()
	          WHERE id = $3 AND status = $4`

	res, err := r.db.ExecContext(ctx, query,
		domain.DeliveryStatusShipped,
		trackingNumber,
		id,
		domain.DeliveryStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("mark delivery shipped: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark delivery shipped rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
