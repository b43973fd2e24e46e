package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rakharan/tokopaedi-microservices/product-service/internal/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "./migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func newTestProduct() *domain.Product {
	return &domain.Product{
		Name:        "Sepatu Lari",
		Description: "Sepatu lari ringan",
		Price:       250.00,
		Category:    2,
		Stock:       10,
	}
}

func TestCreateProduct_Success(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := newTestProduct()

	err := repo.CreateProduct(ctx, product)
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, int64(1), product.Version)

	fetched, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Name, fetched.Name)
	assert.Equal(t, product.Price, fetched.Price)
	assert.Equal(t, product.Stock, fetched.Stock)
	assert.Equal(t, int64(1), fetched.Version)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetProduct(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateStockVersioned_Success(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := newTestProduct()
	require.NoError(t, repo.CreateProduct(ctx, product))

	ok, err := repo.UpdateStockVersioned(ctx, product.ID, 7, product.Version)
	require.NoError(t, err)
	assert.True(t, ok)

	fetched, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(7), fetched.Stock)
	assert.Equal(t, product.Version+1, fetched.Version)
}

func TestUpdateStockVersioned_StaleVersion(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := newTestProduct()
	require.NoError(t, repo.CreateProduct(ctx, product))

	// First writer wins and bumps the version.
	ok, err := repo.UpdateStockVersioned(ctx, product.ID, 7, product.Version)
	require.NoError(t, err)
	require.True(t, ok)

	// Second writer still holds the old version and must lose.
	ok, err = repo.UpdateStockVersioned(ctx, product.ID, 4, product.Version)
	require.NoError(t, err)
	assert.False(t, ok)

	fetched, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(7), fetched.Stock)
}

func TestUpdateStockVersioned_ExactlyOneWinner(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := newTestProduct()
	require.NoError(t, repo.CreateProduct(ctx, product))

	// Both writers read the same version concurrently.
	type result struct {
		ok  bool
		err error
	}
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			ok, err := repo.UpdateStockVersioned(ctx, product.ID, 0, product.Version)
			results <- result{ok, err}
		}()
	}

	winners := 0
	for i := 0; i < 2; i++ {
		res := <-results
		require.NoError(t, res.err)
		if res.ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)

	fetched, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Version+1, fetched.Version)
}

func TestIncreaseStock_Success(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := newTestProduct()
	require.NoError(t, repo.CreateProduct(ctx, product))

	updated, err := repo.IncreaseStock(ctx, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(15), updated.Stock)
	assert.Equal(t, product.Version+1, updated.Version)
}

func TestIncreaseStock_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.IncreaseStock(context.Background(), 99999, 5)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRestoreStock_RestoresEveryItem(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	first := newTestProduct()
	require.NoError(t, repo.CreateProduct(ctx, first))
	second := newTestProduct()
	second.Name = "Tas Ransel"
	require.NoError(t, repo.CreateProduct(ctx, second))

	updated, claimed, err := repo.RestoreStock(ctx, 55, []StockRestoration{
		{ProductID: first.ID, Quantity: 3},
		{ProductID: second.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, claimed)
	require.Len(t, updated, 2)

	fetched, err := repo.GetProduct(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(13), fetched.Stock)
	assert.Equal(t, first.Version+1, fetched.Version)
}

// The same order claimed twice restores exactly once.
func TestRestoreStock_SecondClaimIsANoOp(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := newTestProduct()
	require.NoError(t, repo.CreateProduct(ctx, product))

	items := []StockRestoration{{ProductID: product.ID, Quantity: 3}}

	_, claimed, err := repo.RestoreStock(ctx, 55, items)
	require.NoError(t, err)
	require.True(t, claimed)

	updated, claimed, err := repo.RestoreStock(ctx, 55, items)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Empty(t, updated)

	fetched, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(13), fetched.Stock)
}

func TestRestoreStock_MissingProductSkipped(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := newTestProduct()
	require.NoError(t, repo.CreateProduct(ctx, product))

	updated, claimed, err := repo.RestoreStock(ctx, 56, []StockRestoration{
		{ProductID: 99999, Quantity: 1},
		{ProductID: product.ID, Quantity: 2},
	})
	require.NoError(t, err)
	assert.True(t, claimed)
	require.Len(t, updated, 1)
	assert.Equal(t, product.ID, updated[0].ID)
}

func TestGetAllProducts(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	first := newTestProduct()
	require.NoError(t, repo.CreateProduct(ctx, first))

	second := newTestProduct()
	second.Name = "Tas Ransel"
	require.NoError(t, repo.CreateProduct(ctx, second))

	products, err := repo.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
