//go:build integration

package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"go-gin-gorm-shop/internal/core/database"
	"go-gin-gorm-shop/internal/domain"
)

func newPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("shop"),
		postgres.WithUsername("shop"),
		postgres.WithPassword("shop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewGorm(database.Opts{Driver: "postgres", DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 5, ConnMaxLifetimeMin: 5, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))
	return db
}

// newMySQL 故意关掉 clientFoundRows，让 UPDATE 无变化时影响行数为 0
func newMySQL(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	container, err := tcmysql.Run(ctx,
		"mysql:8.0",
		tcmysql.WithDatabase("shop"),
		tcmysql.WithUsername("shop"),
		tcmysql.WithPassword("shop"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "parseTime=true", "clientFoundRows=false")
	require.NoError(t, err)

	db, err := database.NewGorm(database.Opts{Driver: "mysql", DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 5, ConnMaxLifetimeMin: 5, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestGormRepos_Postgres(t *testing.T) {
	exerciseRepos(t, newPostgres(t))
}

func TestGormRepos_MySQL(t *testing.T) {
	exerciseRepos(t, newMySQL(t))
}

func exerciseRepos(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	users, cats, prods := NewUserRepo(db), NewCategoryRepo(db), NewProductRepo(db)

	u := &domain.User{Username: "a", Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.ErrorIs(t, users.Create(ctx, &domain.User{Username: "b", Email: "a@x.com", PasswordHash: "h"}), domain.ErrDuplicate)
	_, err := users.FindByEmail(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c := &domain.Category{Name: "Shoes", Description: "feet"}
	require.NoError(t, cats.Create(ctx, c))
	// 值不变的更新不是 not found
	require.NoError(t, cats.Update(ctx, c))
	assert.ErrorIs(t, cats.Update(ctx, &domain.Category{ID: "00000000-0000-0000-0000-000000000001", Name: "x"}), domain.ErrNotFound)

	err = prods.Create(ctx, &domain.Product{Name: "orphan", Price: 1, CategoryID: "00000000-0000-0000-0000-000000000000"})
	assert.ErrorIs(t, err, domain.ErrMissingReference)

	p := &domain.Product{Name: "runner", Price: 9.5, Stock: 3, CategoryID: c.ID}
	require.NoError(t, prods.Create(ctx, p))
	assert.ErrorIs(t, prods.Create(ctx, &domain.Product{Name: "runner", Price: 1, CategoryID: c.ID}), domain.ErrDuplicate)

	got, err := prods.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Shoes", got.Category.Name)

	p.Stock = 0
	require.NoError(t, prods.Update(ctx, p))
	require.NoError(t, prods.Update(ctx, p))
	got, err = prods.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	assert.ErrorIs(t, cats.Delete(ctx, c.ID), domain.ErrStillReferenced)

	deleted, err := prods.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)
	assert.Equal(t, "runner", deleted.Name)
	assert.Equal(t, 9.5, deleted.Price)
	assert.Equal(t, 0, deleted.Stock)
	assert.Equal(t, c.ID, deleted.CategoryID)
	_, err = prods.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, cats.Delete(ctx, c.ID))
	assert.ErrorIs(t, cats.Update(ctx, c), domain.ErrNotFound)
}
