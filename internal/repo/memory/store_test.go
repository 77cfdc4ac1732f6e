package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-gorm-shop/internal/domain"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	u := &domain.User{Username: "a", Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.False(t, u.CreatedAt.IsZero())

	err := users.Create(ctx, &domain.User{Username: "b", Email: "A@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, users.Create(ctx, &domain.User{Username: "bob", Email: "bob@x.com"}))
	list, total, err := users.List(ctx, domain.UserFilter{Q: "bob", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Username)

	list, total, err = users.List(ctx, domain.UserFilter{Offset: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Username, "newest first")

	require.NoError(t, users.UpdateRole(ctx, u.ID, domain.RoleAdmin))
	got, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.ErrorIs(t, users.UpdateRole(ctx, "nope", domain.RoleAdmin), domain.ErrNotFound)
}

func TestCatalogConstraints(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	cats, prods := s.Categories(), s.Products()

	c := &domain.Category{Name: "Shoes"}
	require.NoError(t, cats.Create(ctx, c))

	err := prods.Create(ctx, &domain.Product{Name: "orphan", CategoryID: "missing"})
	assert.ErrorIs(t, err, domain.ErrMissingReference)
	all, err := prods.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	p1 := &domain.Product{Name: "runner", Price: 10, Stock: 1, CategoryID: c.ID}
	require.NoError(t, prods.Create(ctx, p1))
	p2 := &domain.Product{Name: "boot", Price: 20, Stock: 2, CategoryID: c.ID}
	require.NoError(t, prods.Create(ctx, p2))

	err = prods.Create(ctx, &domain.Product{Name: "runner", CategoryID: c.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	all, err = prods.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "boot", all[0].Name)
	require.NotNil(t, all[0].Category)
	assert.Equal(t, "Shoes", all[0].Category.Name)

	p2.Name = "runner"
	assert.ErrorIs(t, prods.Update(ctx, p2), domain.ErrDuplicate)
	p2.Name = "boot v2"
	require.NoError(t, prods.Update(ctx, p2))
	assert.ErrorIs(t, prods.Update(ctx, &domain.Product{ID: "nope", CategoryID: c.ID}), domain.ErrNotFound)

	assert.ErrorIs(t, cats.Delete(ctx, c.ID), domain.ErrStillReferenced)

	deleted, err := prods.Delete(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "runner", deleted.Name)
	_, err = prods.Delete(ctx, p1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = prods.Delete(ctx, p2.ID)
	require.NoError(t, err)

	require.NoError(t, cats.Delete(ctx, c.ID))
	assert.ErrorIs(t, cats.Delete(ctx, c.ID), domain.ErrNotFound)
}
