package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productsvc/internal/models"
	"productsvc/internal/repositories"
)

func ptr[T any](v T) *T { return &v }

// runProductRepositoryContract exercises behaviour every driver must share.
func runProductRepositoryContract(t *testing.T, newRepo func(t *testing.T) repositories.ProductRepository) {
	ctx := context.Background()

	t.Run("CreateThenGet", func(t *testing.T) {
		repo := newRepo(t)
		product := &models.Product{Name: "Widget", Price: 9.99, Description: "small", InStock: true}

		require.NoError(t, repo.Create(ctx, product))
		assert.Len(t, product.ID, 24)
		assert.False(t, product.CreatedAt.IsZero())

		fetched, err := repo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, fetched.ID)
		assert.Equal(t, "Widget", fetched.Name)
		assert.Equal(t, 9.99, fetched.Price)
		assert.Equal(t, "small", fetched.Description)
		assert.True(t, fetched.InStock)
		assert.WithinDuration(t, product.CreatedAt, fetched.CreatedAt, 0)
	})

	t.Run("GetAllNewestFirst", func(t *testing.T) {
		repo := newRepo(t)
		var ids []string
		for _, name := range []string{"first", "second", "third"} {
			p := &models.Product{Name: name, Price: 1}
			require.NoError(t, repo.Create(ctx, p))
			ids = append(ids, p.ID)
		}

		products, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{products[0].ID, products[1].ID, products[2].ID})
	})

	t.Run("GetAllEmpty", func(t *testing.T) {
		repo := newRepo(t)
		products, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("UpdateReplacesNamedFields", func(t *testing.T) {
		repo := newRepo(t)
		product := &models.Product{Name: "Widget", Price: 9.99, Description: "keep me", InStock: true}
		require.NoError(t, repo.Create(ctx, product))

		updated, err := repo.Update(ctx, product.ID, models.ProductChanges{
			Name:    "Widget Pro",
			Price:   12.5,
			InStock: ptr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, product.ID, updated.ID)
		assert.Equal(t, "Widget Pro", updated.Name)
		assert.Equal(t, 12.5, updated.Price)
		assert.Equal(t, "keep me", updated.Description)
		assert.False(t, updated.InStock)

		fetched, err := repo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.False(t, fetched.InStock)
		assert.Equal(t, "Widget Pro", fetched.Name)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Update(ctx, models.NewID(), models.ProductChanges{Name: "ghost", Price: 1})
		assert.ErrorIs(t, err, models.ErrNotFound)

		products, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("DeleteTwice", func(t *testing.T) {
		repo := newRepo(t)
		product := &models.Product{Name: "Widget", Price: 1}
		require.NoError(t, repo.Create(ctx, product))

		require.NoError(t, repo.Delete(ctx, product.ID))
		assert.ErrorIs(t, repo.Delete(ctx, product.ID), models.ErrNotFound)

		_, err := repo.GetByID(ctx, product.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("InvalidID", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, models.ErrInvalidID)

		_, err = repo.Update(ctx, "not-an-id", models.ProductChanges{Name: "x", Price: 1})
		assert.ErrorIs(t, err, models.ErrInvalidID)

		assert.ErrorIs(t, repo.Delete(ctx, "not-an-id"), models.ErrInvalidID)
	})

	t.Run("CreateDeleteCount", func(t *testing.T) {
		repo := newRepo(t)
		var ids []string
		for i := 0; i < 5; i++ {
			p := &models.Product{Name: "item", Price: float64(i)}
			require.NoError(t, repo.Create(ctx, p))
			ids = append(ids, p.ID)
		}
		require.NoError(t, repo.Delete(ctx, ids[1]))
		require.NoError(t, repo.Delete(ctx, ids[3]))

		products, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})
}
