package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"github.com/ambujpandey123/Ecommerce-Backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListCategories_NameOrderWithCounts(t *testing.T) {
	categories := newMemCategoryRepo()
	products := newMemProductRepo()
	svc := services.NewCategoryService(categories, products, zap.NewNop())
	ctx := context.Background()

	var ids []*models.Category
	for _, name := range []string{"Toys", "Audio", "Books"} {
		c := &models.Category{Name: name, CreatedAt: time.Now().UTC()}
		require.NoError(t, categories.Insert(ctx, c))
		ids = append(ids, c)
	}
	// two products in Books, one in Toys, none in Audio
	for _, p := range []*models.Product{
		{Title: "Novel", Price: 10, CategoryID: ids[2].ID},
		{Title: "Atlas", Price: 20, CategoryID: ids[2].ID},
		{Title: "Kite", Price: 5, CategoryID: ids[0].ID},
	} {
		require.NoError(t, products.Insert(ctx, p))
	}

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Audio", got[0].Name)
	assert.Equal(t, int64(0), got[0].ProductCount)
	assert.Equal(t, "Books", got[1].Name)
	assert.Equal(t, int64(2), got[1].ProductCount)
	assert.Equal(t, "Toys", got[2].Name)
	assert.Equal(t, int64(1), got[2].ProductCount)
}

func TestCreateCategory(t *testing.T) {
	categories := newMemCategoryRepo()
	products := newMemProductRepo()
	svc := services.NewCategoryService(categories, products, zap.NewNop())

	got, err := svc.Create(context.Background(), models.CreateCategoryRequest{
		Name:        "Books",
		Description: "Printed matter",
	})
	require.NoError(t, err)
	assert.False(t, got.ID.IsZero())
	assert.Equal(t, "Books", got.Name)
	assert.Equal(t, "Printed matter", got.Description)
	assert.Equal(t, int64(0), got.ProductCount)
}
