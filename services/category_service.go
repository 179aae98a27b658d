package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ambujpandey123/Ecommerce-Backend/apperrors"
	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"github.com/ambujpandey123/Ecommerce-Backend/repository"
	"go.uber.org/zap"
)

type CategoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	logger     *zap.Logger
}

func NewCategoryService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		logger:     logger,
	}
}

// List returns all categories name-ascending, each with the number of
// products referencing it.
func (s *CategoryService) List(ctx context.Context) ([]models.CategoryWithCount, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to fetch categories: %w", err))
	}
	counts, err := s.products.CountByCategory(ctx)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to count products: %w", err))
	}

	result := make([]models.CategoryWithCount, 0, len(categories))
	for _, c := range categories {
		result = append(result, models.CategoryWithCount{
			Category:     *c,
			ProductCount: counts[c.ID],
		})
	}
	return result, nil
}

// Create inserts a category. Names are not required to be unique.
func (s *CategoryService) Create(ctx context.Context, req models.CreateCategoryRequest) (*models.CategoryWithCount, error) {
	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.categories.Insert(ctx, category); err != nil {
		return nil, apperrors.FromMongo(err, "Category not found")
	}

	s.logger.Info("Category created",
		zap.String("category_id", category.ID.Hex()),
		zap.String("name", category.Name),
	)
	return &models.CategoryWithCount{Category: *category, ProductCount: 0}, nil
}
