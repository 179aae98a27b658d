package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ambujpandey123/Ecommerce-Backend/apperrors"
	"github.com/ambujpandey123/Ecommerce-Backend/database"
	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"github.com/ambujpandey123/Ecommerce-Backend/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListProductsParams carries the already-validated listing parameters.
// Zero Page/Limit mean "use the documented defaults".
type ListProductsParams struct {
	Search     string
	CategoryID *primitive.ObjectID
	Page       int
	Limit      int
}

// ProductList is one page of the catalog plus its pagination envelope.
type ProductList struct {
	Products   []models.ProductWithCategory `json:"products"`
	Pagination models.Pagination            `json:"pagination"`
}

// CatalogService owns product reads and writes, including the cascading
// delete that keeps cart_items free of dangling product references.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cart       repository.CartRepository
	tx         database.TxRunner
	logger     *zap.Logger
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	cart repository.CartRepository,
	tx database.TxRunner,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		cart:       cart,
		tx:         tx,
		logger:     logger,
	}
}

// buildProductFilter translates search/category parameters into the bson
// predicate shared by Count and Find, so both reflect the same snapshot of
// the filter.
func buildProductFilter(search string, categoryID *primitive.ObjectID) bson.M {
	filter := bson.M{}
	if search != "" {
		filter["title"] = bson.M{"$regex": primitive.Regex{Pattern: regexEscape(search), Options: "i"}}
	}
	if categoryID != nil {
		filter["category_id"] = *categoryID
	}
	return filter
}

// regexEscape quotes regex metacharacters so search behaves as a plain
// case-insensitive substring match.
func regexEscape(s string) string {
	const special = `\.+*?()|[]{}^$`
	out := make([]rune, 0, len(s))
	for _, r := range s {
		for _, sp := range special {
			if r == sp {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, r)
	}
	return string(out)
}

// newPagination computes the pagination envelope: totalPages=ceil(total/limit),
// hasNext/hasPrev consistent with currentPage.
func newPagination(page, limit int, total int64) models.Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return models.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

func (s *CatalogService) List(ctx context.Context, params ListProductsParams) (*ProductList, error) {
	page := params.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := params.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	skip := int64(page-1) * int64(limit)

	filter := buildProductFilter(params.Search, params.CategoryID)

	products, err := s.products.Find(ctx, filter, skip, int64(limit))
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to fetch products: %w", err))
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to count products: %w", err))
	}

	joined, err := s.joinCategories(ctx, products)
	if err != nil {
		return nil, err
	}

	return &ProductList{
		Products:   joined,
		Pagination: newPagination(page, limit, total),
	}, nil
}

// joinCategories attaches the compact category shape to each product with a
// single batched lookup.
func (s *CatalogService) joinCategories(ctx context.Context, products []*models.Product) ([]models.ProductWithCategory, error) {
	ids := make([]primitive.ObjectID, 0, len(products))
	seen := make(map[primitive.ObjectID]bool)
	for _, p := range products {
		if !seen[p.CategoryID] {
			ids = append(ids, p.CategoryID)
			seen[p.CategoryID] = true
		}
	}

	categories, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to fetch categories: %w", err))
	}
	byID := make(map[primitive.ObjectID]*models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	joined := make([]models.ProductWithCategory, 0, len(products))
	for _, p := range products {
		ref := models.CategoryRef{ID: p.CategoryID}
		if c, ok := byID[p.CategoryID]; ok {
			ref.Name = c.Name
		}
		joined = append(joined, models.ProductWithCategory{Product: *p, Category: ref})
	}
	return joined, nil
}

func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*models.ProductWithCategoryDetail, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.FromMongo(err, "Product not found")
	}

	detail := models.CategoryDetail{ID: product.CategoryID}
	category, err := s.categories.FindByID(ctx, product.CategoryID)
	if err == nil {
		detail.Name = category.Name
		detail.Description = category.Description
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to fetch category: %w", err))
	}

	return &models.ProductWithCategoryDetail{Product: *product, Category: detail}, nil
}

func (s *CatalogService) Create(ctx context.Context, req models.CreateProductRequest) (*models.ProductWithCategory, error) {
	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		return nil, apperrors.NewValidation([]apperrors.FieldError{
			{Field: "categoryId", Message: "Invalid ObjectId format"},
		})
	}

	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to check category: %w", err))
	}
	if !exists {
		return nil, apperrors.NewForeignKey("Category does not exist")
	}

	now := time.Now().UTC()
	product := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.products.Insert(ctx, product); err != nil {
		return nil, apperrors.FromMongo(err, "Product not found")
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.Hex()),
		zap.String("title", product.Title),
	)

	joined, err := s.joinCategories(ctx, []*models.Product{product})
	if err != nil {
		return nil, err
	}
	return &joined[0], nil
}

func (s *CatalogService) Update(ctx context.Context, id primitive.ObjectID, req models.UpdateProductRequest) (*models.ProductWithCategory, error) {
	updates := bson.M{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.CategoryID != nil {
		categoryID, err := primitive.ObjectIDFromHex(*req.CategoryID)
		if err != nil {
			return nil, apperrors.NewValidation([]apperrors.FieldError{
				{Field: "categoryId", Message: "Invalid ObjectId format"},
			})
		}
		exists, err := s.categories.Exists(ctx, categoryID)
		if err != nil {
			return nil, apperrors.NewInternal(fmt.Errorf("failed to check category: %w", err))
		}
		if !exists {
			return nil, apperrors.NewForeignKey("Category does not exist")
		}
		updates["category_id"] = categoryID
	}

	// An empty body is a valid no-op update; it refreshes updated_at and
	// returns the current product.
	matched, err := s.products.Update(ctx, id, updates)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to update product: %w", err))
	}
	if matched == 0 {
		return nil, apperrors.NewNotFound("Product not found")
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.FromMongo(err, "Product not found")
	}
	joined, err := s.joinCategories(ctx, []*models.Product{product})
	if err != nil {
		return nil, err
	}
	return &joined[0], nil
}

// Delete removes a product together with every cart item referencing it.
// Children go first, inside one transaction, so a mid-sequence failure can
// never leave a dangling cart reference.
func (s *CatalogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return apperrors.FromMongo(err, "Product not found")
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		removed, err := s.cart.DeleteByProduct(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		if removed > 0 {
			s.logger.Info("Removed cart items for deleted product",
				zap.String("product_id", id.Hex()),
				zap.Int64("cart_items", removed),
			)
		}

		deleted, err := s.products.Delete(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		if deleted == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
	if err != nil {
		return apperrors.FromMongo(err, "Product not found")
	}

	s.logger.Info("Product deleted", zap.String("product_id", id.Hex()))
	return nil
}
