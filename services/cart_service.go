package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ambujpandey123/Ecommerce-Backend/apperrors"
	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"github.com/ambujpandey123/Ecommerce-Backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxAddRetries bounds the insert/increment race loop in AddToCart. Each
// retry only happens when another request created or removed the same row
// between our two storage calls.
const maxAddRetries = 3

const DefaultCartQuantity = 1

// CartService is the only component that creates or mutates cart items; it
// owns the quantity-vs-stock invariant.
type CartService struct {
	cart       repository.CartRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func NewCartService(
	cart repository.CartRepository,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		cart:       cart,
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// AddToCart merges quantity into the user's cart line for the product,
// creating the line on first add. The merge is a single conditional storage
// update, so concurrent adds for the same (user, product) key cannot push
// the quantity past the product's stock.
func (s *CartService) AddToCart(ctx context.Context, userID string, productID primitive.ObjectID, quantity int) (*models.CartItemDetail, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperrors.FromMongo(err, "Product not found")
	}

	for attempt := 0; attempt < maxAddRetries; attempt++ {
		item, err := s.cart.IncrementQuantity(ctx, userID, productID, quantity, product.Stock)
		if err == nil {
			s.logger.Info("Cart item quantity updated",
				zap.String("user_id", userID),
				zap.String("product_id", productID.Hex()),
				zap.Int("quantity", item.Quantity),
			)
			return s.joinProduct(ctx, item, product)
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewInternal(fmt.Errorf("failed to update cart item: %w", err))
		}

		// No row matched: either the line does not exist yet, or the
		// increment would exceed stock.
		existing, err := s.cart.FindByKey(ctx, userID, productID)
		if err == nil {
			available := product.Stock - existing.Quantity
			if available >= quantity {
				// The line shrank since the failed increment; try again.
				continue
			}
			return nil, apperrors.NewInsufficientStock(available,
				"Cannot add %d more items. Only %d more available", quantity, available)
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewInternal(fmt.Errorf("failed to read cart item: %w", err))
		}

		if product.Stock < quantity {
			return nil, apperrors.NewInsufficientStock(product.Stock,
				"Only %d items available in stock", product.Stock)
		}

		now := time.Now().UTC()
		item = &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = s.cart.Insert(ctx, item)
		if err == nil {
			s.logger.Info("Cart item created",
				zap.String("user_id", userID),
				zap.String("product_id", productID.Hex()),
				zap.Int("quantity", quantity),
			)
			return s.joinProduct(ctx, item, product)
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.NewInternal(fmt.Errorf("failed to create cart item: %w", err))
		}
		// Another request created the line first; merge into it instead.
	}

	return nil, apperrors.NewInternal(errors.New("cart update did not settle after concurrent modifications"))
}

// GetCart returns the user's cart lines newest first, each joined with
// product and category detail, plus the aggregate summary.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	items, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to fetch cart: %w", err))
	}

	productIDs := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to fetch cart products: %w", err))
	}
	productByID := make(map[primitive.ObjectID]*models.Product, len(products))
	categoryIDs := make([]primitive.ObjectID, 0, len(products))
	seen := make(map[primitive.ObjectID]bool)
	for _, p := range products {
		productByID[p.ID] = p
		if !seen[p.CategoryID] {
			categoryIDs = append(categoryIDs, p.CategoryID)
			seen[p.CategoryID] = true
		}
	}
	categories, err := s.categories.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to fetch cart categories: %w", err))
	}
	categoryByID := make(map[primitive.ObjectID]*models.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	cart := &models.Cart{Items: make([]models.CartItemDetail, 0, len(items))}
	for _, item := range items {
		product, ok := productByID[item.ProductID]
		if !ok {
			// Cascade delete removes lines with their product; a miss here
			// means the product vanished mid-request.
			continue
		}
		ref := models.CategoryRef{ID: product.CategoryID}
		if c, ok := categoryByID[product.CategoryID]; ok {
			ref.Name = c.Name
		}
		cart.Items = append(cart.Items, models.CartItemDetail{
			CartItem: *item,
			Product: models.CartProduct{
				ID:          product.ID,
				Title:       product.Title,
				Description: product.Description,
				Price:       product.Price,
				Stock:       product.Stock,
				Category:    ref,
			},
		})
		cart.Summary.TotalItems += item.Quantity
		cart.Summary.Subtotal += product.Price * float64(item.Quantity)
	}
	cart.Summary.ItemCount = len(cart.Items)
	cart.Summary.Subtotal = math.Round(cart.Summary.Subtotal*100) / 100

	return cart, nil
}

// RemoveFromCart deletes the user's cart line for the product.
func (s *CartService) RemoveFromCart(ctx context.Context, userID string, productID primitive.ObjectID) error {
	deleted, err := s.cart.DeleteByKey(ctx, userID, productID)
	if err != nil {
		return apperrors.NewInternal(fmt.Errorf("failed to remove cart item: %w", err))
	}
	if deleted == 0 {
		return apperrors.NewNotFound("Item not found in cart")
	}

	s.logger.Info("Cart item removed",
		zap.String("user_id", userID),
		zap.String("product_id", productID.Hex()),
	)
	return nil
}

func (s *CartService) joinProduct(ctx context.Context, item *models.CartItem, product *models.Product) (*models.CartItemDetail, error) {
	ref := models.CategoryRef{ID: product.CategoryID}
	category, err := s.categories.FindByID(ctx, product.CategoryID)
	if err == nil {
		ref.Name = category.Name
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to fetch category: %w", err))
	}

	return &models.CartItemDetail{
		CartItem: *item,
		Product: models.CartProduct{
			ID:       product.ID,
			Title:    product.Title,
			Price:    product.Price,
			Stock:    product.Stock,
			Category: ref,
		},
	}, nil
}
