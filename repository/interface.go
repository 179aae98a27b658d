package repository

import (
	"context"

	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductRepository abstracts durable product storage.
type ProductRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error)
	Find(ctx context.Context, filter bson.M, skip, limit int64) ([]*models.Product, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Insert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	CountByCategory(ctx context.Context) (map[primitive.ObjectID]int64, error)
}

// CategoryRepository abstracts durable category storage.
type CategoryRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Category, error)
	FindAll(ctx context.Context) ([]*models.Category, error)
	Insert(ctx context.Context, category *models.Category) error
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// CartRepository abstracts durable cart-item storage keyed by
// (user_id, product_id).
type CartRepository interface {
	FindByKey(ctx context.Context, userID string, productID primitive.ObjectID) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]*models.CartItem, error)
	Insert(ctx context.Context, item *models.CartItem) error
	// IncrementQuantity atomically bumps the row's quantity by qty, but only
	// while the resulting quantity stays within stock. It returns the updated
	// row, or mongo.ErrNoDocuments when no row matched (absent key, or the
	// increment would exceed stock).
	IncrementQuantity(ctx context.Context, userID string, productID primitive.ObjectID, qty, stock int) (*models.CartItem, error)
	DeleteByKey(ctx context.Context, userID string, productID primitive.ObjectID) (int64, error)
	DeleteByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error)
}
