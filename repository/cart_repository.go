package repository

import (
	"context"
	"time"

	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{
		collection: db.Collection("cart_items"),
	}
}

func (r *MongoCartRepository) FindByKey(ctx context.Context, userID string, productID primitive.ObjectID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "product_id": productID}).Decode(&item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MongoCartRepository) ListByUser(ctx context.Context, userID string) ([]*models.CartItem, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoCartRepository) Insert(ctx context.Context, item *models.CartItem) error {
	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid
	}
	return nil
}

// IncrementQuantity is the single atomic storage operation behind add-to-cart
// merging. The filter admits the row only while quantity+qty stays within
// stock, so two concurrent adds can never jointly exceed it; the server
// evaluates filter and $inc as one operation.
func (r *MongoCartRepository) IncrementQuantity(ctx context.Context, userID string, productID primitive.ObjectID, qty, stock int) (*models.CartItem, error) {
	filter := bson.M{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   bson.M{"$lte": stock - qty},
	}
	update := bson.M{
		"$inc": bson.M{"quantity": qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.CartItem
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MongoCartRepository) DeleteByKey(ctx context.Context, userID string, productID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "product_id": productID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *MongoCartRepository) DeleteByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"product_id": productID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
