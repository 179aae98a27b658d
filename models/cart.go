package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a user's cart. The (user_id, product_id) pair is
// unique; repeated adds merge into the same row.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"userId"`
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CartProduct is the product shape joined onto cart items.
type CartProduct struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Price       float64            `json:"price"`
	Stock       int                `json:"stock"`
	Category    CategoryRef        `json:"category"`
}

type CartItemDetail struct {
	CartItem
	Product CartProduct `json:"product"`
}

// CartSummary aggregates a user's cart: totalItems sums quantities, subtotal
// sums price*quantity rounded to 2 decimals, itemCount counts distinct lines.
type CartSummary struct {
	TotalItems int     `json:"totalItems"`
	Subtotal   float64 `json:"subtotal"`
	ItemCount  int     `json:"itemCount"`
}

type Cart struct {
	Items   []CartItemDetail `json:"items"`
	Summary CartSummary      `json:"summary"`
}

type AddToCartRequest struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1,max=100"`
}

type RemoveFromCartRequest struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
}
