package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/ambujpandey123/Ecommerce-Backend/apperrors"
	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"github.com/ambujpandey123/Ecommerce-Backend/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartServiceAPI defines the interface for cart operations.
type CartServiceAPI interface {
	AddToCart(ctx context.Context, userID string, productID primitive.ObjectID, quantity int) (*models.CartItemDetail, error)
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, userID string, productID primitive.ObjectID) error
}

type CartController struct {
	service   CartServiceAPI
	validator *RequestValidator
}

func NewCartController(service CartServiceAPI) *CartController {
	return &CartController{
		service:   service,
		validator: NewRequestValidator(),
	}
}

// AddToCart adds quantity of a product to the user's cart, merging into the
// existing line when one exists.
func (ctrl *CartController) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	productID, err := ctrl.validator.ParseObjectID("productId", req.ProductID)
	if err != nil {
		RespondError(c, err)
		return
	}

	quantity := services.DefaultCartQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := ctrl.service.AddToCart(c.Request.Context(), req.UserID, productID, quantity)
	if err != nil {
		RespondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, item)
}

// GetCart returns the user's cart items and summary.
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		RespondError(c, apperrors.NewValidation([]apperrors.FieldError{
			{Field: "userId", Message: "User ID is required"},
		}))
		return
	}

	cart, err := ctrl.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, cart)
}

// RemoveFromCart deletes one cart line for the given user and product.
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	var req models.RemoveFromCartRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	productID, err := ctrl.validator.ParseObjectID("productId", req.ProductID)
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := ctrl.service.RemoveFromCart(c.Request.Context(), req.UserID, productID); err != nil {
		RespondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Item removed from cart successfully")
}
