package controllers

import (
	"context"
	"net/http"

	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"github.com/ambujpandey123/Ecommerce-Backend/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogServiceAPI defines the interface for catalog operations.
type CatalogServiceAPI interface {
	List(ctx context.Context, params services.ListProductsParams) (*services.ProductList, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.ProductWithCategoryDetail, error)
	Create(ctx context.Context, req models.CreateProductRequest) (*models.ProductWithCategory, error)
	Update(ctx context.Context, id primitive.ObjectID, req models.UpdateProductRequest) (*models.ProductWithCategory, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductController struct {
	service   CatalogServiceAPI
	cache     *CacheManager
	validator *RequestValidator
}

func NewProductController(service CatalogServiceAPI, cache *CacheManager) *ProductController {
	return &ProductController{
		service:   service,
		cache:     cache,
		validator: NewRequestValidator(),
	}
}

// GetProducts lists products with search, category filter and pagination.
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	params, err := ctrl.validator.ParseListQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	cached, version, ok := ctrl.cache.GetProductList(c.Request.Context(), params)
	if ok {
		respondData(c, http.StatusOK, cached)
		return
	}

	list, err := ctrl.service.List(c.Request.Context(), params)
	if err != nil {
		RespondError(c, err)
		return
	}

	ctrl.cache.SetProductListAsync(version, params, list)
	respondData(c, http.StatusOK, list)
}

// GetProductByID returns a single product with full category detail.
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, err := ctrl.validator.ParseObjectID("id", c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	product, err := ctrl.service.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}

// CreateProduct creates a new product after validating the payload and the
// referenced category.
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	product, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}

	ctrl.cache.Invalidate(c.Request.Context())
	respondData(c, http.StatusCreated, product)
}

// UpdateProduct applies a partial update to a product.
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, err := ctrl.validator.ParseObjectID("id", c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	var req models.UpdateProductRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	product, err := ctrl.service.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}

	ctrl.cache.Invalidate(c.Request.Context())
	respondData(c, http.StatusOK, product)
}

// DeleteProduct removes a product and every cart item referencing it.
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, err := ctrl.validator.ParseObjectID("id", c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}

	ctrl.cache.Invalidate(c.Request.Context())
	respondMessage(c, http.StatusOK, "Product deleted successfully")
}
