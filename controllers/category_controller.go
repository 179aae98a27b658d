package controllers

import (
	"context"
	"net/http"

	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"github.com/gin-gonic/gin"
)

// CategoryServiceAPI defines the interface for category operations.
type CategoryServiceAPI interface {
	List(ctx context.Context) ([]models.CategoryWithCount, error)
	Create(ctx context.Context, req models.CreateCategoryRequest) (*models.CategoryWithCount, error)
}

type CategoryController struct {
	service   CategoryServiceAPI
	validator *RequestValidator
}

func NewCategoryController(service CategoryServiceAPI) *CategoryController {
	return &CategoryController{
		service:   service,
		validator: NewRequestValidator(),
	}
}

// GetCategories lists all categories with product counts.
func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	categories, err := ctrl.service.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, categories)
}

// CreateCategory creates a new category.
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	category, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, category)
}
