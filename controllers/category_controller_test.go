package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ambujpandey123/Ecommerce-Backend/apperrors"
	"github.com/ambujpandey123/Ecommerce-Backend/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCategoryService struct {
	createCalled int
	listFn       func(ctx context.Context) ([]models.CategoryWithCount, error)
	createFn     func(ctx context.Context, req models.CreateCategoryRequest) (*models.CategoryWithCount, error)
}

func (f *fakeCategoryService) List(ctx context.Context) ([]models.CategoryWithCount, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []models.CategoryWithCount{}, nil
}

func (f *fakeCategoryService) Create(ctx context.Context, req models.CreateCategoryRequest) (*models.CategoryWithCount, error) {
	f.createCalled++
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return &models.CategoryWithCount{
		Category: models.Category{ID: primitive.NewObjectID(), Name: req.Name, Description: req.Description},
	}, nil
}

func newCategoryRouter(fake *fakeCategoryService) *gin.Engine {
	controller := NewCategoryController(fake)
	router := gin.New()
	router.GET("/api/categories", controller.GetCategories)
	router.POST("/api/categories", controller.CreateCategory)
	return router
}

func TestGetCategories(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success - 200 OK", func(t *testing.T) {
		fake := &fakeCategoryService{
			listFn: func(ctx context.Context) ([]models.CategoryWithCount, error) {
				return []models.CategoryWithCount{
					{Category: models.Category{ID: primitive.NewObjectID(), Name: "Books"}, ProductCount: 2},
				}, nil
			},
		}
		router := newCategoryRouter(fake)

		req, _ := http.NewRequest(http.MethodGet, "/api/categories", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if !strings.Contains(recorder.Body.String(), `"productCount":2`) {
			t.Fatalf("product count missing from body: %s", recorder.Body.String())
		}
	})

	t.Run("Failure - service error - 500", func(t *testing.T) {
		fake := &fakeCategoryService{
			listFn: func(ctx context.Context) ([]models.CategoryWithCount, error) {
				return nil, apperrors.NewInternal(nil)
			},
		}
		router := newCategoryRouter(fake)

		req, _ := http.NewRequest(http.MethodGet, "/api/categories", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", recorder.Code)
		}
	})
}

func TestCreateCategory(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success - 201 Created", func(t *testing.T) {
		fake := &fakeCategoryService{}
		router := newCategoryRouter(fake)

		payload := `{"name":"Books","description":"Printed matter"}`
		req, _ := http.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if !strings.Contains(recorder.Body.String(), "Books") {
			t.Fatalf("category missing from body: %s", recorder.Body.String())
		}
	})

	t.Run("Failure - missing name - 400", func(t *testing.T) {
		fake := &fakeCategoryService{}
		router := newCategoryRouter(fake)

		req, _ := http.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"description":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
		if fake.createCalled != 0 {
			t.Fatal("service must not be called on invalid input")
		}
	})

	t.Run("Failure - name too long - 400", func(t *testing.T) {
		fake := &fakeCategoryService{}
		router := newCategoryRouter(fake)

		payload := `{"name":"` + strings.Repeat("a", 101) + `"}`
		req, _ := http.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})
}
