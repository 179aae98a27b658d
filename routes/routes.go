package routes

import (
	"github.com/ambujpandey123/Ecommerce-Backend/controllers"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all API endpoints onto the engine.
func RegisterRoutes(
	r *gin.Engine,
	products *controllers.ProductController,
	categories *controllers.CategoryController,
	cart *controllers.CartController,
) {
	r.NoRoute(controllers.NotFoundRoute)

	api := r.Group("/api")

	productRoutes := api.Group("/products")
	{
		productRoutes.GET("", products.GetProducts)
		productRoutes.GET("/:id", products.GetProductByID)
		productRoutes.POST("", products.CreateProduct)
		productRoutes.PUT("/:id", products.UpdateProduct)
		productRoutes.DELETE("/:id", products.DeleteProduct)
	}

	categoryRoutes := api.Group("/categories")
	{
		categoryRoutes.GET("", categories.GetCategories)
		categoryRoutes.POST("", categories.CreateCategory)
	}

	cartRoutes := api.Group("/cart")
	{
		cartRoutes.POST("", cart.AddToCart)
		cartRoutes.GET("", cart.GetCart)
		cartRoutes.DELETE("", cart.RemoveFromCart)
	}
}
