package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dapurku/internal/auth"
	"dapurku/internal/ingredient"
	"dapurku/internal/middleware"
	"dapurku/internal/recipe"
)

func SetupRouter(
	authHandler *auth.Handler,
	ingredientHandler *ingredient.Handler,
	recipeHandler *recipe.Handler,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	api := r.Group("/")
	api.Use(middleware.AuthRequired())
	{
		api.GET("/profile", authHandler.Profile)
		api.PUT("/profile", authHandler.UpdateProfile)

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("", ingredientHandler.List)
			ingredients.POST("", ingredientHandler.Create)
			ingredients.PUT("/:id", ingredientHandler.Update)
			ingredients.DELETE("/:id", ingredientHandler.Delete)
			ingredients.POST("/batch-delete", ingredientHandler.BatchDelete)
			ingredients.DELETE("", ingredientHandler.Clear)
			ingredients.POST("/import", ingredientHandler.Import)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("", recipeHandler.List)
			recipes.GET("/:id", recipeHandler.Get)
			recipes.POST("", recipeHandler.Create)
			recipes.PUT("/:id", recipeHandler.Update)
			recipes.DELETE("/:id", recipeHandler.Delete)
			recipes.GET("/:id/pricing", recipeHandler.Pricing)
			recipes.PUT("/:id/price", recipeHandler.SetPrice)
			recipes.POST("/:id/images", recipeHandler.UploadImage)
			recipes.POST("/build-line", recipeHandler.BuildLine)
			recipes.POST("/import", recipeHandler.Import)
		}

		draft := api.Group("/draft")
		{
			draft.GET("", recipeHandler.GetDraft)
			draft.PUT("", recipeHandler.PutDraft)
			draft.DELETE("", recipeHandler.DeleteDraft)
		}
	}

	return r
}
