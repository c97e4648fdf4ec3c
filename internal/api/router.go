package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes and middleware.
func SetupRouter(handler *Handler, ginMode string) *gin.Engine {
	gin.SetMode(ginMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(RequestIDMiddleware())

	router.GET("/health", handler.Health)

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/checkout/sessions")
		{
			sessions.POST("", handler.OpenSession)
			sessions.GET("/:id", handler.GetSession)
			sessions.POST("/:id/type", handler.SelectType)
			sessions.PATCH("/:id/fields", handler.SetFields)
			sessions.POST("/:id/advance", handler.Advance)
			sessions.POST("/:id/retreat", handler.Retreat)
			sessions.POST("/:id/cart", handler.AddToCart)
			sessions.DELETE("/:id", handler.CloseSession)
		}

		v1.GET("/campaigns", handler.ListCampaigns)
		v1.GET("/categories", handler.ListCategories)

		cart := v1.Group("/cart")
		{
			cart.GET("", handler.GetCart)
		}

		v1.GET("/currency/convert", handler.ConvertCurrency)
	}

	return router
}
