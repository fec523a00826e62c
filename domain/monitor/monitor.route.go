package monitor

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(route *gin.Engine, handler Handler) {
	routes := route.Group("/monitors")
	{
		routes.GET("", handler.Get)
		routes.POST("", handler.Create)
		routes.DELETE("/:id", handler.Delete)
	}
}
