package script

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(route *gin.Engine, handler Handler) {
	routes := route.Group("/scripts")
	{
		routes.GET("", handler.Get)
		routes.POST("", handler.Create)
		routes.PUT("/default", handler.SetDefault)
		routes.GET("/:id", handler.GetByUuid)
		routes.GET("/for-instance/:id", handler.GetForInstance)
	}
}
