package settings

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(route *gin.Engine, handler Handler) {
	routes := route.Group("/config")
	{
		routes.GET("", handler.Get)
		routes.PATCH("", handler.Update)
	}
}
