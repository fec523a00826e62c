package schema

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(route *gin.Engine, handler Handler) {
	routes := route.Group("/schema")
	{
		routes.GET("", handler.Get)
	}
}
