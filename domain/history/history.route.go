package history

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(route *gin.Engine, handler Handler) {
	routes := route.Group("/deployments")
	{
		routes.GET("", handler.Get)
		routes.GET("/:id", handler.GetByUuid)
	}
}
