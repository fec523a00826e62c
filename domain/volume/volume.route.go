package volume

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(route *gin.Engine, handler Handler) {
	routes := route.Group("/volumes")
	{
		routes.GET("", handler.Get)
		routes.POST("", handler.Create)
		routes.POST("/:id/attach", handler.Attach)
		routes.POST("/:id/detach", handler.Detach)
	}
}
