package instance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(route *gin.Engine, handler Handler) {
	instanceRoutes := route.Group("/instances")
	{
		instanceRoutes.GET("", handler.Get)
		instanceRoutes.POST("", handler.Deploy)
		instanceRoutes.GET("/:id", handler.GetByUuid)
		instanceRoutes.POST("/:id/wait", handler.Wait)
		instanceRoutes.DELETE("/:id", handler.Delete)
		instanceRoutes.POST("/:id/shutdown", handler.Shutdown)
		instanceRoutes.POST("/:id/start", handler.Start)
	}

	deploymentRoutes := route.Group("/deployments")
	{
		deploymentRoutes.GET("/active", handler.Active)
		deploymentRoutes.POST("/:id/cancel", handler.Cancel)
	}
}
