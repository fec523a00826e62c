package catalog

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(route *gin.Engine, handler Handler) {
	route.GET("/ssh-keys", handler.SshKeys)
	route.GET("/images", handler.Images)
	route.GET("/gpu-options", handler.GpuOptions)
	route.GET("/availability", handler.Availability)
}
