package schema

import (
	"github.com/gin-gonic/gin"

	"verdaBackend/utils"
)

type (
	Handler interface {
		Get(ctx *gin.Context)
	}

	schemaHandler struct {
		schemaService Service
	}
)

func CreateHandler(schemaService Service) Handler {
	return &schemaHandler{
		schemaService: schemaService,
	}
}

// @Summary	Returns the JSON schemas of the tool payloads
// @Produce	json
// @Tags		schema
// @Success	200	{object}	utils.OkResponse[any]	"The schemas indexed by tool name"
// @Router		/schema [get]
func (h *schemaHandler) Get(ctx *gin.Context) {
	ctx.JSON(utils.CreateOkResponse(h.schemaService.Get()))
}
