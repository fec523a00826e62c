package monitor

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"verdaBackend/schema"
	"verdaBackend/utils"
)

type (
	Handler interface {
		Get(ctx *gin.Context)
		Create(ctx *gin.Context)
		Delete(ctx *gin.Context)
	}

	monitorHandler struct {
		monitorService Service
		schemaService  schema.Service
	}
)

func CreateHandler(monitorService Service, schemaService schema.Service) Handler {
	return &monitorHandler{
		monitorService: monitorService,
		schemaService:  schemaService,
	}
}

// @Summary	Returns all availability watches
// @Produce	json
// @Tags		monitors
// @Success	200	{object}	utils.OkResponse[[]monitor.WatchOut]
// @Router		/monitors [get]
func (h *monitorHandler) Get(ctx *gin.Context) {
	ctx.JSON(utils.CreateOkResponse(h.monitorService.Get()))
}

// @Summary	Creates a spot-availability watch, optionally with auto-deploy
// @Accept		json
// @Produce	json
// @Tags		monitors
// @Param		request	body		monitor.WatchIn	true	"The watch to create"
// @Success	200		{object}	utils.OkResponse[monitor.WatchOut]
// @Failure	422		{object}	utils.ErrorResponse	"The request payload was invalid"
// @Router		/monitors [post]
func (h *monitorHandler) Create(ctx *gin.Context) {
	payload, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	if len(payload) == 0 {
		payload = []byte("{}")
	}

	if err := h.schemaService.Validate("monitor", payload); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	req := WatchIn{}
	if err := json.Unmarshal(payload, &req); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	watch, err := h.monitorService.Create(req)
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(watch))
}

// @Summary	Deletes an availability watch
// @Produce	json
// @Tags		monitors
// @Param		id	path		string	true	"The watch's ID"
// @Success	200	{object}	utils.OkResponse[string]
// @Failure	404	{object}	utils.ErrorResponse	"The watch was not found"
// @Router		/monitors/{id} [delete]
func (h *monitorHandler) Delete(ctx *gin.Context) {
	if err := h.monitorService.Delete(ctx.Param("id")); err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse("deleted"))
}
