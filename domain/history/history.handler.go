package history

import (
	"github.com/gin-gonic/gin"

	"verdaBackend/utils"
)

type (
	Handler interface {
		Get(ctx *gin.Context)
		GetByUuid(ctx *gin.Context)
	}

	historyHandler struct {
		historyService Service
	}
)

func CreateHandler(historyService Service) Handler {
	return &historyHandler{
		historyService: historyService,
	}
}

// @Summary	Returns the deployment records of the current run
// @Produce	json
// @Tags		history
// @Param		limit	query		int	false	"Maximum number of records to return"
// @Param		offset	query		int	false	"Number of records to skip"
// @Success	200		{object}	utils.OkResponse[[]history.DeploymentRecordOut]
// @Failure	500		{object}	utils.ErrorResponse
// @Router		/deployments [get]
func (h *historyHandler) Get(ctx *gin.Context) {
	filter := RecordFilter{}
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	records, err := h.historyService.Get(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(records))
}

// @Summary	Returns a single deployment record
// @Produce	json
// @Tags		history
// @Param		id	path		string	true	"The deployment's ID"
// @Success	200	{object}	utils.OkResponse[history.DeploymentRecordOut]
// @Failure	404	{object}	utils.ErrorResponse	"The deployment was not found"
// @Router		/deployments/{id} [get]
func (h *historyHandler) GetByUuid(ctx *gin.Context) {
	record, err := h.historyService.GetByUuid(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(record))
}
