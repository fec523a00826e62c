package catalog

import (
	"github.com/gin-gonic/gin"

	"verdaBackend/utils"
)

type (
	Handler interface {
		SshKeys(ctx *gin.Context)
		Images(ctx *gin.Context)
		GpuOptions(ctx *gin.Context)
		Availability(ctx *gin.Context)
	}

	catalogHandler struct {
		catalogService Service
	}
)

func CreateHandler(catalogService Service) Handler {
	return &catalogHandler{
		catalogService: catalogService,
	}
}

// @Summary	Returns all SSH keys of the account
// @Produce	json
// @Tags		catalog
// @Success	200	{object}	utils.OkResponse[[]catalog.SshKeyOut]
// @Router		/ssh-keys [get]
func (h *catalogHandler) SshKeys(ctx *gin.Context) {
	sshKeys, err := h.catalogService.SshKeys(ctx.Request.Context())
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(sshKeys))
}

// @Summary	Returns the available OS images
// @Produce	json
// @Tags		catalog
// @Param		filter	query		string	false	"Only return images whose name contains this string"
// @Success	200		{object}	utils.OkResponse[[]catalog.ImageOut]
// @Router		/images [get]
func (h *catalogHandler) Images(ctx *gin.Context) {
	images, err := h.catalogService.Images(ctx.Request.Context(), ctx.Query("filter"))
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(images))
}

// @Summary	Probes current spot capacity for a GPU configuration
// @Produce	json
// @Tags		catalog
// @Param		gpuType		query		string	false	"GPU type to probe (defaults from config)"
// @Param		gpuCount	query		int		false	"Number of GPUs (defaults from config)"
// @Param		location	query		string	false	"Only probe this location"
// @Success	200			{object}	utils.OkResponse[catalog.AvailabilityOut]
// @Failure	422			{object}	utils.ErrorResponse	"The GPU configuration is not deployable"
// @Failure	502			{object}	utils.ErrorResponse	"Every availability probe failed"
// @Router		/availability [get]
func (h *catalogHandler) Availability(ctx *gin.Context) {
	req := AvailabilityIn{}
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	availability, err := h.catalogService.Availability(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(availability))
}

// @Summary	Returns the deployable GPU configurations
// @Produce	json
// @Tags		catalog
// @Success	200	{object}	utils.OkResponse[[]catalog.GpuOptionOut]
// @Router		/gpu-options [get]
func (h *catalogHandler) GpuOptions(ctx *gin.Context) {
	ctx.JSON(utils.CreateOkResponse(h.catalogService.GpuOptions()))
}
