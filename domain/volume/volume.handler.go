package volume

import (
	"github.com/gin-gonic/gin"

	"verdaBackend/utils"
)

type (
	Handler interface {
		Get(ctx *gin.Context)
		Create(ctx *gin.Context)
		Attach(ctx *gin.Context)
		Detach(ctx *gin.Context)
	}

	volumeHandler struct {
		volumeService Service
	}
)

func CreateHandler(volumeService Service) Handler {
	return &volumeHandler{
		volumeService: volumeService,
	}
}

// @Summary	Returns all volumes of the account
// @Produce	json
// @Tags		volumes
// @Param		status	query		string	false	"Only return volumes with this status"
// @Success	200		{object}	utils.OkResponse[[]volume.VolumeOut]
// @Router		/volumes [get]
func (h *volumeHandler) Get(ctx *gin.Context) {
	volumes, err := h.volumeService.Get(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(volumes))
}

// @Summary	Creates a new volume
// @Accept		json
// @Produce	json
// @Tags		volumes
// @Param		request	body		volume.VolumeIn	true	"The volume to create"
// @Success	200		{object}	utils.OkResponse[volume.VolumeOut]
// @Failure	422		{object}	utils.ErrorResponse	"The request payload was invalid"
// @Router		/volumes [post]
func (h *volumeHandler) Create(ctx *gin.Context) {
	req := VolumeIn{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	volume, err := h.volumeService.Create(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(volume))
}

// @Summary	Attaches a volume to an instance
// @Accept		json
// @Produce	json
// @Tags		volumes
// @Param		id		path		string			true	"The volume's ID"
// @Param		request	body		volume.AttachIn	true	"The instance to attach to"
// @Success	200		{object}	utils.OkResponse[string]
// @Failure	404		{object}	utils.ErrorResponse	"The volume was not found"
// @Router		/volumes/{id}/attach [post]
func (h *volumeHandler) Attach(ctx *gin.Context) {
	req := AttachIn{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	if err := h.volumeService.Attach(ctx.Request.Context(), ctx.Param("id"), req.InstanceId); err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse("attached"))
}

// @Summary	Detaches a volume from its instance
// @Produce	json
// @Tags		volumes
// @Param		id	path		string	true	"The volume's ID"
// @Success	200	{object}	utils.OkResponse[string]
// @Failure	404	{object}	utils.ErrorResponse	"The volume was not found"
// @Router		/volumes/{id}/detach [post]
func (h *volumeHandler) Detach(ctx *gin.Context) {
	if err := h.volumeService.Detach(ctx.Request.Context(), ctx.Param("id")); err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse("detached"))
}
