package script

import (
	"github.com/gin-gonic/gin"

	"verdaBackend/utils"
)

type (
	Handler interface {
		Get(ctx *gin.Context)
		GetByUuid(ctx *gin.Context)
		GetForInstance(ctx *gin.Context)
		Create(ctx *gin.Context)
		SetDefault(ctx *gin.Context)
	}

	scriptHandler struct {
		scriptService Service
	}
)

func CreateHandler(scriptService Service) Handler {
	return &scriptHandler{
		scriptService: scriptService,
	}
}

// @Summary	Returns all startup scripts of the account
// @Produce	json
// @Tags		scripts
// @Success	200	{object}	utils.OkResponse[[]script.ScriptOut]
// @Router		/scripts [get]
func (h *scriptHandler) Get(ctx *gin.Context) {
	scripts, err := h.scriptService.Get(ctx.Request.Context())
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(scripts))
}

// @Summary	Returns a single startup script including its content
// @Produce	json
// @Tags		scripts
// @Param		id	path		string	true	"The script's ID"
// @Success	200	{object}	utils.OkResponse[script.ScriptOut]
// @Failure	404	{object}	utils.ErrorResponse	"The script was not found"
// @Router		/scripts/{id} [get]
func (h *scriptHandler) GetByUuid(ctx *gin.Context) {
	result, err := h.scriptService.GetByUuid(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(result))
}

// @Summary	Returns the startup script attached to an instance
// @Produce	json
// @Tags		scripts
// @Param		id	path		string	true	"The instance's ID"
// @Success	200	{object}	utils.OkResponse[script.ScriptOut]
// @Failure	404	{object}	utils.ErrorResponse	"The instance or script was not found"
// @Router		/scripts/for-instance/{id} [get]
func (h *scriptHandler) GetForInstance(ctx *gin.Context) {
	result, err := h.scriptService.GetForInstance(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(result))
}

// @Summary	Creates a new startup script, optionally making it the default
// @Accept		json
// @Produce	json
// @Tags		scripts
// @Param		request	body		script.ScriptIn	true	"The script to create"
// @Success	200		{object}	utils.OkResponse[script.ScriptOut]
// @Failure	422		{object}	utils.ErrorResponse	"The request payload was invalid"
// @Router		/scripts [post]
func (h *scriptHandler) Create(ctx *gin.Context) {
	req := ScriptIn{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	result, err := h.scriptService.Create(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(result))
}

// @Summary	Makes an existing script the default for future deployments
// @Accept		json
// @Produce	json
// @Tags		scripts
// @Param		request	body		script.DefaultIn	true	"The script to set as default"
// @Success	200		{object}	utils.OkResponse[string]
// @Failure	404		{object}	utils.ErrorResponse	"The script was not found"
// @Router		/scripts/default [put]
func (h *scriptHandler) SetDefault(ctx *gin.Context) {
	req := DefaultIn{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	if err := h.scriptService.SetDefault(ctx.Request.Context(), req.ScriptId); err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse("default set"))
}
