package settings

import (
	"github.com/gin-gonic/gin"

	"verdaBackend/utils"
)

type (
	Handler interface {
		Get(ctx *gin.Context)
		Update(ctx *gin.Context)
	}

	settingsHandler struct {
		settingsService Service
	}
)

func CreateHandler(settingsService Service) Handler {
	return &settingsHandler{
		settingsService: settingsService,
	}
}

// @Summary	Returns the active configuration
// @Produce	json
// @Tags		settings
// @Success	200	{object}	utils.OkResponse[config.VerdaConfig]
// @Router		/config [get]
func (h *settingsHandler) Get(ctx *gin.Context) {
	ctx.JSON(utils.CreateOkResponse(h.settingsService.Get()))
}

// @Summary	Deep-merges a partial document into the configuration file
// @Accept		json
// @Produce	json
// @Tags		settings
// @Param		request	body		map[string]any	true	"The partial configuration"
// @Success	200		{object}	utils.OkResponse[config.VerdaConfig]
// @Failure	422		{object}	utils.ErrorResponse	"The request payload was invalid"
// @Router		/config [patch]
func (h *settingsHandler) Update(ctx *gin.Context) {
	updates := make(map[string]any)
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	if err := h.settingsService.Update(updates); err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(h.settingsService.Get()))
}
