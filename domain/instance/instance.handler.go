package instance

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"verdaBackend/schema"
	"verdaBackend/utils"
)

type (
	Handler interface {
		Get(ctx *gin.Context)
		GetByUuid(ctx *gin.Context)
		Deploy(ctx *gin.Context)
		Wait(ctx *gin.Context)
		Delete(ctx *gin.Context)
		Shutdown(ctx *gin.Context)
		Start(ctx *gin.Context)
		Active(ctx *gin.Context)
		Cancel(ctx *gin.Context)
	}

	instanceHandler struct {
		instanceService Service
		schemaService   schema.Service
	}
)

func CreateHandler(instanceService Service, schemaService schema.Service) Handler {
	return &instanceHandler{
		instanceService: instanceService,
		schemaService:   schemaService,
	}
}

// @Summary	Returns all instances of the account
// @Produce	json
// @Tags		instances
// @Param		status	query		string	false	"Only return instances with this status"
// @Success	200		{object}	utils.OkResponse[[]instance.InstanceOut]
// @Failure	502		{object}	utils.ErrorResponse	"The provider rejected the request"
// @Router		/instances [get]
func (h *instanceHandler) Get(ctx *gin.Context) {
	instances, err := h.instanceService.Get(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(instances))
}

// @Summary	Returns a single instance with its SSH connection info
// @Produce	json
// @Tags		instances
// @Param		id	path		string	true	"The instance's ID"
// @Success	200	{object}	utils.OkResponse[instance.InstanceOut]
// @Failure	404	{object}	utils.ErrorResponse	"The instance was not found"
// @Router		/instances/{id} [get]
func (h *instanceHandler) GetByUuid(ctx *gin.Context) {
	result, err := h.instanceService.GetByUuid(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(result))
}

// @Summary	Deploys a spot GPU instance and polls it until it is ready
// @Accept		json
// @Produce	json
// @Tags		instances
// @Param		request	body		instance.DeployIn	true	"The deployment request"
// @Success	200		{object}	utils.OkResponse[instance.DeployOut]
// @Failure	409		{object}	utils.ErrorResponse	"No spot capacity available"
// @Failure	422		{object}	utils.ErrorResponse	"The request payload was invalid"
// @Failure	502		{object}	utils.ErrorResponse	"The instance could not be created"
// @Router		/instances [post]
func (h *instanceHandler) Deploy(ctx *gin.Context) {
	payload, ok := h.bindValidated(ctx, "deploy")
	if !ok {
		return
	}

	req := DeployIn{}
	if err := json.Unmarshal(payload, &req); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return
	}

	result, err := h.instanceService.Deploy(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(result))
}

// @Summary	Polls an existing instance until it is ready
// @Accept		json
// @Produce	json
// @Tags		instances
// @Param		id		path		string			true	"The instance's ID"
// @Param		request	body		instance.WaitIn	true	"Timeout and interval overrides"
// @Success	200		{object}	utils.OkResponse[instance.DeployOut]
// @Failure	404		{object}	utils.ErrorResponse	"The instance was not found"
// @Router		/instances/{id}/wait [post]
func (h *instanceHandler) Wait(ctx *gin.Context) {
	payload, ok := h.bindValidated(ctx, "wait")
	if !ok {
		return
	}

	req := WaitIn{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			ctx.JSON(utils.CreateValidationError(err))
			return
		}
	}

	result, err := h.instanceService.WaitForReady(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse(result))
}

// @Summary	Deletes an instance
// @Produce	json
// @Tags		instances
// @Param		id		path		string	true	"The instance's ID"
// @Param		confirm	query		bool	true	"Must be true for the deletion to happen"
// @Success	200		{object}	utils.OkResponse[string]
// @Failure	400		{object}	utils.ErrorResponse	"The deletion was not confirmed"
// @Failure	404		{object}	utils.ErrorResponse	"The instance was not found"
// @Router		/instances/{id} [delete]
func (h *instanceHandler) Delete(ctx *gin.Context) {
	confirm := ctx.Query("confirm") == "true"

	if err := h.instanceService.Delete(ctx.Request.Context(), ctx.Param("id"), confirm); err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse("deleted"))
}

// @Summary	Shuts an instance down
// @Produce	json
// @Tags		instances
// @Param		id	path		string	true	"The instance's ID"
// @Success	200	{object}	utils.OkResponse[string]
// @Failure	404	{object}	utils.ErrorResponse	"The instance was not found"
// @Router		/instances/{id}/shutdown [post]
func (h *instanceHandler) Shutdown(ctx *gin.Context) {
	if err := h.instanceService.Shutdown(ctx.Request.Context(), ctx.Param("id")); err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse("shutdown"))
}

// @Summary	Starts a stopped instance
// @Produce	json
// @Tags		instances
// @Param		id	path		string	true	"The instance's ID"
// @Success	200	{object}	utils.OkResponse[string]
// @Failure	404	{object}	utils.ErrorResponse	"The instance was not found"
// @Router		/instances/{id}/start [post]
func (h *instanceHandler) Start(ctx *gin.Context) {
	if err := h.instanceService.Start(ctx.Request.Context(), ctx.Param("id")); err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse("started"))
}

// @Summary	Returns all deployments that are currently running
// @Produce	json
// @Tags		deployments
// @Success	200	{object}	utils.OkResponse[[]deployment.ActiveDeployment]
// @Router		/deployments/active [get]
func (h *instanceHandler) Active(ctx *gin.Context) {
	ctx.JSON(utils.CreateOkResponse(h.instanceService.ActiveDeployments()))
}

// @Summary	Cancels a running deployment
// @Produce	json
// @Tags		deployments
// @Param		id	path		string	true	"The deployment's ID"
// @Success	200	{object}	utils.OkResponse[string]
// @Failure	404	{object}	utils.ErrorResponse	"The deployment was not found"
// @Router		/deployments/{id}/cancel [post]
func (h *instanceHandler) Cancel(ctx *gin.Context) {
	if err := h.instanceService.CancelDeployment(ctx.Param("id")); err != nil {
		ctx.JSON(utils.CreateErrorResponse(err))
		return
	}

	ctx.JSON(utils.CreateOkResponse("cancelled"))
}

func (h *instanceHandler) bindValidated(ctx *gin.Context, schemaName string) ([]byte, bool) {
	payload, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return nil, false
	}

	if len(payload) == 0 {
		payload = []byte("{}")
	}

	if err := h.schemaService.Validate(schemaName, payload); err != nil {
		ctx.JSON(utils.CreateValidationError(err))
		return nil, false
	}

	return payload, true
}
