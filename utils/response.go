package utils

import (
	"errors"
	"net/http"

	"verdaBackend/client"
	"verdaBackend/deployment"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OkResponse[T any] struct {
	Payload T `json:"payload"`
}

func CreateOkResponse[T any](obj T) (int, OkResponse[T]) {
	return http.StatusOK, OkResponse[T]{Payload: obj}
}

func CreateErrorResponse(err error) (int, ErrorResponse) {
	var validationErr *deployment.ValidationError
	var capacityErr *deployment.CapacityError
	var deploymentErr *deployment.DeploymentError
	var authErr *client.AuthError
	var httpErr *client.HTTPError
	var transportErr *client.TransportError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, ErrorResponse{Code: 422, Message: err.Error()}
	case errors.As(err, &capacityErr):
		return http.StatusConflict, ErrorResponse{Code: 1001, Message: err.Error()}
	case errors.As(err, &deploymentErr):
		return http.StatusBadGateway, ErrorResponse{Code: 1002, Message: err.Error()}
	case errors.As(err, &authErr), errors.Is(err, ErrMissingCredentials):
		return http.StatusUnauthorized, ErrorResponse{Code: 401, Message: err.Error()}
	case errors.As(err, &httpErr):
		return http.StatusBadGateway, ErrorResponse{Code: 2001, Message: err.Error()}
	case errors.As(err, &transportErr), errors.Is(err, ErrProviderUnreachable):
		return http.StatusGatewayTimeout, ErrorResponse{Code: 2002, Message: err.Error()}
	case errors.Is(err, ErrInstanceNotFound),
		errors.Is(err, ErrVolumeNotFound),
		errors.Is(err, ErrScriptNotFound),
		errors.Is(err, ErrWatchNotFound),
		errors.Is(err, ErrDeploymentNotFound):
		return http.StatusNotFound, ErrorResponse{Code: -1, Message: err.Error()}
	case errors.Is(err, ErrValidationError):
		return http.StatusUnprocessableEntity, ErrorResponse{Code: 422, Message: err.Error()}
	case errors.Is(err, ErrConfirmationRequired):
		return http.StatusBadRequest, ErrorResponse{Code: 3001, Message: err.Error()}
	case errors.Is(err, ErrNoSshKeys):
		return http.StatusBadRequest, ErrorResponse{Code: 3002, Message: err.Error()}
	case errors.Is(err, ErrNoSpotCapacity):
		return http.StatusConflict, ErrorResponse{Code: 1001, Message: err.Error()}
	case errors.Is(err, ErrProviderError):
		return http.StatusBadGateway, ErrorResponse{Code: 2001, Message: err.Error()}
	case errors.Is(err, ErrDatabaseError):
		return http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()}
	}

	return http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()}
}

// ReplaceNotFound turns a provider 404 into the given sentinel so handlers
// answer with a proper not-found response instead of a gateway error.
func ReplaceNotFound(err error, replacement error) error {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
		return replacement
	}

	return err
}

func CreateValidationError(err error) (int, ErrorResponse) {
	return http.StatusUnprocessableEntity, ErrorResponse{Code: 422, Message: err.Error()}
}

func CreateSocketErrorResponse(err error) ErrorResponse {
	switch {
	case errors.Is(err, ErrInvalidSocketRequest):
		return ErrorResponse{Code: 5422, Message: err.Error()}
	default:
		return ErrorResponse{Code: -1, Message: err.Error()}
	}
}

func CreateSocketOkResponse[T any](obj T) OkResponse[T] {
	return OkResponse[T]{Payload: obj}
}
