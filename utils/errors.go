package utils

import "errors"

var ErrServer = errors.New("there was a problem processing the request")
var ErrValidationError = errors.New("the data provided was invalid")
var ErrMissingCredentials = errors.New("the provider credentials are missing or invalid")
var ErrInstanceNotFound = errors.New("the specified instance was not found")
var ErrVolumeNotFound = errors.New("the specified volume was not found")
var ErrScriptNotFound = errors.New("the specified script was not found")
var ErrWatchNotFound = errors.New("the specified availability watch was not found")
var ErrDeploymentNotFound = errors.New("the specified deployment was not found")
var ErrNoSshKeys = errors.New("no ssh keys are registered with the provider")
var ErrNoSpotCapacity = errors.New("no spot capacity is available for the requested instance type")
var ErrConfirmationRequired = errors.New("destructive actions require confirm=true")
var ErrProviderError = errors.New("the provider rejected the request")
var ErrProviderUnreachable = errors.New("the provider could not be reached")
var ErrDatabaseError = errors.New("a database error has occurred")
var ErrInvalidSocketRequest = errors.New("the socket request was invalid")
