package deployment

import (
	"fmt"
	"strings"

	"verdaBackend/client"
)

type (
	// ValidationError means the request was rejected before any provider call.
	ValidationError struct {
		Field  string
		Reason string
	}

	// CapacityError means the pre-submission probe found no spot capacity.
	CapacityError struct {
		InstanceType string
		Locations    []string
	}

	// DeploymentError wraps a failed instance creation. No instance exists.
	DeploymentError struct {
		Err error
	}

	// AttachmentError is a non-fatal post-create attachment failure.
	AttachmentError struct {
		Resource   string
		ResourceId string
		InstanceId string
		Err        error
	}

	// ProvisioningError means the provider moved the instance to a terminal
	// failure state while it was being polled.
	ProvisioningError struct {
		InstanceId string
		Status     client.InstanceStatus
	}

	// PollError means polling itself broke down, not the instance.
	PollError struct {
		InstanceId string
		Failures   int
		Err        error
	}
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid deployment request: %s: %s", e.Field, e.Reason)
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf(
		"no spot capacity for %s in %s", e.InstanceType, strings.Join(e.Locations, ", "),
	)
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("instance creation failed: %v", e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf(
		"failed to attach %s %s to instance %s: %v", e.Resource, e.ResourceId, e.InstanceId, e.Err,
	)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("instance %s entered status %s during provisioning", e.InstanceId, e.Status)
}

func (e *PollError) Error() string {
	return fmt.Sprintf("polling instance %s failed after %d attempts: %v", e.InstanceId, e.Failures, e.Err)
}

func (e *PollError) Unwrap() error {
	return e.Err
}
