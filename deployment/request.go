package deployment

import (
	"fmt"
	"strings"
	"time"

	"verdaBackend/client"
)

const hostnameTimeFormat = "20060102-150405"

type (
	// DeploymentRequest is a fully defaulted request ready for the
	// orchestrator. Callers fill it from their configuration snapshot.
	DeploymentRequest struct {
		Project     string
		GpuType     string
		GpuCount    int
		Image       string
		Hostname    string
		Description string
		Location    string
		UseSpot     bool
		VolumeId    string
		ScriptId    string
		SshKeyIds   []string
	}

	// Outcome classifies how a readiness poll ended.
	Outcome string

	// PollOutcome is the result of a readiness poll. Instance carries the
	// last known state, Attempts the number of provider round-trips.
	PollOutcome struct {
		Instance       client.Instance `json:"instance"`
		Attempts       int             `json:"attempts"`
		ElapsedSeconds float64         `json:"elapsedSeconds"`
		Outcome        Outcome         `json:"outcome"`
		Err            error           `json:"-"`
	}

	// Result is a finished deployment: the poll outcome plus any non-fatal
	// attachment warnings gathered on the way.
	Result struct {
		DeploymentId string
		Request      DeploymentRequest
		Poll         PollOutcome
		Warnings     []*AttachmentError
	}
)

const (
	OutcomeReady    Outcome = "READY"
	OutcomeTimedOut Outcome = "TIMED_OUT"
	OutcomeFailed   Outcome = "FAILED"
)

// Normalize derives the hostname when none was given.
func (r *DeploymentRequest) Normalize(now time.Time) {
	if r.Hostname == "" && r.Project != "" && r.GpuType != "" {
		r.Hostname = fmt.Sprintf(
			"%s-%s-%s", r.Project, strings.ToLower(r.GpuType), now.Format(hostnameTimeFormat),
		)
	}
}

// Validate rejects requests before any provider call is made.
func (r *DeploymentRequest) Validate() error {
	if r.Project == "" {
		return &ValidationError{Field: "project", Reason: "must not be empty"}
	}

	if r.GpuType == "" {
		return &ValidationError{Field: "gpuType", Reason: "must not be empty"}
	}

	if r.Image == "" {
		return &ValidationError{Field: "image", Reason: "must not be empty"}
	}

	if client.InstanceTypeFor(r.GpuType, r.GpuCount) == "" {
		return &ValidationError{
			Field:  "gpuType",
			Reason: fmt.Sprintf("no instance type for %dx %s", r.GpuCount, r.GpuType),
		}
	}

	return nil
}

// InstanceType resolves the provider instance type for this request.
func (r *DeploymentRequest) InstanceType() string {
	return client.InstanceTypeFor(r.GpuType, r.GpuCount)
}
