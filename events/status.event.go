package events

import (
	"time"

	"verdaBackend/types"
)

// StatusEvent is a single step of a deployment's lifecycle, fanned out to
// socket.io subscribers and the log.
type StatusEvent struct {
	DeploymentId string         `json:"deploymentId"`
	InstanceId   string         `json:"instanceId"`
	Phase        string         `json:"phase"`
	Content      string         `json:"content"`
	Severity     types.Severity `json:"severity"`
	Attempt      int            `json:"attempt"`
	Timestamp    time.Time      `json:"timestamp"`
}

const (
	PhaseValidated     = "validated"
	PhaseCreated       = "created"
	PhaseAttachment    = "attachment"
	PhasePolling       = "polling"
	PhaseReady         = "ready"
	PhaseTimedOut      = "timed-out"
	PhaseFailed        = "failed"
	PhaseWatchProbe    = "watch-probe"
	PhaseWatchDeployed = "watch-deployed"
)
