package deployment

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"verdaBackend/client"
	"verdaBackend/events"
	"verdaBackend/types"
)

type (
	// Orchestrator runs one deployment end to end: validation, capacity
	// pre-check, instance creation, attachments, readiness poll.
	Orchestrator interface {
		Deploy(ctx context.Context, deploymentId string, request DeploymentRequest, timeout time.Duration, interval time.Duration) (*Result, error)
	}

	orchestrator struct {
		apiClient    client.VerdaClient
		poller       Poller
		statusEvents events.Event[events.StatusEvent]
	}
)

func CreateOrchestrator(
	apiClient client.VerdaClient,
	poller Poller,
	statusEvents events.Event[events.StatusEvent],
) Orchestrator {
	return &orchestrator{
		apiClient:    apiClient,
		poller:       poller,
		statusEvents: statusEvents,
	}
}

func (o *orchestrator) Deploy(
	ctx context.Context,
	deploymentId string,
	request DeploymentRequest,
	timeout time.Duration,
	interval time.Duration,
) (*Result, error) {
	request.Normalize(time.Now())

	if err := request.Validate(); err != nil {
		return nil, err
	}

	o.emit(deploymentId, "", events.PhaseValidated,
		fmt.Sprintf("Deploying %dx %s as %s.", request.GpuCount, request.GpuType, request.Hostname),
		types.Info)

	// The capacity probe is advisory: a failed probe never blocks the
	// deployment, only a definitive "nothing available" answer does.
	if request.UseSpot {
		probedLocations := client.Locations()
		if request.Location != "" {
			probedLocations = []string{request.Location}
		}

		availability, err := o.apiClient.FindSpotCapacity(ctx, request.InstanceType(), request.Location)
		if err != nil {
			log.Warnf("[DEPLOY] Capacity pre-check failed, deploying anyway: %v", err)
		} else if !availability.Available {
			return nil, &CapacityError{
				InstanceType: request.InstanceType(),
				Locations:    probedLocations,
			}
		} else if request.Location == "" {
			request.Location = availability.Location
		}
	}

	instance, err := o.apiClient.CreateInstance(ctx, client.CreateInstanceRequest{
		InstanceType: request.InstanceType(),
		Image:        request.Image,
		Hostname:     request.Hostname,
		Description:  request.Description,
		Location:     request.Location,
		IsSpot:       request.UseSpot,
		SshKeyIds:    request.SshKeyIds,
	})
	if err != nil {
		return nil, &DeploymentError{Err: err}
	}

	o.emit(deploymentId, instance.Id, events.PhaseCreated,
		fmt.Sprintf("Instance %s created.", instance.Id), types.Info)

	result := &Result{
		DeploymentId: deploymentId,
		Request:      request,
		Warnings:     make([]*AttachmentError, 0),
	}

	// Attachments are attempted independently and never fail the deployment.
	if request.VolumeId != "" {
		if err := o.apiClient.AttachVolume(ctx, instance.Id, request.VolumeId); err != nil {
			result.Warnings = append(result.Warnings, o.warn(deploymentId, &AttachmentError{
				Resource:   "volume",
				ResourceId: request.VolumeId,
				InstanceId: instance.Id,
				Err:        err,
			}))
		}
	}

	if request.ScriptId != "" {
		if err := o.apiClient.ApplyScript(ctx, instance.Id, request.ScriptId); err != nil {
			result.Warnings = append(result.Warnings, o.warn(deploymentId, &AttachmentError{
				Resource:   "script",
				ResourceId: request.ScriptId,
				InstanceId: instance.Id,
				Err:        err,
			}))
		}
	}

	result.Poll = o.poller.Poll(ctx, deploymentId, instance.Id, timeout, interval)

	// When the poller never completed a fetch, carry the created instance.
	if result.Poll.Instance.Hostname == "" {
		result.Poll.Instance = *instance
	}

	o.emitOutcome(deploymentId, result)

	return result, nil
}

func (o *orchestrator) warn(deploymentId string, attachmentErr *AttachmentError) *AttachmentError {
	log.Warnf("[DEPLOY] %v", attachmentErr)
	o.emit(deploymentId, attachmentErr.InstanceId, events.PhaseAttachment,
		attachmentErr.Error(), types.Warning)

	return attachmentErr
}

func (o *orchestrator) emitOutcome(deploymentId string, result *Result) {
	switch result.Poll.Outcome {
	case OutcomeReady:
		o.emit(deploymentId, result.Poll.Instance.Id, events.PhaseReady,
			fmt.Sprintf("Instance %s is ready at %s.", result.Poll.Instance.Id, result.Poll.Instance.Ip),
			types.Success)
	case OutcomeTimedOut:
		o.emit(deploymentId, result.Poll.Instance.Id, events.PhaseTimedOut,
			fmt.Sprintf("Instance %s was not ready after %.0f seconds.",
				result.Poll.Instance.Id, result.Poll.ElapsedSeconds),
			types.Warning)
	case OutcomeFailed:
		o.emit(deploymentId, result.Poll.Instance.Id, events.PhaseFailed,
			fmt.Sprintf("Deployment failed: %v.", result.Poll.Err), types.Error)
	}
}

func (o *orchestrator) emit(
	deploymentId string,
	instanceId string,
	phase string,
	content string,
	severity types.Severity,
) {
	if o.statusEvents == nil {
		return
	}

	o.statusEvents.Dispatch(events.StatusEvent{
		DeploymentId: deploymentId,
		InstanceId:   instanceId,
		Phase:        phase,
		Content:      content,
		Severity:     severity,
		Timestamp:    time.Now(),
	})
}
