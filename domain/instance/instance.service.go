package instance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"verdaBackend/client"
	"verdaBackend/config"
	"verdaBackend/deployment"
	"verdaBackend/domain/history"
	"verdaBackend/storage"
	"verdaBackend/utils"
)

type (
	Service interface {
		Get(ctx context.Context, status string) ([]InstanceOut, error)
		GetByUuid(ctx context.Context, instanceId string) (*InstanceOut, error)
		Deploy(ctx context.Context, req DeployIn) (*DeployOut, error)
		WaitForReady(ctx context.Context, instanceId string, req WaitIn) (*DeployOut, error)
		Delete(ctx context.Context, instanceId string, confirm bool) error
		Shutdown(ctx context.Context, instanceId string) error
		Start(ctx context.Context, instanceId string) error
		ActiveDeployments() []deployment.ActiveDeployment
		CancelDeployment(deploymentId string) error
	}

	instanceService struct {
		apiClient         client.VerdaClient
		configManager     config.Manager
		deploymentManager deployment.Manager
		poller            deployment.Poller
		historyService    history.Service
		storageManager    storage.StorageManager
	}
)

func CreateService(
	apiClient client.VerdaClient,
	configManager config.Manager,
	deploymentManager deployment.Manager,
	poller deployment.Poller,
	historyService history.Service,
	storageManager storage.StorageManager,
) Service {
	return &instanceService{
		apiClient:         apiClient,
		configManager:     configManager,
		deploymentManager: deploymentManager,
		poller:            poller,
		historyService:    historyService,
		storageManager:    storageManager,
	}
}

func (u *instanceService) Get(ctx context.Context, status string) ([]InstanceOut, error) {
	instances, err := u.apiClient.ListInstances(ctx, status)
	if err != nil {
		return nil, err
	}

	return lo.Map(instances, func(instance client.Instance, _ int) InstanceOut {
		return instanceToOut(instance)
	}), nil
}

func (u *instanceService) GetByUuid(ctx context.Context, instanceId string) (*InstanceOut, error) {
	instance, err := u.apiClient.GetInstance(ctx, instanceId)
	if err != nil {
		return nil, utils.ReplaceNotFound(err, utils.ErrInstanceNotFound)
	}

	out := instanceToOut(*instance)

	return &out, nil
}

// Deploy builds a full deployment request from the configured defaults and
// the agent's overrides, runs it and records the result. The configuration
// is captured once at the start, later updates don't affect this deployment.
func (u *instanceService) Deploy(ctx context.Context, req DeployIn) (*DeployOut, error) {
	cfg := u.configManager.Snapshot()

	request := deployment.DeploymentRequest{
		Project:     lo.FromPtrOr(req.Project, cfg.Defaults.Project),
		GpuType:     lo.FromPtrOr(req.GpuType, cfg.Defaults.GpuType),
		GpuCount:    lo.FromPtrOr(req.GpuCount, cfg.Defaults.GpuCount),
		Image:       lo.FromPtrOr(req.Image, cfg.Defaults.Image),
		Hostname:    lo.FromPtrOr(req.Hostname, ""),
		Location:    lo.FromPtrOr(req.Location, cfg.Defaults.Location),
		Description: lo.FromPtrOr(req.Description, ""),
		UseSpot:     lo.FromPtrOr(req.UseSpot, cfg.Deployment.UseSpot),
		VolumeId:    lo.FromPtrOr(req.VolumeId, cfg.Defaults.VolumeId),
		ScriptId:    lo.FromPtrOr(req.ScriptId, cfg.Defaults.ScriptId),
	}

	if request.Project == "" {
		request.Project = cfg.Defaults.HostnamePrefix
	}

	sshKeys, err := u.apiClient.ListSshKeys(ctx)
	if err != nil {
		return nil, err
	}

	if len(sshKeys) == 0 {
		return nil, utils.ErrNoSshKeys
	}

	request.SshKeyIds = lo.Map(sshKeys, func(key client.SshKey, _ int) string {
		return key.Id
	})

	timeout := time.Duration(lo.FromPtrOr(req.ReadyTimeout, cfg.Deployment.ReadyTimeout)) * time.Second
	interval := time.Duration(lo.FromPtrOr(req.PollInterval, cfg.Deployment.PollInterval)) * time.Second

	result, err := u.deploymentManager.Run(ctx, request, timeout, interval)
	if err != nil {
		return nil, err
	}

	out := deployOut(result)
	u.recordDeployment(result, out)

	return out, nil
}

func (u *instanceService) WaitForReady(ctx context.Context, instanceId string, req WaitIn) (*DeployOut, error) {
	if _, err := u.apiClient.GetInstance(ctx, instanceId); err != nil {
		return nil, utils.ReplaceNotFound(err, utils.ErrInstanceNotFound)
	}

	cfg := u.configManager.Snapshot()
	timeout := time.Duration(lo.FromPtrOr(req.ReadyTimeout, cfg.Deployment.ReadyTimeout)) * time.Second
	interval := time.Duration(lo.FromPtrOr(req.PollInterval, cfg.Deployment.PollInterval)) * time.Second

	outcome := u.poller.Poll(ctx, "", instanceId, timeout, interval)

	out := &DeployOut{
		Outcome:        outcome.Outcome,
		Attempts:       outcome.Attempts,
		ElapsedSeconds: outcome.ElapsedSeconds,
		Instance:       instanceToOut(outcome.Instance),
		Warnings:       make([]string, 0),
	}

	if outcome.Err != nil {
		out.FailureReason = outcome.Err.Error()
	}

	return out, nil
}

func (u *instanceService) Delete(ctx context.Context, instanceId string, confirm bool) error {
	if !confirm {
		return utils.ErrConfirmationRequired
	}

	if err := u.apiClient.InstanceAction(ctx, instanceId, client.ActionDelete); err != nil {
		return utils.ReplaceNotFound(err, utils.ErrInstanceNotFound)
	}

	return nil
}

func (u *instanceService) Shutdown(ctx context.Context, instanceId string) error {
	if err := u.apiClient.InstanceAction(ctx, instanceId, client.ActionShutdown); err != nil {
		return utils.ReplaceNotFound(err, utils.ErrInstanceNotFound)
	}

	return nil
}

func (u *instanceService) Start(ctx context.Context, instanceId string) error {
	if err := u.apiClient.InstanceAction(ctx, instanceId, client.ActionStart); err != nil {
		return utils.ReplaceNotFound(err, utils.ErrInstanceNotFound)
	}

	return nil
}

func (u *instanceService) ActiveDeployments() []deployment.ActiveDeployment {
	return u.deploymentManager.Active()
}

func (u *instanceService) CancelDeployment(deploymentId string) error {
	if !u.deploymentManager.Cancel(deploymentId) {
		return utils.ErrDeploymentNotFound
	}

	return nil
}

// recordDeployment persists the history record and the run artifacts. Both
// are best-effort, a failed write never fails the deployment itself.
func (u *instanceService) recordDeployment(result *deployment.Result, out *DeployOut) {
	record := &history.DeploymentRecord{
		UUID:           result.DeploymentId,
		Project:        result.Request.Project,
		GpuType:        result.Request.GpuType,
		GpuCount:       result.Request.GpuCount,
		InstanceType:   result.Request.InstanceType(),
		InstanceId:     result.Poll.Instance.Id,
		Hostname:       result.Request.Hostname,
		Location:       result.Poll.Instance.Location,
		Ip:             result.Poll.Instance.Ip,
		Outcome:        string(result.Poll.Outcome),
		Attempts:       result.Poll.Attempts,
		ElapsedSeconds: result.Poll.ElapsedSeconds,
		Warnings:       strings.Join(out.Warnings, "\n"),
		FailureReason:  out.FailureReason,
	}

	if err := u.historyService.Record(context.Background(), record); err != nil {
		log.Warnf("[DEPLOY] Failed to record deployment %s: %v", result.DeploymentId, err)
	}

	if err := u.storageManager.CreateRunRecord(result.DeploymentId); err != nil {
		log.Warnf("[DEPLOY] Failed to create run record for %s: %v", result.DeploymentId, err)
		return
	}

	if err := u.writeRunArtifacts(result, out); err != nil {
		log.Warnf("[DEPLOY] Failed to write run artifacts for %s: %v", result.DeploymentId, err)

		// A partial record is worse than none.
		if err := u.storageManager.DeleteRunRecord(result.DeploymentId); err != nil {
			log.Warnf("[DEPLOY] Failed to remove partial run record for %s: %v", result.DeploymentId, err)
		}
	}
}

func (u *instanceService) writeRunArtifacts(result *deployment.Result, out *DeployOut) error {
	if err := u.storageManager.WriteArtifact(result.DeploymentId, "request.yml", result.Request); err != nil {
		return err
	}

	if err := u.storageManager.WriteArtifact(result.DeploymentId, "outcome.yml", out); err != nil {
		return err
	}

	return u.storageManager.SnapshotConfig(result.DeploymentId, u.configManager.Path())
}

func deployOut(result *deployment.Result) *DeployOut {
	out := &DeployOut{
		DeploymentId:   result.DeploymentId,
		Outcome:        result.Poll.Outcome,
		Attempts:       result.Poll.Attempts,
		ElapsedSeconds: result.Poll.ElapsedSeconds,
		Instance:       instanceToOut(result.Poll.Instance),
		Warnings: lo.Map(result.Warnings, func(warning *deployment.AttachmentError, _ int) string {
			return warning.Error()
		}),
	}

	if result.Poll.Err != nil {
		out.FailureReason = result.Poll.Err.Error()
	}

	return out
}

func sshCommand(ip string, port int) string {
	return fmt.Sprintf("ssh ubuntu@%s -p %d", ip, port)
}
