package volume

import (
	"context"

	"github.com/samber/lo"

	"verdaBackend/client"
	"verdaBackend/config"
	"verdaBackend/utils"
)

const defaultVolumeType = "NVMe_Shared"

type (
	Service interface {
		Get(ctx context.Context, status string) ([]VolumeOut, error)
		Create(ctx context.Context, req VolumeIn) (*VolumeOut, error)
		Attach(ctx context.Context, volumeId string, instanceId string) error
		Detach(ctx context.Context, volumeId string) error
	}

	volumeService struct {
		apiClient     client.VerdaClient
		configManager config.Manager
	}
)

func CreateService(apiClient client.VerdaClient, configManager config.Manager) Service {
	return &volumeService{
		apiClient:     apiClient,
		configManager: configManager,
	}
}

func (u *volumeService) Get(ctx context.Context, status string) ([]VolumeOut, error) {
	volumes, err := u.apiClient.ListVolumes(ctx, status)
	if err != nil {
		return nil, err
	}

	return lo.Map(volumes, func(volume client.Volume, _ int) VolumeOut {
		return volumeToOut(volume)
	}), nil
}

func (u *volumeService) Create(ctx context.Context, req VolumeIn) (*VolumeOut, error) {
	cfg := u.configManager.Snapshot()

	volume, err := u.apiClient.CreateVolume(ctx, client.CreateVolumeRequest{
		Name:     req.Name,
		Size:     lo.FromPtrOr(req.Size, cfg.Defaults.VolumeSize),
		Type:     lo.FromPtrOr(req.Type, defaultVolumeType),
		Location: lo.FromPtrOr(req.Location, cfg.Defaults.Location),
	})
	if err != nil {
		return nil, err
	}

	out := volumeToOut(*volume)

	return &out, nil
}

func (u *volumeService) Attach(ctx context.Context, volumeId string, instanceId string) error {
	if err := u.apiClient.AttachVolume(ctx, instanceId, volumeId); err != nil {
		return utils.ReplaceNotFound(err, utils.ErrVolumeNotFound)
	}

	return nil
}

func (u *volumeService) Detach(ctx context.Context, volumeId string) error {
	if err := u.apiClient.DetachVolume(ctx, volumeId); err != nil {
		return utils.ReplaceNotFound(err, utils.ErrVolumeNotFound)
	}

	return nil
}

func volumeToOut(volume client.Volume) VolumeOut {
	return VolumeOut{
		Id:         volume.Id,
		Name:       volume.Name,
		Size:       volume.Size,
		Type:       volume.Type,
		Status:     volume.Status,
		Location:   volume.Location,
		InstanceId: volume.InstanceId,
	}
}
