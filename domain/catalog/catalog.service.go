package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"

	"verdaBackend/client"
	"verdaBackend/config"
	"verdaBackend/utils"
)

type (
	Service interface {
		SshKeys(ctx context.Context) ([]SshKeyOut, error)
		Images(ctx context.Context, filter string) ([]ImageOut, error)
		GpuOptions() []GpuOptionOut
		Availability(ctx context.Context, req AvailabilityIn) (*AvailabilityOut, error)
	}

	catalogService struct {
		apiClient     client.VerdaClient
		configManager config.Manager
	}
)

func CreateService(apiClient client.VerdaClient, configManager config.Manager) Service {
	return &catalogService{
		apiClient:     apiClient,
		configManager: configManager,
	}
}

func (u *catalogService) SshKeys(ctx context.Context) ([]SshKeyOut, error) {
	sshKeys, err := u.apiClient.ListSshKeys(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(sshKeys, func(key client.SshKey, _ int) SshKeyOut {
		return SshKeyOut{Id: key.Id, Name: key.Name}
	}), nil
}

func (u *catalogService) Images(ctx context.Context, filter string) ([]ImageOut, error) {
	images, err := u.apiClient.ListImages(ctx)
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(images, func(image client.Image, _ int) (ImageOut, bool) {
		if filter != "" && !strings.Contains(strings.ToLower(image.Name), strings.ToLower(filter)) {
			return ImageOut{}, false
		}

		return ImageOut{Name: image.Name, ImageType: image.ImageType}, true
	}), nil
}

// Availability runs a one-shot capacity probe, without creating a watch or
// starting a deployment. GPU type and count default from the configuration.
func (u *catalogService) Availability(ctx context.Context, req AvailabilityIn) (*AvailabilityOut, error) {
	cfg := u.configManager.Snapshot()

	gpuType := req.GpuType
	if gpuType == "" {
		gpuType = cfg.Defaults.GpuType
	}

	gpuCount := req.GpuCount
	if gpuCount == 0 {
		gpuCount = cfg.Defaults.GpuCount
	}

	instanceType := client.InstanceTypeFor(gpuType, gpuCount)
	if instanceType == "" {
		return nil, utils.ErrValidationError
	}

	availability, err := u.apiClient.FindSpotCapacity(ctx, instanceType, req.Location)
	if err != nil {
		return nil, err
	}

	return &AvailabilityOut{
		GpuType:      gpuType,
		GpuCount:     gpuCount,
		InstanceType: instanceType,
		Available:    availability.Available,
		Location:     availability.Location,
	}, nil
}

// GpuOptions lists the deployable GPU configurations known to the backend.
func (u *catalogService) GpuOptions() []GpuOptionOut {
	options := make([]GpuOptionOut, 0)

	for _, gpuType := range []string{"B200", "B300", "GB300", "H200"} {
		counts := make([]int, 0)
		instanceTypes := make([]string, 0)

		for _, count := range []int{1, 2, 4, 8} {
			if instanceType := client.InstanceTypeFor(gpuType, count); instanceType != "" {
				counts = append(counts, count)
				instanceTypes = append(instanceTypes, instanceType)
			}
		}

		options = append(options, GpuOptionOut{
			GpuType:       gpuType,
			GpuCounts:     counts,
			InstanceTypes: instanceTypes,
		})
	}

	sort.Slice(options, func(i, j int) bool {
		return options[i].GpuType < options[j].GpuType
	})

	return options
}
