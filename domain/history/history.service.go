package history

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"verdaBackend/utils"
)

type (
	Service interface {
		Get(ctx context.Context, filter RecordFilter) ([]DeploymentRecordOut, error)
		GetByUuid(ctx context.Context, uuid string) (*DeploymentRecordOut, error)
		Record(ctx context.Context, record *DeploymentRecord) error
	}

	historyService struct {
		historyRepo Repository
	}
)

func CreateService(historyRepo Repository) Service {
	return &historyService{
		historyRepo: historyRepo,
	}
}

func (u *historyService) Get(ctx context.Context, filter RecordFilter) ([]DeploymentRecordOut, error) {
	records, err := u.historyRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	window := utils.GetItemsFromList(records, filter.Limit, filter.Offset)

	return lo.Map(window, func(record DeploymentRecord, _ int) DeploymentRecordOut {
		return recordToOut(record)
	}), nil
}

func (u *historyService) GetByUuid(ctx context.Context, uuid string) (*DeploymentRecordOut, error) {
	record, err := u.historyRepo.GetByUuid(ctx, uuid)
	if err != nil {
		return nil, err
	}

	out := recordToOut(*record)

	return &out, nil
}

func (u *historyService) Record(ctx context.Context, record *DeploymentRecord) error {
	return u.historyRepo.Create(ctx, record)
}

func recordToOut(record DeploymentRecord) DeploymentRecordOut {
	warnings := make([]string, 0)
	if record.Warnings != "" {
		warnings = strings.Split(record.Warnings, "\n")
	}

	return DeploymentRecordOut{
		Id:             record.UUID,
		Project:        record.Project,
		GpuType:        record.GpuType,
		GpuCount:       record.GpuCount,
		InstanceType:   record.InstanceType,
		InstanceId:     record.InstanceId,
		Hostname:       record.Hostname,
		Location:       record.Location,
		Ip:             record.Ip,
		Outcome:        record.Outcome,
		Attempts:       record.Attempts,
		ElapsedSeconds: record.ElapsedSeconds,
		Warnings:       warnings,
		FailureReason:  record.FailureReason,
		CreatedAt:      record.CreatedAt,
	}
}
