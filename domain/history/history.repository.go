package history

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"verdaBackend/utils"
)

type (
	Repository interface {
		Get(ctx context.Context) ([]DeploymentRecord, error)
		GetByUuid(ctx context.Context, uuid string) (*DeploymentRecord, error)
		Create(ctx context.Context, record *DeploymentRecord) error
	}

	historyRepository struct {
		db *gorm.DB
	}
)

func CreateRepository(db *gorm.DB) Repository {
	return &historyRepository{
		db: db,
	}
}

func (r *historyRepository) Get(ctx context.Context) ([]DeploymentRecord, error) {
	records := make([]DeploymentRecord, 0)
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&records)

	if result.Error != nil {
		log.Errorf("[DB] Failed to fetch deployment records: %s", result.Error.Error())
		return nil, utils.ErrDatabaseError
	}

	return records, nil
}

func (r *historyRepository) GetByUuid(ctx context.Context, uuid string) (*DeploymentRecord, error) {
	record := &DeploymentRecord{}
	result := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(record)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, utils.ErrDeploymentNotFound
	} else if result.Error != nil {
		log.Errorf("[DB] Failed to fetch deployment record: %s", result.Error.Error())
		return nil, utils.ErrDatabaseError
	}

	return record, nil
}

func (r *historyRepository) Create(ctx context.Context, record *DeploymentRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		log.Errorf("[DB] Failed to create deployment record: %s", err.Error())
		return utils.ErrDatabaseError
	}

	return nil
}
