package settings

import (
	"verdaBackend/config"
)

type (
	Service interface {
		Get() config.VerdaConfig
		Update(updates map[string]any) error
	}

	settingsService struct {
		configManager config.Manager
	}
)

func CreateService(configManager config.Manager) Service {
	return &settingsService{
		configManager: configManager,
	}
}

func (u *settingsService) Get() config.VerdaConfig {
	return u.configManager.Snapshot()
}

func (u *settingsService) Update(updates map[string]any) error {
	return u.configManager.Update(updates)
}
